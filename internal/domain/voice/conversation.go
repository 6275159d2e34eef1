package voice

import (
	"context"
	"fmt"
	"sync"

	"pill-dispenser/internal/domain/medications"
)

type Stage string

const (
	StageGreeting         Stage = "greeting"
	StageIdle             Stage = "idle"
	StageAwaitingSchedule Stage = "awaiting_schedule"
)

const (
	PromptWelcome       = "Welcome to Ai pill dispenser , please say a command"
	PromptNeedCounts    = "I need both counts. Example: 'I inserted 2 A pills and 3 B pills'"
	PromptScheduleSaved = "Schedule saved successfully!"
	PromptInvalidSched  = "Invalid schedule format. Please try again."
	PromptSaveFailed    = "Failed to save data. Please try again."
	PromptNotReady      = "Please try again."
	scheduleExampleTmpl = "Got %d A pills and %d B pills. Now say your schedule like: 'Take A at 8 AM with 2 pills and B at 7 PM with 3 pills'"
)

// ScheduleSaver persiste conteos + horario (lo implementa medications.Service).
type ScheduleSaver interface {
	StoreSchedule(ctx context.Context, in medications.StoreInput) error
}

// Reply es lo que el cliente tiene que decir en voz alta y el estado resultante.
type Reply struct {
	Stage    Stage     `json:"stage"`
	Prompt   string    `json:"prompt"`
	Counts   *Counts   `json:"counts,omitempty"`
	Schedule *Schedule `json:"schedule,omitempty"`
	Saved    bool      `json:"saved"`
}

// Conversation es el diálogo de carga del dispensador:
// greeting → idle → awaiting_schedule → idle → ...
// Los conteos quedan en memoria hasta que se guarda el horario.
type Conversation struct {
	mu     sync.Mutex
	stage  Stage
	counts Counts
	saver  ScheduleSaver
}

func NewConversation(saver ScheduleSaver) *Conversation {
	return &Conversation{stage: StageGreeting, saver: saver}
}

func (c *Conversation) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Start devuelve el saludo y pasa a idle. Llamarlo de nuevo no cambia el estado.
func (c *Conversation) Start() Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage == StageGreeting {
		c.stage = StageIdle
	}
	return Reply{Stage: c.stage, Prompt: PromptWelcome}
}

func (c *Conversation) Handle(ctx context.Context, transcript string) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.stage {
	case StageIdle:
		return c.handleIdle(transcript)
	case StageAwaitingSchedule:
		return c.handleSchedule(ctx, transcript)
	default:
		// En greeting no se aceptan comandos.
		return Reply{Stage: c.stage, Prompt: PromptNotReady}
	}
}

func (c *Conversation) handleIdle(transcript string) Reply {
	counts, ok := ExtractPillCounts(transcript)
	if !ok {
		return Reply{Stage: c.stage, Prompt: PromptNeedCounts}
	}

	c.counts = counts
	c.stage = StageAwaitingSchedule
	return Reply{
		Stage:  c.stage,
		Prompt: fmt.Sprintf(scheduleExampleTmpl, counts.A, counts.B),
		Counts: &counts,
	}
}

func (c *Conversation) handleSchedule(ctx context.Context, transcript string) Reply {
	sched, ok := ExtractSchedule(transcript)
	if !ok {
		return Reply{Stage: c.stage, Prompt: PromptInvalidSched}
	}

	in := medications.StoreInput{
		PillA:  medications.SlotInput{Time: sched.A.Time, Quantity: sched.A.Quantity},
		PillB:  medications.SlotInput{Time: sched.B.Time, Quantity: sched.B.Quantity},
		CountA: c.counts.A,
		CountB: c.counts.B,
	}
	if err := c.saver.StoreSchedule(ctx, in); err != nil {
		// Se queda esperando el horario para que el usuario lo repita.
		return Reply{Stage: c.stage, Prompt: PromptSaveFailed, Schedule: &sched}
	}

	c.stage = StageIdle
	return Reply{Stage: c.stage, Prompt: PromptScheduleSaved, Schedule: &sched, Saved: true}
}
