package monitor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"pill-dispenser/internal/domain/medications"
	"pill-dispenser/internal/platform/clock"
	"pill-dispenser/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

const (
	DefaultStockInterval  = 3 * time.Second
	DefaultTimingInterval = 30 * time.Second

	// La alerta de dosis omitida se evalúa 1 minuto después de la hora programada,
	// con tolerancia de ±15s (el tick es de 30s).
	ReminderOffset = time.Minute
	MatchWindow    = 15 * time.Second
	AlertCooldown  = 60 * time.Second
)

var ErrAlreadyRunning = errors.New("monitor already running")

type StockReader interface {
	StockCounts(ctx context.Context) (map[medications.Slot]int, error)
}

type ScheduleReader interface {
	ScheduleTimes(ctx context.Context) (map[medications.Slot]string, error)
}

type AttendanceReader interface {
	Taken(ctx context.Context, date time.Time, slot medications.Slot) (taken bool, found bool, err error)
}

type Alerter interface {
	StockExhausted(ctx context.Context, slot medications.Slot) error
	MissedDose(ctx context.Context, slot medications.Slot) error
}

type Options struct {
	Stock      StockReader
	Schedule   ScheduleReader
	Attendance AttendanceReader
	Alerter    Alerter

	Clock  clock.Clock
	State  *State // opcional; si es nil se crea uno vacío
	Logger logger.Logger

	StockInterval  time.Duration
	TimingInterval time.Duration
}

// Monitor corre dos chequeos periódicos independientes: stock agotado y dosis omitida.
// CheckStock y CheckTiming se pueden llamar a mano (tests, admin) sin el scheduler.
type Monitor struct {
	stock      StockReader
	schedule   ScheduleReader
	attendance AttendanceReader
	alerter    Alerter

	clock clock.Clock
	state *State
	log   logger.Logger

	stockInterval  time.Duration
	timingInterval time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

func New(opts Options) *Monitor {
	st := opts.State
	if st == nil {
		st = NewState()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	stockEvery := opts.StockInterval
	if stockEvery <= 0 {
		stockEvery = DefaultStockInterval
	}
	timingEvery := opts.TimingInterval
	if timingEvery <= 0 {
		timingEvery = DefaultTimingInterval
	}

	return &Monitor{
		stock:          opts.Stock,
		schedule:       opts.Schedule,
		attendance:     opts.Attendance,
		alerter:        opts.Alerter,
		clock:          opts.Clock,
		state:          st,
		log:            log.With(map[string]any{"component": "monitor"}),
		stockInterval:  stockEvery,
		timingInterval: timingEvery,
	}
}

func (m *Monitor) State() *State { return m.state }

// Init siembra previous con el stock actual, así un slot que ya está en 0 al
// arrancar no dispara alerta.
func (m *Monitor) Init(ctx context.Context) error {
	counts, err := m.stock.StockCounts(ctx)
	if err != nil {
		m.log.Error("initialize stock counts failed", map[string]any{"err": err})
		return err
	}
	for _, slot := range medications.Slots {
		if v, ok := counts[slot]; ok {
			m.state.setPrevious(slot, v)
		}
	}
	return nil
}

// CheckStock dispara StockExhausted cuando un slot pasa de >0 a <=0.
// Devuelve los slots alertados en este tick.
func (m *Monitor) CheckStock(ctx context.Context) []medications.Slot {
	counts, err := m.stock.StockCounts(ctx)
	if err != nil {
		// Sin mutar estado: el próximo tick compara contra el previous viejo.
		m.log.Error("stock check failed", map[string]any{"err": err})
		return nil
	}

	var fired []medications.Slot
	for _, slot := range medications.Slots {
		current, ok := counts[slot]
		if !ok {
			continue
		}

		prev, hadPrev := m.state.Previous(slot)
		if current <= 0 && hadPrev && prev > 0 {
			if err := m.alerter.StockExhausted(ctx, slot); err != nil {
				m.log.Warn("stock alert not fully delivered", map[string]any{"slot": string(slot), "err": err})
			}
			fired = append(fired, slot)
		}

		m.state.setPrevious(slot, current)
	}
	return fired
}

// CheckTiming dispara MissedDose si estamos a ±15s de (hora programada + 1min) y la
// asistencia de ese día no marca la toma. Tras disparar, el slot queda 60s en cooldown.
func (m *Monitor) CheckTiming(ctx context.Context) []medications.Slot {
	times, err := m.schedule.ScheduleTimes(ctx)
	if err != nil {
		m.log.Error("timing check failed", map[string]any{"err": err})
		return nil
	}

	now := m.clock.Now()

	var fired []medications.Slot
	for _, slot := range medications.Slots {
		raw, ok := times[slot]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}

		if m.state.inCooldown(slot, now, AlertCooldown) {
			m.log.Debug("missed-dose alert in cooldown", map[string]any{"slot": string(slot)})
			continue
		}

		hh, mm, err := parseClock(raw)
		if err != nil {
			m.log.Warn("invalid scheduled time", map[string]any{"slot": string(slot), "time": raw, "err": err})
			continue
		}

		doseDate, due := reminderDue(now, hh, mm)
		if !due {
			continue
		}

		m.log.Debug("reminder window matched", map[string]any{"slot": string(slot), "scheduled": raw})

		taken, found, err := m.attendance.Taken(ctx, doseDate, slot)
		if err != nil {
			m.log.Error("attendance lookup failed", map[string]any{"slot": string(slot), "err": err})
			continue
		}
		if taken {
			continue
		}
		if !found {
			m.log.Debug("no attendance row, treating dose as not taken", map[string]any{"slot": string(slot)})
		}

		if err := m.alerter.MissedDose(ctx, slot); err != nil {
			m.log.Warn("missed-dose alert not fully delivered", map[string]any{"slot": string(slot), "err": err})
		}
		m.state.stampAlert(slot, now)
		fired = append(fired, slot)
	}
	return fired
}

// reminderDue revisa el recordatorio de hoy y el de ayer (una toma a las 23:59
// tiene su recordatorio pasada la medianoche). Devuelve la fecha de la toma.
func reminderDue(now time.Time, hh, mm int) (time.Time, bool) {
	for _, dayOffset := range []int{0, -1} {
		scheduled := clock.At(now.AddDate(0, 0, dayOffset), hh, mm, 0)
		reminder := scheduled.Add(ReminderOffset)

		diff := now.Sub(reminder)
		if diff < 0 {
			diff = -diff
		}
		if diff <= MatchWindow {
			return clock.DateOf(scheduled), true
		}
	}
	return time.Time{}, false
}

// parseClock acepta "HH:MM:SS" o "HH:MM".
func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("expected HH:MM[:SS], got %q", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}
	return hh, mm, nil
}
