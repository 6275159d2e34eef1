package voice

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("voice session not found")

type Session struct {
	ID           string
	Conversation *Conversation
	CreatedAt    time.Time
	LastSeen     time.Time
}

// Sessions guarda las conversaciones abiertas en memoria. Una sesión sin uso
// por más de ttl se descarta en el próximo acceso.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*Session
	saver ScheduleSaver
	ttl   time.Duration
	now   func() time.Time
}

func NewSessions(saver ScheduleSaver, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		items: make(map[string]*Session),
		saver: saver,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create abre una conversación nueva y ya emite el saludo (queda en idle).
func (s *Sessions) Create() (*Session, Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	now := s.now()
	sess := &Session{
		ID:           uuid.NewString(),
		Conversation: NewConversation(s.saver),
		CreatedAt:    now,
		LastSeen:     now,
	}
	s.items[sess.ID] = sess
	return sess, sess.Conversation.Start()
}

// Get devuelve la sesión y renueva su vencimiento.
func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.LastSeen = s.now()
	return sess, nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.items)
}

func (s *Sessions) sweepLocked() {
	now := s.now()
	for id, sess := range s.items {
		if now.Sub(sess.LastSeen) > s.ttl {
			delete(s.items, id)
		}
	}
}
