package monitor

import (
	"sync"
	"time"

	"pill-dispenser/internal/domain/medications"
)

// State es la memoria del monitor entre ticks. No se persiste: al reiniciar el
// proceso arranca en frío (Init vuelve a sembrar previous desde la base).
type State struct {
	mu       sync.Mutex
	previous map[medications.Slot]int
	cooldown map[medications.Slot]time.Time
}

func NewState() *State {
	return &State{
		previous: make(map[medications.Slot]int),
		cooldown: make(map[medications.Slot]time.Time),
	}
}

// Previous es la última lectura de stock observada para el slot.
func (s *State) Previous(slot medications.Slot) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.previous[slot]
	return v, ok
}

func (s *State) setPrevious(slot medications.Slot, v int) {
	s.mu.Lock()
	s.previous[slot] = v
	s.mu.Unlock()
}

// LastAlert es cuándo se disparó la última alerta de dosis omitida del slot.
func (s *State) LastAlert(slot medications.Slot) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.cooldown[slot]
	return t, ok
}

func (s *State) stampAlert(slot medications.Slot, at time.Time) {
	s.mu.Lock()
	s.cooldown[slot] = at
	s.mu.Unlock()
}

func (s *State) inCooldown(slot medications.Slot, now time.Time, window time.Duration) bool {
	last, ok := s.LastAlert(slot)
	if !ok {
		return false
	}
	elapsed := now.Sub(last)
	return elapsed >= 0 && elapsed < window
}
