package vitals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) Record(ctx context.Context, bpm int) (Reading, error) {
	if bpm < MinBPM || bpm > MaxBPM {
		return Reading{}, fmt.Errorf("%w: bpm must be between %d-%d", ErrInvalidInput, MinBPM, MaxBPM)
	}

	rd := Reading{BPM: bpm, RecordedAt: s.now()}
	if err := s.repo.Create(ctx, rd); err != nil {
		return Reading{}, err
	}
	return rd, nil
}

// List en orden cronológico (para graficar).
func (s *Service) List(ctx context.Context) ([]Reading, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RecordedAt.Before(items[j].RecordedAt)
	})
	return items, nil
}
