package attendance

import (
	"context"
	"errors"
	"sort"
	"time"

	"pill-dispenser/internal/domain/medications"
)

var (
	ErrNotFound = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List ordena por fecha ascendente.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items, nil
}

// Taken responde si el slot ya se tomó en date. found=false si no hay fila ese día.
// Los repos deben devolver un error que cumpla errors.Is(err, ErrNotFound) cuando falta la fila.
func (s *Service) Taken(ctx context.Context, date time.Time, slot medications.Slot) (taken bool, found bool, err error) {
	rec, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, false, nil
		}
		return false, false, err
	}

	switch slot {
	case medications.SlotA:
		return rec.PillA, true, nil
	case medications.SlotB:
		return rec.PillB, true, nil
	default:
		return false, true, nil
	}
}
