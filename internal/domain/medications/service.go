package medications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"pill-dispenser/internal/platform/clock"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPersistence  = errors.New("database operation failed")
)

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{
		repo:  repo,
		clock: clk,
	}
}

// StoreSchedule reemplaza los dos slots y resetea la asistencia de hoy.
// Si la validación falla no se escribe nada.
func (s *Service) StoreSchedule(ctx context.Context, in StoreInput) error {
	if strings.TrimSpace(in.PillA.Time) == "" || strings.TrimSpace(in.PillB.Time) == "" {
		return fmt.Errorf("%w: pillA.time and pillB.time are required", ErrInvalidInput)
	}
	if in.PillA.Quantity < 0 || in.PillB.Quantity < 0 || in.CountA < 0 || in.CountB < 0 {
		return fmt.Errorf("%w: quantities and counts must be >= 0", ErrInvalidInput)
	}

	timeA, err := NormalizeTime12(in.PillA.Time)
	if err != nil {
		return fmt.Errorf("%w: pillA.time: %v", ErrInvalidInput, err)
	}
	timeB, err := NormalizeTime12(in.PillB.Time)
	if err != nil {
		return fmt.Errorf("%w: pillB.time: %v", ErrInvalidInput, err)
	}

	now := s.clock.Now()
	meds := []Medication{
		{Name: SlotA, Time: timeA, Quantity: in.PillA.Quantity, StockCount: in.CountA, CreatedAt: now},
		{Name: SlotB, Time: timeB, Quantity: in.PillB.Quantity, StockCount: in.CountB, CreatedAt: now},
	}

	if err := s.repo.ReplaceSchedule(ctx, meds, s.clock.Today()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// List devuelve las filas, más recientes primero.
func (s *Service) List(ctx context.Context) ([]Medication, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// StockCounts lee stock_count de A y B. Un slot ausente no aparece en el map.
func (s *Service) StockCounts(ctx context.Context) (map[Slot]int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[Slot]int, len(items))
	for _, m := range items {
		if m.Name != SlotA && m.Name != SlotB {
			continue
		}
		out[m.Name] = m.StockCount
	}
	return out, nil
}

// ScheduleTimes lee la hora programada (HH:MM:SS) de A y B.
func (s *Service) ScheduleTimes(ctx context.Context) (map[Slot]string, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[Slot]string, len(items))
	for _, m := range items {
		if m.Name != SlotA && m.Name != SlotB {
			continue
		}
		if strings.TrimSpace(m.Time) == "" {
			continue
		}
		out[m.Name] = m.Time
	}
	return out, nil
}

// Dispense registra que el dispensador entregó una toma del slot.
func (s *Service) Dispense(ctx context.Context, slot Slot) error {
	if slot != SlotA && slot != SlotB {
		return fmt.Errorf("%w: slot must be A or B", ErrInvalidInput)
	}
	if err := s.repo.RecordDispense(ctx, slot, s.clock.Today()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *Service) ResetCounts(ctx context.Context) error {
	if err := s.repo.ResetCounts(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
