package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"pill-dispenser/internal/domain/attendance"
	"pill-dispenser/internal/domain/medications"
)

var ErrConstraint = errors.New("constraint violation")

// dispenserState es lo que en SQL son las tablas medications y attendance: las dos
// comparten lock porque ReplaceSchedule y RecordDispense escriben en ambas.
type dispenserState struct {
	mu         sync.RWMutex
	meds       []medications.Medication
	attendance map[string]attendance.Record
}

type medicationsRepo struct {
	st *dispenserState
}

type attendanceRepo struct {
	st *dispenserState
}

// NewDispenserRepos devuelve los repos de medications y attendance sobre el mismo estado.
func NewDispenserRepos() (medications.Repository, attendance.Repository) {
	st := &dispenserState{attendance: make(map[string]attendance.Record)}
	return &medicationsRepo{st: st}, &attendanceRepo{st: st}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func checkMedication(m medications.Medication) error {
	if _, ok := medications.ParseSlot(string(m.Name)); !ok {
		return fmt.Errorf("%w: name must be A or B", ErrConstraint)
	}
	if m.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", ErrConstraint)
	}
	if m.StockCount < 0 {
		return fmt.Errorf("%w: stock_count must be >= 0", ErrConstraint)
	}
	return nil
}

// ReplaceSchedule arma el estado nuevo aparte y lo publica solo si todo validó.
func (r *medicationsRepo) ReplaceSchedule(ctx context.Context, meds []medications.Medication, today time.Time) error {
	next := make([]medications.Medication, 0, len(meds))
	for _, m := range meds {
		if err := checkMedication(m); err != nil {
			return err
		}
		next = append(next, m)
	}

	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.meds = next
	d := dateOnly(today)
	r.st.attendance[dayKey(d)] = attendance.Record{Date: d}
	return nil
}

func (r *medicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]medications.Medication, len(r.st.meds))
	copy(out, r.st.meds)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *medicationsRepo) RecordDispense(ctx context.Context, slot medications.Slot, today time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	d := dateOnly(today)
	rec := r.st.attendance[dayKey(d)]
	rec.Date = d
	switch slot {
	case medications.SlotA:
		rec.PillA = true
	case medications.SlotB:
		rec.PillB = true
	default:
		return fmt.Errorf("%w: unknown slot %q", ErrConstraint, slot)
	}
	r.st.attendance[dayKey(d)] = rec

	for i := range r.st.meds {
		if r.st.meds[i].Name == slot && r.st.meds[i].StockCount > 0 {
			r.st.meds[i].StockCount--
		}
	}
	return nil
}

func (r *medicationsRepo) ResetCounts(ctx context.Context) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for i := range r.st.meds {
		r.st.meds[i].StockCount = r.st.meds[i].Quantity
	}
	return nil
}

func (r *attendanceRepo) List(ctx context.Context) ([]attendance.Record, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]attendance.Record, 0, len(r.st.attendance))
	for _, rec := range r.st.attendance {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *attendanceRepo) GetByDate(ctx context.Context, date time.Time) (attendance.Record, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	rec, ok := r.st.attendance[dayKey(date)]
	if !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return rec, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
