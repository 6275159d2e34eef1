package medications

import (
	"context"
	"errors"
	"testing"
	"time"

	"pill-dispenser/internal/platform/clock"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	meds       []Medication
	replaced   int
	today      time.Time
	dispensed  []Slot
	failWrites error
}

func (r *testRepo) ReplaceSchedule(ctx context.Context, meds []Medication, today time.Time) error {
	if r.failWrites != nil {
		return r.failWrites
	}
	r.replaced++
	r.meds = append([]Medication(nil), meds...)
	r.today = today
	return nil
}

func (r *testRepo) List(ctx context.Context) ([]Medication, error) {
	return append([]Medication(nil), r.meds...), nil
}

func (r *testRepo) RecordDispense(ctx context.Context, slot Slot, today time.Time) error {
	if r.failWrites != nil {
		return r.failWrites
	}
	r.dispensed = append(r.dispensed, slot)
	return nil
}

func (r *testRepo) ResetCounts(ctx context.Context) error {
	for i := range r.meds {
		r.meds[i].StockCount = r.meds[i].Quantity
	}
	return nil
}

func newTestService(repo *testRepo) *Service {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	return NewService(repo, clock.Fixed(now, time.UTC))
}

// -------------------------
// Tests
// -------------------------

func TestService_StoreSchedule_NormalizesAndReplaces(t *testing.T) {
	repo := &testRepo{}
	svc := newTestService(repo)

	err := svc.StoreSchedule(context.Background(), StoreInput{
		PillA:  SlotInput{Time: "8AM", Quantity: 2},
		PillB:  SlotInput{Time: "7:30 PM", Quantity: 3},
		CountA: 10,
		CountB: 12,
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if repo.replaced != 1 || len(repo.meds) != 2 {
		t.Fatalf("expected one replace with 2 rows, got replaced=%d rows=%d", repo.replaced, len(repo.meds))
	}
	a, b := repo.meds[0], repo.meds[1]
	if a.Name != SlotA || a.Time != "08:00:00" || a.Quantity != 2 || a.StockCount != 10 {
		t.Fatalf("unexpected A row %+v", a)
	}
	if b.Name != SlotB || b.Time != "19:30:00" || b.Quantity != 3 || b.StockCount != 12 {
		t.Fatalf("unexpected B row %+v", b)
	}
	if !repo.today.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected attendance date %v", repo.today)
	}
}

func TestService_StoreSchedule_InvalidInputWritesNothing(t *testing.T) {
	cases := []StoreInput{
		{PillA: SlotInput{Time: ""}, PillB: SlotInput{Time: "7PM"}},
		{PillA: SlotInput{Time: "8AM"}, PillB: SlotInput{Time: "19:00"}},
		{PillA: SlotInput{Time: "8AM"}, PillB: SlotInput{Time: "7PM"}, CountA: -1},
	}

	for i, in := range cases {
		repo := &testRepo{}
		svc := newTestService(repo)

		err := svc.StoreSchedule(context.Background(), in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
		if repo.replaced != 0 {
			t.Fatalf("case %d: repo should not be touched", i)
		}
	}
}

func TestService_StoreSchedule_WrapsPersistenceErrors(t *testing.T) {
	repo := &testRepo{failWrites: errors.New("connection reset")}
	svc := newTestService(repo)

	err := svc.StoreSchedule(context.Background(), StoreInput{
		PillA: SlotInput{Time: "8AM", Quantity: 1},
		PillB: SlotInput{Time: "8PM", Quantity: 1},
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestService_StockCountsAndScheduleTimes(t *testing.T) {
	repo := &testRepo{meds: []Medication{
		{Name: SlotA, Time: "08:00:00", StockCount: 4},
		{Name: SlotB, Time: "", StockCount: 0},
	}}
	svc := newTestService(repo)

	counts, err := svc.StockCounts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[SlotA] != 4 {
		t.Fatalf("expected A=4, got %v", counts)
	}
	if v, ok := counts[SlotB]; !ok || v != 0 {
		t.Fatalf("expected B present with 0, got %v", counts)
	}

	times, err := svc.ScheduleTimes(context.Background())
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	if times[SlotA] != "08:00:00" {
		t.Fatalf("unexpected A time %q", times[SlotA])
	}
	if _, ok := times[SlotB]; ok {
		t.Fatalf("slot without time must be omitted")
	}
}

func TestService_Dispense_RejectsUnknownSlot(t *testing.T) {
	repo := &testRepo{}
	svc := newTestService(repo)

	if err := svc.Dispense(context.Background(), Slot("C")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Dispense(context.Background(), SlotB); err != nil {
		t.Fatalf("dispense B: %v", err)
	}
	if len(repo.dispensed) != 1 || repo.dispensed[0] != SlotB {
		t.Fatalf("unexpected dispensed %v", repo.dispensed)
	}
}
