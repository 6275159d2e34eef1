package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pill-dispenser/internal/domain/attendance"
	"pill-dispenser/internal/domain/medications"
	"pill-dispenser/internal/domain/vitals"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func schedule(countA, countB int) []medications.Medication {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return []medications.Medication{
		{Name: medications.SlotA, Time: "08:00:00", Quantity: 2, StockCount: countA, CreatedAt: now},
		{Name: medications.SlotB, Time: "19:00:00", Quantity: 3, StockCount: countB, CreatedAt: now},
	}
}

func TestMedicationsRepo_ReplaceScheduleAndDispense(t *testing.T) {
	db := openTestDB(t)
	meds := NewMedicationsRepo(db)
	att := NewAttendanceRepo(db)
	ctx := context.Background()
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if err := meds.ReplaceSchedule(ctx, schedule(1, 5), today); err != nil {
		t.Fatalf("replace: %v", err)
	}

	rec, err := att.GetByDate(ctx, today)
	if err != nil {
		t.Fatalf("attendance row should exist after store: %v", err)
	}
	if rec.PillA || rec.PillB {
		t.Fatalf("attendance should be reset, got %+v", rec)
	}

	if err := meds.RecordDispense(ctx, medications.SlotA, today); err != nil {
		t.Fatalf("dispense: %v", err)
	}
	if err := meds.RecordDispense(ctx, medications.SlotA, today); err != nil {
		t.Fatalf("dispense again: %v", err)
	}

	list, err := meds.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(list))
	}
	for _, m := range list {
		if m.Name == medications.SlotA && m.StockCount != 0 {
			t.Fatalf("stock must floor at 0, got %d", m.StockCount)
		}
		if m.Name == medications.SlotB && (m.StockCount != 5 || m.Time != "19:00:00") {
			t.Fatalf("slot B should be untouched, got %+v", m)
		}
	}

	rec, _ = att.GetByDate(ctx, today)
	if !rec.PillA || rec.PillB {
		t.Fatalf("only pill A should be marked, got %+v", rec)
	}

	if err := meds.ResetCounts(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	list, _ = meds.List(ctx)
	for _, m := range list {
		if m.StockCount != m.Quantity {
			t.Fatalf("reset should copy quantity into stock, got %+v", m)
		}
	}
}

func TestMedicationsRepo_ReplaceScheduleIsAtomic(t *testing.T) {
	db := openTestDB(t)
	meds := NewMedicationsRepo(db)
	att := NewAttendanceRepo(db)
	ctx := context.Background()
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if err := meds.ReplaceSchedule(ctx, schedule(4, 6), today); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := meds.RecordDispense(ctx, medications.SlotB, today); err != nil {
		t.Fatalf("dispense: %v", err)
	}

	// El segundo insert viola el CHECK de stock_count: todo debe volver atrás.
	if err := meds.ReplaceSchedule(ctx, schedule(9, -1), today); err == nil {
		t.Fatalf("expected constraint error")
	}

	list, err := meds.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("slot table should keep both rows, got %d", len(list))
	}
	for _, m := range list {
		if m.Name == medications.SlotA && m.StockCount != 4 {
			t.Fatalf("slot A should keep stock 4, got %d", m.StockCount)
		}
		if m.Name == medications.SlotB && m.StockCount != 5 {
			t.Fatalf("slot B should keep stock 5, got %d", m.StockCount)
		}
	}

	rec, err := att.GetByDate(ctx, today)
	if err != nil || !rec.PillB {
		t.Fatalf("attendance must not be reset by a failed store: %+v %v", rec, err)
	}
}

func TestAttendanceRepo_MissingDay(t *testing.T) {
	db := openTestDB(t)
	att := NewAttendanceRepo(db)

	_, err := att.GetByDate(context.Background(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, attendance.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVitalsRepo_ListAscending(t *testing.T) {
	db := openTestDB(t)
	repo := NewVitalsRepo(db)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i, bpm := range []int{88, 72, 95} {
		// Se insertan desordenados en el tiempo.
		at := base.Add(time.Duration(2-i) * time.Minute)
		if err := repo.Create(ctx, vitals.Reading{BPM: bpm, RecordedAt: at}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].BPM != 95 || got[2].BPM != 88 {
		t.Fatalf("unexpected order %+v", got)
	}
}
