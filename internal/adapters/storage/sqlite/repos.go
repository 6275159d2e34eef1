package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pill-dispenser/internal/domain/attendance"
	"pill-dispenser/internal/domain/medications"
	"pill-dispenser/internal/domain/vitals"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) ReplaceSchedule(ctx context.Context, meds []medications.Medication, today time.Time) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM medications`); err != nil {
			return fmt.Errorf("clear medications: %w", err)
		}

		for _, m := range meds {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO medications (name, time, quantity, stock_count, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, string(m.Name), m.Time, m.Quantity, m.StockCount, m.CreatedAt.UTC()); err != nil {
				return fmt.Errorf("insert medication %s: %w", m.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (recorded_date, pill_a, pill_b) VALUES (?, 0, 0)
			ON CONFLICT (recorded_date) DO UPDATE SET pill_a = 0, pill_b = 0
		`, dateParam(today)); err != nil {
			return fmt.Errorf("reset attendance: %w", err)
		}
		return nil
	})
}

func (r *MedicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, time, quantity, stock_count, created_at
		FROM medications
		ORDER BY created_at DESC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0, 2)
	for rows.Next() {
		var m medications.Medication
		var name string
		if err := rows.Scan(&name, &m.Time, &m.Quantity, &m.StockCount, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Name = medications.Slot(name)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) RecordDispense(ctx context.Context, slot medications.Slot, today time.Time) error {
	takenA := slot == medications.SlotA
	takenB := slot == medications.SlotB

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (recorded_date, pill_a, pill_b) VALUES (?, ?, ?)
			ON CONFLICT (recorded_date) DO UPDATE SET
				pill_a = attendance.pill_a OR excluded.pill_a,
				pill_b = attendance.pill_b OR excluded.pill_b
		`, dateParam(today), takenA, takenB); err != nil {
			return fmt.Errorf("mark attendance: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE medications SET stock_count = MAX(stock_count - 1, 0) WHERE name = ?
		`, string(slot)); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		return nil
	})
}

func (r *MedicationsRepo) ResetCounts(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE medications SET stock_count = quantity`)
	return err
}

type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

func (r *AttendanceRepo) List(ctx context.Context) ([]attendance.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recorded_date, pill_a, pill_b FROM attendance ORDER BY recorded_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]attendance.Record, 0)
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.Date, &rec.PillA, &rec.PillB); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *AttendanceRepo) GetByDate(ctx context.Context, date time.Time) (attendance.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT recorded_date, pill_a, pill_b FROM attendance WHERE recorded_date = ?
	`, dateParam(date))

	var rec attendance.Record
	if err := row.Scan(&rec.Date, &rec.PillA, &rec.PillB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

type VitalsRepo struct {
	db *sql.DB
}

func NewVitalsRepo(db *sql.DB) *VitalsRepo {
	return &VitalsRepo{db: db}
}

func (r *VitalsRepo) Create(ctx context.Context, rd vitals.Reading) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO bpm (bpm, recorded_at) VALUES (?, ?)`, rd.BPM, rd.RecordedAt.UTC())
	return err
}

func (r *VitalsRepo) List(ctx context.Context) ([]vitals.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT bpm, recorded_at FROM bpm ORDER BY recorded_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vitals.Reading, 0)
	for rows.Next() {
		var rd vitals.Reading
		if err := rows.Scan(&rd.BPM, &rd.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}
