package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pill-dispenser/internal/domain/medications"
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
				VALUES ($1, $2::time, $3, $4, $5)
			`, string(m.Name), m.Time, m.Quantity, m.StockCount, m.CreatedAt); err != nil {
				return fmt.Errorf("insert medication %s: %w", m.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (recorded_date, pill_a, pill_b)
			VALUES ($1::date, false, false)
			ON CONFLICT (recorded_date) DO UPDATE SET pill_a = false, pill_b = false
		`, dateParam(today)); err != nil {
			return fmt.Errorf("reset attendance: %w", err)
		}
		return nil
	})
}

func (r *MedicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, time::text, quantity, stock_count, created_at
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
			INSERT INTO attendance (recorded_date, pill_a, pill_b)
			VALUES ($1::date, $2, $3)
			ON CONFLICT (recorded_date) DO UPDATE SET
				pill_a = attendance.pill_a OR EXCLUDED.pill_a,
				pill_b = attendance.pill_b OR EXCLUDED.pill_b
		`, dateParam(today), takenA, takenB); err != nil {
			return fmt.Errorf("mark attendance: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE medications SET stock_count = GREATEST(stock_count - 1, 0) WHERE name = $1
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
