package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pill-dispenser/internal/domain/attendance"
)

type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

func (r *AttendanceRepo) List(ctx context.Context) ([]attendance.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recorded_date, pill_a, pill_b
		FROM attendance
		ORDER BY recorded_date ASC
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
		SELECT recorded_date, pill_a, pill_b
		FROM attendance
		WHERE recorded_date = $1::date
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
