package postgres

import (
	"context"
	"database/sql"

	"pill-dispenser/internal/domain/vitals"
)

type VitalsRepo struct {
	db *sql.DB
}

func NewVitalsRepo(db *sql.DB) *VitalsRepo {
	return &VitalsRepo{db: db}
}

func (r *VitalsRepo) Create(ctx context.Context, rd vitals.Reading) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO bpm (bpm, recorded_at) VALUES ($1, $2)`, rd.BPM, rd.RecordedAt)
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
