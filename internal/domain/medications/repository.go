package medications

import (
	"context"
	"time"
)

type Repository interface {
	// ReplaceSchedule borra la tabla de slots, inserta meds y resetea la asistencia
	// de today a (false,false). Todo en una sola transacción.
	ReplaceSchedule(ctx context.Context, meds []Medication, today time.Time) error

	List(ctx context.Context) ([]Medication, error)

	// RecordDispense marca la toma del slot en today y decrementa su stock (mínimo 0).
	RecordDispense(ctx context.Context, slot Slot, today time.Time) error

	// ResetCounts repone stock_count = quantity en todos los slots.
	ResetCounts(ctx context.Context) error
}
