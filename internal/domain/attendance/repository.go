package attendance

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Record, error)
	GetByDate(ctx context.Context, date time.Time) (Record, error)
}
