package memory

import (
	"context"
	"sort"
	"sync"

	"pill-dispenser/internal/domain/vitals"
)

type vitalsRepo struct {
	mu       sync.RWMutex
	readings []vitals.Reading
}

func NewVitalsRepo() vitals.Repository {
	return &vitalsRepo{}
}

func (r *vitalsRepo) Create(ctx context.Context, rd vitals.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, rd)
	return nil
}

func (r *vitalsRepo) List(ctx context.Context) ([]vitals.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vitals.Reading, len(r.readings))
	copy(out, r.readings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}
