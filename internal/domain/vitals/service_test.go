package vitals

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	items []Reading
}

func (r *testRepo) Create(ctx context.Context, rd Reading) error {
	r.items = append(r.items, rd)
	return nil
}

func (r *testRepo) List(ctx context.Context) ([]Reading, error) {
	return append([]Reading(nil), r.items...), nil
}

func TestService_Record_Bounds(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC) }

	for _, bpm := range []int{29, 221, 0, -5} {
		if _, err := svc.Record(context.Background(), bpm); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("bpm=%d: expected ErrInvalidInput, got %v", bpm, err)
		}
	}
	for _, bpm := range []int{30, 72, 220} {
		if _, err := svc.Record(context.Background(), bpm); err != nil {
			t.Fatalf("bpm=%d: %v", bpm, err)
		}
	}
	if len(repo.items) != 3 {
		t.Fatalf("expected 3 stored readings, got %d", len(repo.items))
	}
}

func TestService_List_Chronological(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	repo := &testRepo{items: []Reading{
		{BPM: 80, RecordedAt: t0.Add(2 * time.Minute)},
		{BPM: 70, RecordedAt: t0},
	}}

	items, err := NewService(repo).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items[0].BPM != 70 || items[1].BPM != 80 {
		t.Fatalf("unexpected order %+v", items)
	}
}
