package clock

import (
	"testing"
	"time"
)

func TestClock_TodayUsesConfiguredZone(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 20:00 UTC del 1 de marzo ya es 2 de marzo en IST (+05:30).
	c := Fixed(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC), ist)

	got := c.Today()
	want := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Today() = %v, want %v", got, want)
	}
	if c.Now().Hour() != 1 || c.Now().Minute() != 30 {
		t.Fatalf("Now() should be 01:30 IST, got %v", c.Now())
	}
}

func TestAt_KeepsDayAndZone(t *testing.T) {
	ref := time.Date(2025, 3, 2, 7, 59, 10, 0, time.UTC)
	got := At(ref, 8, 1, 0)
	if !got.Equal(time.Date(2025, 3, 2, 8, 1, 0, 0, time.UTC)) {
		t.Fatalf("unexpected %v", got)
	}
}
