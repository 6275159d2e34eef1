package medications

import (
	"errors"
	"testing"
)

func TestNormalizeTime12(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8am", "08:00:00"},
		{"8AM", "08:00:00"},
		{"12pm", "12:00:00"},
		{"12am", "00:00:00"},
		{"7:30 PM", "19:30:00"},
		{"11:05pm", "23:05:00"},
		{" 9 : 15 am ", "09:15:00"},
		{"1 p.m.", "13:00:00"},
	}
	for _, tc := range cases {
		got, err := NormalizeTime12(tc.in)
		if err != nil {
			t.Fatalf("NormalizeTime12(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeTime12(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTime12_Rejects(t *testing.T) {
	for _, in := range []string{"", "8", "noon", "13pm", "0am", "7:75pm", "7:3pm"} {
		if _, err := NormalizeTime12(in); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("NormalizeTime12(%q): expected ErrInvalidTime, got %v", in, err)
		}
	}
}

func TestClockHHMM(t *testing.T) {
	if got := ClockHHMM("08:30:00"); got != "08:30" {
		t.Fatalf("got %q", got)
	}
	if got := ClockHHMM("8"); got != "8" {
		t.Fatalf("got %q", got)
	}
}
