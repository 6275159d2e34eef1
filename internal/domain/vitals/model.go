package vitals

import "time"

// Reading es una medición de pulso que envía el dispensador.
type Reading struct {
	BPM        int
	RecordedAt time.Time
}

const (
	MinBPM = 30
	MaxBPM = 220
)
