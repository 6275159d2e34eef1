package attendance

import "time"

// Record es la asistencia de un día: si se tomó la dosis de cada slot.
type Record struct {
	Date  time.Time // fecha civil (medianoche UTC)
	PillA bool
	PillB bool
}
