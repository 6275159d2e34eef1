package medications

import (
	"strings"
	"time"
)

// Slot identifica una de las dos posiciones fijas del dispensador.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Slots en orden canónico (A antes que B).
var Slots = []Slot{SlotA, SlotB}

// ParseSlot acepta "a"/"A"/"b"/"B".
func ParseSlot(s string) (Slot, bool) {
	switch Slot(strings.ToUpper(strings.TrimSpace(s))) {
	case SlotA:
		return SlotA, true
	case SlotB:
		return SlotB, true
	default:
		return "", false
	}
}

// Medication es la fila de un slot. La tabla se reemplaza completa en cada StoreSchedule.
type Medication struct {
	Name       Slot
	Time       string // HH:MM:SS
	Quantity   int    // pastillas por toma
	StockCount int    // pastillas restantes; lo decrementa el dispensador
	CreatedAt  time.Time
}

// SlotInput viene del parser de voz: hora en 12h ("8AM", "7:30 PM") + cantidad.
type SlotInput struct {
	Time     string
	Quantity int
}

type StoreInput struct {
	PillA  SlotInput
	PillB  SlotInput
	CountA int
	CountB int
}
