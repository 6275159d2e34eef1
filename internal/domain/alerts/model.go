package alerts

import (
	"fmt"
	"time"

	"pill-dispenser/internal/domain/medications"
)

type Kind string

const (
	KindStockExhausted Kind = "stock_exhausted"
	KindMissedDose     Kind = "missed_dose"
)

// Alert es un aviso ya despachado (o intentado) a los canales configurados.
type Alert struct {
	ID        string
	Kind      Kind
	Slot      medications.Slot
	Message   string
	CreatedAt time.Time

	Delivered []string // canales OK: "sms", "call", "telegram"
	Failures  []string // "canal: error"
}

func stockExhaustedMessage(slot medications.Slot) string {
	return fmt.Sprintf("Pill %s stock is exhausted", slot)
}

func missedDoseMessage(slot medications.Slot) string {
	return fmt.Sprintf("Your parent has missed pill %s! Please check immediately.", slot)
}

// GenericMissedMessage es lo que responde /voice-alert (callback sin slot).
const GenericMissedMessage = "Your parent has missed their medication! Please check immediately."
