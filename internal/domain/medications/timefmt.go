package medications

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidTime = errors.New("invalid time")

var time12Re = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?([AP]M)$`)

// NormalizeTime12 convierte "8am", "12pm", "7:30 PM" a "HH:MM:00".
// 12am es medianoche (00) y 12pm mediodía (12); el resto de PM suma 12.
func NormalizeTime12(s string) (string, error) {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	cleaned = strings.ReplaceAll(cleaned, ".", "") // "p.m." de algunos transcriptores

	m := time12Re.FindStringSubmatch(cleaned)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return "", fmt.Errorf("%w: hour out of range in %q", ErrInvalidTime, s)
	}

	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return "", fmt.Errorf("%w: minute out of range in %q", ErrInvalidTime, s)
		}
	}

	switch {
	case m[3] == "PM" && hour != 12:
		hour += 12
	case m[3] == "AM" && hour == 12:
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d:00", hour, minute), nil
}

// ClockHHMM recorta "HH:MM:SS" a "HH:MM" (formato de /api/pills).
func ClockHHMM(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}
