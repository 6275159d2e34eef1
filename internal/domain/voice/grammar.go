package voice

import (
	"regexp"
	"strconv"
	"strings"
)

// numberWords es el vocabulario cerrado que reconoce el intérprete. Los compuestos
// se aceptan pegados ("twentyone") o con guión ("twenty-one"); el tokenizer quita guiones.
var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "twentyone": 21, "twentytwo": 22, "twentythree": 23,
	"twentyfour": 24, "twentyfive": 25, "twentysix": 26, "twentyseven": 27,
	"twentyeight": 28, "twentynine": 29, "thirty": 30,
}

// ParseNumber acepta dígitos o una palabra del vocabulario (case-insensitive).
func ParseNumber(tok string) (int, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if tok == "" {
		return 0, false
	}
	if n, ok := numberWords[tok]; ok {
		return n, true
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

var (
	clockRe    = regexp.MustCompile(`^\d{1,2}(:\d{2})?$`)
	timeRe     = regexp.MustCompile(`^\d{1,2}(:\d{2})?[ap]m$`)
	digitSlot  = regexp.MustCompile(`^(\d+)([ab])$`)
	meridiemRp = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm")
)

// tokenize baja a minúsculas, corta por espacios y puntuación (conserva ':' de las
// horas) y junta "8" "am" en un solo token "8am". "2a" se separa en "2" "a".
func tokenize(text string) []string {
	s := meridiemRp.Replace(strings.ToLower(text))
	s = strings.ReplaceAll(s, "-", "")

	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ':':
			return false
		default:
			return true
		}
	})

	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		tok := strings.Trim(fields[i], ":")
		if tok == "" {
			continue
		}

		if clockRe.MatchString(tok) && i+1 < len(fields) && (fields[i+1] == "am" || fields[i+1] == "pm") {
			out = append(out, tok+fields[i+1])
			i++
			continue
		}
		if m := digitSlot.FindStringSubmatch(tok); m != nil {
			out = append(out, m[1], m[2])
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isTime(tok string) bool { return timeRe.MatchString(tok) }

func isPillWord(tok string) bool {
	switch tok {
	case "pill", "pills", "bill", "bills":
		return true
	}
	return false
}

// Counts son las pastillas cargadas en cada slot.
type Counts struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Dose es la hora en 12h tal como se dijo ("8AM", "7:30PM") y cuántas pastillas tomar.
type Dose struct {
	Time     string `json:"time"`
	Quantity int    `json:"quantity"`
}

type Schedule struct {
	A Dose `json:"a"`
	B Dose `json:"b"`
}

// ExtractPillCounts busca "<n> a ... <n> b" en ese orden. Si falta una de las dos
// cláusulas devuelve false (no hay resultados parciales).
func ExtractPillCounts(text string) (Counts, bool) {
	toks := tokenize(text)

	a, next, ok := findCount(toks, 0, "a")
	if !ok {
		return Counts{}, false
	}
	b, _, ok := findCount(toks, next, "b")
	if !ok {
		return Counts{}, false
	}
	return Counts{A: a, B: b}, true
}

// findCount devuelve el primer "<número> <slot>" desde from, y el índice siguiente.
func findCount(toks []string, from int, slot string) (int, int, bool) {
	for i := from; i+1 < len(toks); i++ {
		if toks[i+1] != slot {
			continue
		}
		if n, ok := ParseNumber(toks[i]); ok {
			return n, i + 2, true
		}
	}
	return 0, 0, false
}

// ExtractSchedule reconoce "[i will] take [pills] a at <hora> [with <n> [pills]] ... b at <hora> [with <n> [pills]]".
// Sin "with" la cantidad es 1. Se prueba cada "take" de la frase hasta que uno encaje.
func ExtractSchedule(text string) (Schedule, bool) {
	toks := tokenize(text)

	for i, t := range toks {
		if t != "take" {
			continue
		}
		if s, ok := scheduleFrom(toks, i+1); ok {
			return s, true
		}
	}
	return Schedule{}, false
}

// scheduleFrom intenta "[pills] a at ... b at ..." justo después de un "take".
func scheduleFrom(toks []string, start int) (Schedule, bool) {
	if start < len(toks) && isPillWord(toks[start]) {
		start++
	}

	// La cláusula A tiene que seguir inmediatamente a "take".
	doseA, next, ok := parseDose(toks, start, "a")
	if !ok {
		return Schedule{}, false
	}

	for i := next; i < len(toks); i++ {
		if toks[i] != "b" {
			continue
		}
		if doseB, _, ok := parseDose(toks, i, "b"); ok {
			return Schedule{A: doseA, B: doseB}, true
		}
	}
	return Schedule{}, false
}

// parseDose lee "<slot> at <hora> [with <n> [pills]]" empezando en i.
func parseDose(toks []string, i int, slot string) (Dose, int, bool) {
	if i+2 >= len(toks) || toks[i] != slot || toks[i+1] != "at" || !isTime(toks[i+2]) {
		return Dose{}, i, false
	}
	d := Dose{Time: strings.ToUpper(toks[i+2]), Quantity: 1}
	i += 3

	if i+1 < len(toks) && toks[i] == "with" {
		if n, ok := ParseNumber(toks[i+1]); ok {
			d.Quantity = n
			i += 2
			if i < len(toks) && isPillWord(toks[i]) {
				i++
			}
		}
	}
	return d, i, true
}
