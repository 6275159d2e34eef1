package clock

import "time"

// Clock fija la zona horaria del dispensador ("hoy" y la hora de las tomas se
// calculan ahí, no en la zona del servidor).
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc, now: time.Now}
}

// Fixed es para tests: siempre devuelve t.
func Fixed(t time.Time, loc *time.Location) Clock {
	c := New(loc)
	c.now = func() time.Time { return t }
	return c
}

// WithNow reemplaza la fuente de tiempo (tests).
func (c Clock) WithNow(now func() time.Time) Clock {
	c.now = now
	return c
}

func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.Location())
	}
	return c.now().In(c.Location())
}

// Today es la fecha civil actual en la zona del dispensador, como medianoche UTC
// (así se guarda en columnas DATE sin corrimientos).
func (c Clock) Today() time.Time {
	return DateOf(c.Now())
}

func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At arma la hora hh:mm:ss del día de ref, en la zona de ref.
func At(ref time.Time, hh, mm, ss int) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, hh, mm, ss, 0, ref.Location())
}
