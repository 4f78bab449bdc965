package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// The persisted document keeps amounts as plain decimal numbers
// (5000.00) and dates as YYYY-MM-DD strings, so exported files stay
// readable and earlier exports remain importable.

const dateLayout = "2006-01-02"

func (m Money) MarshalJSON() ([]byte, error) {
	whole := m.Cents / 100
	frac := m.Cents % 100
	if frac < 0 {
		frac = -frac
	}
	sign := ""
	if m.Cents < 0 && whole == 0 {
		sign = "-"
	}
	return []byte(fmt.Sprintf("%s%d.%02d", sign, whole, frac)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: amount %q", ErrParse, s)
	}
	m.Cents = int64(math.Round(f * 100))
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	// Tolerate full timestamps from hand-edited files
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("%w: date %q", ErrParse, s)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}
