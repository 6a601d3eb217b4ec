package solar

import (
	"fmt"
	"time"
)

// Summary describes the coverage of one raw column and its smoothing.
type Summary struct {
	Series        string
	Start         time.Time // First month with a raw value
	End           time.Time // Last month with a raw value
	HasData       bool      // False when the raw column is entirely missing
	RawCount      int
	SmoothedCount int
}

// Summarize reports coverage for the raw column and its smoothed column.
func Summarize(t *Table, label, raw, smoothed string) (Summary, error) {
	rc, ok := t.Column(raw)
	if !ok {
		return Summary{}, fmt.Errorf("column %s not found", raw)
	}
	sc, ok := t.Column(smoothed)
	if !ok {
		return Summary{}, fmt.Errorf("column %s not found", smoothed)
	}

	s := Summary{
		Series:        label,
		RawCount:      rc.Count(),
		SmoothedCount: sc.Count(),
	}

	for i, v := range rc.Values {
		if !v.Valid {
			continue
		}
		if !s.HasData {
			s.Start = t.Dates[i]
			s.HasData = true
		}
		s.End = t.Dates[i]
	}

	return s, nil
}
