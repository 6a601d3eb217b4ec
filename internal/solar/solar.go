// Package solar provides monthly solar index series processing.
// This package parses monthly-cadence sunspot number and F10.7 radio flux
// files, aligns them on a shared month axis, and applies the 13-month
// smoothed running mean used for solar cycle reporting.
package solar

import (
	"fmt"
	"time"
)

// SchemaVersion is the current monthly smoothed schema version.
const SchemaVersion = 1

// Canonical column names used by the lab tools.
const (
	ColSunspot         = "R"
	ColRadioFlux       = "F10_7"
	ColSunspotSmooth   = "R_smooth"
	ColRadioFluxSmooth = "F_smooth"
)

// Point is one calendar month of a series.
type Point struct {
	Date  time.Time // First day of the month, UTC
	Value float64
}

// Series is an ordered monthly series parsed from one source.
// Missing months are absent, never synthesized.
type Series struct {
	Name   string  // Value column name (e.g. "R", "F10_7")
	Source string  // Source identity for diagnostics (file name, table)
	Points []Point // Sorted ascending by Date
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Points)
}

// Dates returns a copy of the series date axis.
func (s *Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Filter returns a new series holding only the points keep accepts.
func (s *Series) Filter(keep func(Point) bool) *Series {
	out := &Series{Name: s.Name, Source: s.Source}
	for _, p := range s.Points {
		if keep(p) {
			out.Points = append(out.Points, p)
		}
	}
	return out
}

// MonthDate returns the first day of (year, month) in UTC.
func MonthDate(year, month int) (time.Time, error) {
	if year < 1 || year > 9999 {
		return time.Time{}, fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}
