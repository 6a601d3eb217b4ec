package solar

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// NullFloat is a float64 that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Column is one value column of a Table.
type Column struct {
	Name   string
	Values []NullFloat
}

// Table is a set of columns sharing a strictly ascending month axis.
// Tables are never modified in place; derived tables are new values.
type Table struct {
	Dates   []time.Time
	Columns []Column
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Dates)
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// WithColumn returns a new table with an extra column appended.
func (t *Table) WithColumn(name string, values []NullFloat) (*Table, error) {
	if len(values) != len(t.Dates) {
		return nil, fmt.Errorf("column %s has %d rows, table has %d", name, len(values), len(t.Dates))
	}
	if _, ok := t.Column(name); ok {
		return nil, fmt.Errorf("column %s already exists", name)
	}

	out := &Table{
		Dates:   t.Dates,
		Columns: make([]Column, 0, len(t.Columns)+1),
	}
	out.Columns = append(out.Columns, t.Columns...)
	out.Columns = append(out.Columns, Column{Name: name, Values: values})
	return out, nil
}

// Floats returns the column with missing entries encoded as NaN.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if v.Valid {
			out[i] = v.Float64
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Count returns the number of valid entries.
func (c *Column) Count() int {
	n := 0
	for _, v := range c.Values {
		if v.Valid {
			n++
		}
	}
	return n
}

// FromFloats converts a NaN-encoded slice back to NullFloats.
// Any non-finite value is treated as missing.
func FromFloats(x []float64) []NullFloat {
	out := make([]NullFloat, len(x))
	for i, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = Float(v)
		}
	}
	return out
}

// OuterJoin aligns two series on the union of their dates. Each series
// contributes a column named after it; a value is present only at dates
// its series defines. Both series must have unique dates.
func OuterJoin(a, b *Series) (*Table, error) {
	if a.Name == b.Name {
		return nil, fmt.Errorf("cannot join two series named %s", a.Name)
	}

	pa, err := uniqueSorted(a)
	if err != nil {
		return nil, err
	}
	pb, err := uniqueSorted(b)
	if err != nil {
		return nil, err
	}

	n := len(pa) + len(pb)
	dates := make([]time.Time, 0, n)
	ca := make([]NullFloat, 0, n)
	cb := make([]NullFloat, 0, n)

	i, j := 0, 0
	for i < len(pa) || j < len(pb) {
		switch {
		case j >= len(pb) || (i < len(pa) && pa[i].Date.Before(pb[j].Date)):
			dates = append(dates, pa[i].Date)
			ca = append(ca, present(pa[i].Value))
			cb = append(cb, NullFloat{})
			i++
		case i >= len(pa) || pb[j].Date.Before(pa[i].Date):
			dates = append(dates, pb[j].Date)
			ca = append(ca, NullFloat{})
			cb = append(cb, present(pb[j].Value))
			j++
		default:
			dates = append(dates, pa[i].Date)
			ca = append(ca, present(pa[i].Value))
			cb = append(cb, present(pb[j].Value))
			i++
			j++
		}
	}

	return &Table{
		Dates: dates,
		Columns: []Column{
			{Name: a.Name, Values: ca},
			{Name: b.Name, Values: cb},
		},
	}, nil
}

// present treats a NaN read from the source as a missing value.
func present(v float64) NullFloat {
	if math.IsNaN(v) {
		return NullFloat{}
	}
	return Float(v)
}

func uniqueSorted(s *Series) ([]Point, error) {
	points := s.Points
	if !sort.SliceIsSorted(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) }) {
		points = append([]Point(nil), s.Points...)
		sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	}
	for i := 1; i < len(points); i++ {
		if points[i].Date.Equal(points[i-1].Date) {
			return nil, fmt.Errorf("%s: %w: %s", s.Source, ErrDuplicateDate, points[i].Date.Format("2006-01"))
		}
	}
	return points, nil
}

// LongRow is one (month, series) pair of raw and smoothed values.
type LongRow struct {
	Date     time.Time
	Series   string
	Raw      NullFloat
	Smoothed NullFloat
}

// ColumnPair names a raw column and its smoothed counterpart.
type ColumnPair struct {
	Raw      string
	Smoothed string
}

// Long flattens the table into per-series rows, ordered by series then date.
// Rows where both values are missing are omitted.
func (t *Table) Long(pairs []ColumnPair) ([]LongRow, error) {
	var rows []LongRow
	for _, p := range pairs {
		raw, ok := t.Column(p.Raw)
		if !ok {
			return nil, fmt.Errorf("column %s not found", p.Raw)
		}
		smooth, ok := t.Column(p.Smoothed)
		if !ok {
			return nil, fmt.Errorf("column %s not found", p.Smoothed)
		}
		for i, d := range t.Dates {
			if !raw.Values[i].Valid && !smooth.Values[i].Valid {
				continue
			}
			rows = append(rows, LongRow{
				Date:     d,
				Series:   p.Raw,
				Raw:      raw.Values[i],
				Smoothed: smooth.Values[i],
			})
		}
	}
	return rows, nil
}
