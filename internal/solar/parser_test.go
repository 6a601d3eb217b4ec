package solar

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestParseMonthly(t *testing.T) {
	input := `# Sunspot number, monthly mean
# year month value
2020 03 1.5

2020 01 6.2   extra tokens ignored
2020 02 0.2 # inline note
   2019   12   1.5
`
	s, err := ParseMonthly(strings.NewReader(input), "ssn.txt", "R", DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}

	want := []Point{
		{Date: month(2019, time.December), Value: 1.5},
		{Date: month(2020, time.January), Value: 6.2},
		{Date: month(2020, time.February), Value: 0.2},
		{Date: month(2020, time.March), Value: 1.5},
	}
	if !reflect.DeepEqual(s.Points, want) {
		t.Errorf("Points = %v, want %v", s.Points, want)
	}
	if s.Name != "R" {
		t.Errorf("Name = %q, want R", s.Name)
	}
	if s.Source != "ssn.txt" {
		t.Errorf("Source = %q, want ssn.txt", s.Source)
	}
}

func TestParseMonthly_Empty(t *testing.T) {
	s, err := ParseMonthly(strings.NewReader("# only comments\n\n"), "empty.txt", "R", DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestParseMonthly_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantKind   error
		wantLine   int
		wantFields int
	}{
		{"two tokens", "2020 01 5\n2020 02\n", ErrMalformedInput, 2, 2},
		{"single token", "2020\n", ErrMalformedInput, 1, 1},
		{"month 13", "2020 13 5.0\n", ErrInvalidDate, 1, 3},
		{"month zero", "# header\n2020 0 5.0\n", ErrInvalidDate, 2, 3},
		{"non-integer year", "20x0 01 5.0\n", ErrInvalidDate, 1, 3},
		{"fractional month", "2020 1.5 5.0\n", ErrInvalidDate, 1, 3},
		{"non-numeric value", "2020 01 abc\n", ErrMalformedInput, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseMonthly(strings.NewReader(tt.input), "bad.txt", "R", DefaultParseOptions())
			if err == nil {
				t.Fatalf("ParseMonthly succeeded, want %v", tt.wantKind)
			}
			if s != nil {
				t.Errorf("got partial series with %d points, want nil", s.Len())
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Source != "bad.txt" {
				t.Errorf("Source = %q, want bad.txt", pe.Source)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if pe.Fields != tt.wantFields {
				t.Errorf("Fields = %d, want %d", pe.Fields, tt.wantFields)
			}
			if !strings.Contains(err.Error(), "bad.txt") {
				t.Errorf("error message %q does not name the source", err.Error())
			}
		})
	}
}

func TestParseMonthly_DuplicatesKeptInInputOrder(t *testing.T) {
	input := "2020 02 9\n2020 01 1\n2020 02 2\n2020 01 3\n"
	s, err := ParseMonthly(strings.NewReader(input), "dup.txt", "R", DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}

	got := make([]float64, s.Len())
	for i, p := range s.Points {
		got[i] = p.Value
	}
	want := []float64{1, 3, 9, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestParseMonthly_ValueColumn(t *testing.T) {
	// SILSO layout: year month decimal-year SN stddev nobs provisional
	input := "1749 01 1749.042   96.7  -1.0   -1 1\n1749 02 1749.123  104.3  -1.0   -1 1\n"
	opts := DefaultParseOptions()
	opts.ValueColumn = 3

	s, err := ParseMonthly(strings.NewReader(input), "SN_m_tot_V2.0.txt", "R", opts)
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Points[1].Value != 104.3 {
		t.Errorf("Points[1].Value = %v, want 104.3", s.Points[1].Value)
	}

	// The same options reject a three-column line.
	_, err = ParseMonthly(strings.NewReader("2020 01 5\n"), "short.txt", "R", opts)
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("error = %v, want ErrMalformedInput", err)
	}
}

func TestParseMonthly_ValueColumnOverlap(t *testing.T) {
	for _, col := range []int{1, -1} {
		opts := DefaultParseOptions()
		opts.ValueColumn = col

		s, err := ParseMonthly(strings.NewReader("2020 3 42.5\n"), "ssn.txt", "R", opts)
		if err == nil {
			t.Errorf("ValueColumn %d: got %d points, want error", col, s.Len())
		}
	}

	// Zero selects the default value column.
	s, err := ParseMonthly(strings.NewReader("2020 3 42.5\n"), "ssn.txt", "R", ParseOptions{})
	if err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if s.Points[0].Value != 42.5 {
		t.Errorf("Value = %v, want 42.5", s.Points[0].Value)
	}
}

func TestParseMonthly_SentinelNotInterpreted(t *testing.T) {
	s, err := ParseMonthly(strings.NewReader("2020 01 -1\n2020 02 nan\n"), "f107.txt", "F10_7", DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}
	if s.Points[0].Value != -1 {
		t.Errorf("Points[0].Value = %v, want -1", s.Points[0].Value)
	}
	if !math.IsNaN(s.Points[1].Value) {
		t.Errorf("Points[1].Value = %v, want NaN", s.Points[1].Value)
	}
}

func TestParseMonthly_Deterministic(t *testing.T) {
	input := "2021 05 3\n2020 11 7\n2021 01 2\n2020 11 8\n"

	first, err := ParseMonthly(strings.NewReader(input), "a.txt", "R", DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}
	second, err := ParseMonthly(strings.NewReader(input), "a.txt", "R", DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parses differ:\n%v\n%v", first, second)
	}

	for i := 1; i < first.Len(); i++ {
		if first.Points[i].Date.Before(first.Points[i-1].Date) {
			t.Errorf("dates not non-decreasing at %d: %v < %v", i, first.Points[i].Date, first.Points[i-1].Date)
		}
	}
}

func TestParseMonthly_CustomComment(t *testing.T) {
	opts := DefaultParseOptions()
	opts.Comment = ";"

	s, err := ParseMonthly(strings.NewReader("; header\n2020 01 5 ; note\n"), "c.txt", "R", opts)
	if err != nil {
		t.Fatalf("ParseMonthly: %v", err)
	}
	if s.Len() != 1 || s.Points[0].Value != 5 {
		t.Errorf("Points = %v, want one point with value 5", s.Points)
	}
}
