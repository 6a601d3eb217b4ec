package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

func TestObserveParseError(t *testing.T) {
	r := NewRun()

	r.ObserveParseError("R", &solar.ParseError{Kind: solar.ErrMalformedInput, Source: "ssn.txt"})
	r.ObserveParseError("R", fmt.Errorf("x: %w", solar.ErrDuplicateDate))
	r.ObserveParseError("F10_7", os.ErrNotExist)

	tests := []struct {
		series, kind string
		want         float64
	}{
		{"R", "malformed_input", 1},
		{"R", "duplicate_date", 1},
		{"R", "invalid_date", 0},
		{"F10_7", "other", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(r.ParseErrors.WithLabelValues(tt.series, tt.kind))
		if got != tt.want {
			t.Errorf("parse errors{%s,%s} = %v, want %v", tt.series, tt.kind, got, tt.want)
		}
	}
}

func TestObserveSummary(t *testing.T) {
	r := NewRun()
	end := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	r.ObserveSummary(solar.ColSunspot, solar.Summary{Series: "R", HasData: true, End: end, RawCount: 10, SmoothedCount: 9})
	r.ObserveSummary(solar.ColRadioFlux, solar.Summary{Series: "F10.7"})

	if got := testutil.ToFloat64(r.RawMonths.WithLabelValues("R")); got != 10 {
		t.Errorf("raw months = %v, want 10", got)
	}
	if got := testutil.ToFloat64(r.SmoothedMonths.WithLabelValues("R")); got != 9 {
		t.Errorf("smoothed months = %v, want 9", got)
	}
	if got := testutil.ToFloat64(r.LastMonth.WithLabelValues("R")); got != float64(end.Unix()) {
		t.Errorf("last month = %v, want %v", got, end.Unix())
	}
	if got := testutil.ToFloat64(r.RawMonths.WithLabelValues(solar.ColRadioFlux)); got != 0 {
		t.Errorf("raw months{F10_7} = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(r.RawMonths); got != 2 {
		t.Errorf("raw months series = %d, want 2", got)
	}
	if got := testutil.CollectAndCount(r.LastMonth); got != 1 {
		t.Errorf("last month series = %d, want 1 (no data series skipped)", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRun()
	r.RowsParsed.WithLabelValues("R").Add(42)
	r.Finish(2*time.Second, time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "solar_smooth.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`solar_smooth_rows_parsed_total{series="R"} 42`,
		"solar_smooth_duration_seconds 2",
		"solar_smooth_last_success_timestamp_seconds 1.7e+09",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}
