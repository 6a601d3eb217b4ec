// Package metrics records solar-smooth run metrics for the node_exporter
// textfile collector. The series label is always the raw column name
// (R, F10_7).
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// Run holds the metrics of one solar-smooth run. Each run gets its own
// registry so the textfile only carries this run's values.
type Run struct {
	Registry *prometheus.Registry

	RowsParsed     *prometheus.CounterVec
	ParseErrors    *prometheus.CounterVec
	RawMonths      *prometheus.GaugeVec
	SmoothedMonths *prometheus.GaugeVec
	LastMonth      *prometheus.GaugeVec
	Duration       prometheus.Gauge
	LastSuccess    prometheus.Gauge
}

// NewRun creates the run metrics on a fresh registry.
func NewRun() *Run {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Run{
		Registry: reg,
		RowsParsed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solar_smooth_rows_parsed_total",
				Help: "Monthly rows parsed per series",
			},
			[]string{"series"},
		),
		ParseErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solar_smooth_parse_errors_total",
				Help: "Input files rejected by the parser",
			},
			[]string{"series", "kind"},
		),
		RawMonths: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solar_smooth_raw_months",
				Help: "Months with a raw value per series",
			},
			[]string{"series"},
		),
		SmoothedMonths: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solar_smooth_smoothed_months",
				Help: "Months with a smoothed value per series",
			},
			[]string{"series"},
		),
		LastMonth: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solar_smooth_last_month_timestamp_seconds",
				Help: "Unix time of the last month with a raw value",
			},
			[]string{"series"},
		),
		Duration: f.NewGauge(prometheus.GaugeOpts{
			Name: "solar_smooth_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "solar_smooth_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
}

// ObserveParseError counts a rejected input file.
func (r *Run) ObserveParseError(series string, err error) {
	kind := "other"
	switch {
	case errors.Is(err, solar.ErrMalformedInput):
		kind = "malformed_input"
	case errors.Is(err, solar.ErrInvalidDate):
		kind = "invalid_date"
	case errors.Is(err, solar.ErrDuplicateDate):
		kind = "duplicate_date"
	}
	r.ParseErrors.WithLabelValues(series, kind).Inc()
}

// ObserveSummary records coverage for the series with raw column name
// series. The summary's display label is not used as a metric label.
func (r *Run) ObserveSummary(series string, s solar.Summary) {
	r.RawMonths.WithLabelValues(series).Set(float64(s.RawCount))
	r.SmoothedMonths.WithLabelValues(series).Set(float64(s.SmoothedCount))
	if s.HasData {
		r.LastMonth.WithLabelValues(series).Set(float64(s.End.Unix()))
	}
}

// Finish records the run duration and success time.
func (r *Run) Finish(elapsed time.Duration, now time.Time) {
	r.Duration.Set(elapsed.Seconds())
	r.LastSuccess.Set(float64(now.Unix()))
}

// WriteTextfile writes the metrics for the node_exporter textfile collector.
func (r *Run) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
