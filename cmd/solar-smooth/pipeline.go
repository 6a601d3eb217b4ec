package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/metrics"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// smoothPairs maps each raw column to its smoothed column.
var smoothPairs = []solar.ColumnPair{
	{Raw: solar.ColSunspot, Smoothed: solar.ColSunspotSmooth},
	{Raw: solar.ColRadioFlux, Smoothed: solar.ColRadioFluxSmooth},
}

// seriesLabels are the display names used in summaries and charts.
var seriesLabels = map[string]string{
	solar.ColSunspot:   "R",
	solar.ColRadioFlux: "F10.7",
}

// checkValueColumn rejects value columns that would read the year or month.
func checkValueColumn(col int) error {
	if col < solar.ColValue {
		return fmt.Errorf("value column %d overlaps the year/month columns (minimum %d)", col, solar.ColValue)
	}
	return nil
}

// dropSentinel removes points equal to sentinel. NaN disables the filter.
func dropSentinel(s *solar.Series, sentinel float64) (*solar.Series, int) {
	if math.IsNaN(sentinel) {
		return s, 0
	}
	out := s.Filter(func(p solar.Point) bool { return p.Value != sentinel })
	return out, s.Len() - out.Len()
}

// buildTable joins the sunspot and radio flux series on date and appends
// the smoothed column of each. The two columns are smoothed concurrently.
func buildTable(ssn, flux *solar.Series) (*solar.Table, error) {
	joined, err := solar.OuterJoin(ssn, flux)
	if err != nil {
		return nil, err
	}

	smoothed := make([][]solar.NullFloat, len(smoothPairs))
	errs := make([]error, len(smoothPairs))

	var wg sync.WaitGroup
	for i, pair := range smoothPairs {
		wg.Add(1)
		go func(i int, pair solar.ColumnPair) {
			defer wg.Done()
			t, err := solar.SmoothColumn(joined, pair.Raw, pair.Smoothed)
			if err != nil {
				errs[i] = err
				return
			}
			col, _ := t.Column(pair.Smoothed)
			smoothed[i] = col.Values
		}(i, pair)
	}
	wg.Wait()

	table := joined
	for i, pair := range smoothPairs {
		if errs[i] != nil {
			return nil, fmt.Errorf("smooth %s: %w", pair.Raw, errs[i])
		}
		if table, err = table.WithColumn(pair.Smoothed, smoothed[i]); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// summarize reports coverage for every smoothed pair.
func summarize(t *solar.Table) ([]solar.Summary, error) {
	summaries := make([]solar.Summary, 0, len(smoothPairs))
	for _, pair := range smoothPairs {
		s, err := solar.Summarize(t, seriesLabels[pair.Raw], pair.Raw, pair.Smoothed)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// observeSummaries records coverage metrics under the column name, the
// same series label used for parse counters.
func observeSummaries(run *metrics.Run, summaries []solar.Summary) {
	for i, s := range summaries {
		run.ObserveSummary(smoothPairs[i].Raw, s)
	}
}
