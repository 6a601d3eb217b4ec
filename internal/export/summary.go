package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// WriteSummaryCSV writes one row per series: start, end, raw count and
// smoothed non-missing count.
func WriteSummaryCSV(w io.Writer, summaries []solar.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "start_raw", "end_raw", "count_raw", "count_smoothed"}); err != nil {
		return err
	}

	for _, s := range summaries {
		start, end := "", ""
		if s.HasData {
			start = s.Start.Format(DateFormat)
			end = s.End.Format(DateFormat)
		}
		if err := cw.Write([]string{
			s.Series,
			start,
			end,
			strconv.Itoa(s.RawCount),
			strconv.Itoa(s.SmoothedCount),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Report is the plain-text run report.
type Report struct {
	Tool      string
	Version   string
	Months    int
	Summaries []solar.Summary
	Artifacts []string
	Elapsed   time.Duration
}

// WriteTo writes the report in the lab tools' report layout.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}

	fmt.Fprintf(cw, "%s v%s Report\n", r.Tool, r.Version)
	fmt.Fprintf(cw, "================================\n")
	fmt.Fprintf(cw, "Months:     %d\n", r.Months)
	for _, s := range r.Summaries {
		if !s.HasData {
			fmt.Fprintf(cw, "%-10s  no data\n", s.Series+":")
			continue
		}
		fmt.Fprintf(cw, "%-10s  %s to %s, raw %d, smoothed %d\n",
			s.Series+":", s.Start.Format("2006-01"), s.End.Format("2006-01"), s.RawCount, s.SmoothedCount)
	}
	fmt.Fprintf(cw, "Elapsed:    %v\n", r.Elapsed.Round(time.Millisecond))
	for _, a := range r.Artifacts {
		fmt.Fprintf(cw, "Saved:      %s\n", a)
	}

	return cw.n, cw.err
}

// WriteFile writes the report to path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSummaryFile writes the summary CSV to path.
func WriteSummaryFile(path string, summaries []solar.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSummaryCSV(f, summaries); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
