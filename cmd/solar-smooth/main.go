// solar-smooth - Monthly sunspot / F10.7 alignment and 13-month smoothing
//
// Reads the monthly mean sunspot number (R) and 10.7cm radio flux (F10.7),
// aligns them on a shared month axis and applies the 13-month smoothed
// running mean to each. Outputs:
//   - merged_timeseries.csv (date,R,F10_7,R_smooth,F_smooth)
//   - fig_raw_monthly.png, fig_smoothed.png
//   - summary.csv, solar_summary.xlsx and solar_smooth_report.txt
//   - optional Parquet, ClickHouse insert and Prometheus textfile metrics
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/solar-smooth ./cmd/solar-smooth

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/chart"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/common"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/export"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/metrics"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/source"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/store"
)

// Version can be overridden at build time via -ldflags
var Version = "1.0.0"

func main() {
	cfg := common.DefaultConfig()

	dataDir := flag.String("data-dir", cfg.DataDir, "Directory holding the monthly input files")
	outDir := flag.String("out-dir", cfg.OutputDir, "Directory for CSV, figures and report")
	ssnFile := flag.String("ssn-file", cfg.SunspotFile, "Monthly sunspot number file (relative to -data-dir unless absolute)")
	fluxFile := flag.String("flux-file", cfg.RadioFluxFile, "Monthly F10.7 radio flux file (relative to -data-dir unless absolute)")
	ssnCol := flag.Int("ssn-col", 2, "Zero-based value column in the sunspot file (3 for SILSO SN_m_tot)")
	fluxCol := flag.Int("flux-col", 2, "Zero-based value column in the radio flux file")
	duplicates := flag.String("duplicates", "reject", "Duplicate month policy: reject, first, last")
	sentinel := flag.String("missing-sentinel", "", "Treat this value as missing (e.g. -1 for SILSO)")
	fromCH := flag.Bool("from-clickhouse", false, "Load monthly means from the ClickHouse source table instead of files")
	chInsert := flag.Bool("ch-insert", false, "Insert smoothed rows into ClickHouse")
	gzipOut := flag.Bool("gzip", false, "Write merged_timeseries.csv.gz instead of plain CSV")
	parquetOut := flag.Bool("parquet", false, "Also write merged_timeseries.parquet (long format)")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	dryRun := flag.Bool("dry-run", false, "Parse and smooth only, write nothing")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "solar-smooth v%s - Monthly Solar Index Smoother\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Aligns monthly sunspot number and F10.7 radio flux on date and\n")
		fmt.Fprintf(os.Stderr, "applies the 13-month smoothed running mean to each.\n\n")
		fmt.Fprintf(os.Stderr, "Input format: whitespace-separated 'year month value', '#' comments.\n\n")
		fmt.Fprintf(os.Stderr, "Environment:\n")
		fmt.Fprintf(os.Stderr, "  KI7MT_DATA_DIR, KI7MT_OUTPUT_DIR, CLICKHOUSE_HOST, CLICKHOUSE_PORT,\n")
		fmt.Fprintf(os.Stderr, "  CLICKHOUSE_DATABASE, CLICKHOUSE_TABLE, CLICKHOUSE_SOURCE_TABLE\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg.DataDir = *dataDir
	cfg.OutputDir = *outDir
	cfg.SunspotFile = *ssnFile
	cfg.RadioFluxFile = *fluxFile

	for name, col := range map[string]int{"-ssn-col": *ssnCol, "-flux-col": *fluxCol} {
		if err := checkValueColumn(col); err != nil {
			log.Fatalf("Invalid %s: %v", name, err)
		}
	}

	policy, err := solar.ParseDuplicatePolicy(*duplicates)
	if err != nil {
		log.Fatalf("Invalid -duplicates: %v", err)
	}

	missing := math.NaN()
	if *sentinel != "" {
		missing, err = strconv.ParseFloat(*sentinel, 64)
		if err != nil {
			log.Fatalf("Invalid -missing-sentinel %q: %v", *sentinel, err)
		}
	}

	log.Println("=========================================================")
	log.Printf("Solar Smooth v%s", Version)
	log.Println("=========================================================")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nShutdown requested...")
		cancel()
	}()

	stats := common.NewStats()
	run := metrics.NewRun()

	// writeMetrics is best effort; a failed run still records its parse errors.
	writeMetrics := func() {
		if *metricsFile == "" {
			return
		}
		if err := run.WriteTextfile(*metricsFile); err != nil {
			log.Printf("Metrics warning: %v", err)
		}
	}

	// Load
	var ssn, flux *solar.Series
	if *fromCH {
		ssn, flux, err = loadClickHouse(ctx, cfg, stats)
	} else {
		ssn, flux, err = loadFiles(cfg, *ssnCol, *fluxCol, stats, run)
	}
	if err != nil {
		writeMetrics()
		log.Fatalf("Load failed: %v", err)
	}

	// Missing-value sentinel and duplicate policy
	var dropped int
	for _, s := range []**solar.Series{&ssn, &flux} {
		*s, dropped = dropSentinel(*s, missing)
		if dropped > 0 {
			log.Printf("[%s] Dropped %d sentinel value(s) (%s)", (*s).Source, dropped, *sentinel)
		}
		deduped, err := solar.Dedupe(*s, policy)
		if err != nil {
			run.ObserveParseError((*s).Name, err)
			writeMetrics()
			log.Fatalf("Duplicate months: %v", err)
		}
		if n := (*s).Len() - deduped.Len(); n > 0 {
			log.Printf("[%s] Collapsed %d duplicate month(s) (keep %s)", (*s).Source, n, policy)
		}
		*s = deduped
	}

	// Align and smooth
	table, err := buildTable(ssn, flux)
	if err != nil {
		log.Fatalf("Align failed: %v", err)
	}
	stats.MonthsAligned.Store(uint64(table.Len()))
	log.Printf("Aligned %d months", table.Len())

	summaries, err := summarize(table)
	if err != nil {
		log.Fatalf("Summary failed: %v", err)
	}
	observeSummaries(run, summaries)
	for _, s := range summaries {
		logSummary(s)
	}

	if *dryRun {
		log.Println("Dry run: no outputs written")
		run.Finish(stats.Elapsed(), time.Now())
		writeMetrics()
		stats.LogFinal()
		return
	}

	// Write outputs
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("Cannot create output directory: %v", err)
	}

	var artifacts []string
	saved := func(path string) {
		artifacts = append(artifacts, path)
		log.Printf("Saved: %s", path)
	}

	csvName := "merged_timeseries.csv"
	if *gzipOut {
		csvName += ".gz"
	}
	csvPath := cfg.OutputPath(csvName)
	n, err := export.WriteCSVFile(csvPath, table)
	if err != nil {
		log.Fatalf("CSV write failed: %v", err)
	}
	stats.RowsWritten.Add(uint64(n))
	saved(csvPath)

	var long []solar.LongRow
	if *parquetOut || *chInsert {
		long, err = table.Long(smoothPairs)
		if err != nil {
			log.Fatalf("Long format failed: %v", err)
		}
	}

	if *parquetOut {
		pqPath := cfg.OutputPath("merged_timeseries.parquet")
		if err := export.WriteParquetFile(pqPath, long); err != nil {
			log.Fatalf("Parquet write failed: %v", err)
		}
		saved(pqPath)
	}

	for _, fig := range figures(table) {
		path := cfg.OutputPath(fig.name)
		if err := fig.chart.WriteFile(path); err != nil {
			log.Fatalf("Figure %s failed: %v", fig.name, err)
		}
		saved(path)
	}

	summaryPath := cfg.OutputPath("summary.csv")
	if err := export.WriteSummaryFile(summaryPath, summaries); err != nil {
		log.Fatalf("Summary write failed: %v", err)
	}
	saved(summaryPath)

	xlsxPath := cfg.OutputPath("solar_summary.xlsx")
	if err := export.WriteSummaryXLSX(xlsxPath, summaries); err != nil {
		log.Fatalf("Summary workbook failed: %v", err)
	}
	saved(xlsxPath)

	if *chInsert {
		if err := insertClickHouse(ctx, cfg, long, ssn.Source+","+flux.Source); err != nil {
			log.Fatalf("ClickHouse insert failed: %v", err)
		}
	}

	reportPath := cfg.OutputPath("solar_smooth_report.txt")
	report := &export.Report{
		Tool:      "solar-smooth",
		Version:   Version,
		Months:    table.Len(),
		Summaries: summaries,
		Artifacts: artifacts,
		Elapsed:   stats.Elapsed(),
	}
	if err := report.WriteFile(reportPath); err != nil {
		log.Fatalf("Report write failed: %v", err)
	}
	log.Printf("Saved: %s", reportPath)

	run.Finish(stats.Elapsed(), time.Now())
	writeMetrics()
	stats.LogFinal()
}

func loadFiles(cfg *common.Config, ssnCol, fluxCol int, stats *common.Stats, run *metrics.Run) (*solar.Series, *solar.Series, error) {
	inputs := []struct {
		name string
		path string
		col  int
	}{
		{solar.ColSunspot, cfg.SunspotPath(), ssnCol},
		{solar.ColRadioFlux, cfg.RadioFluxPath(), fluxCol},
	}

	out := make([]*solar.Series, len(inputs))
	for i, in := range inputs {
		opts := solar.DefaultParseOptions()
		opts.ValueColumn = in.col

		res, err := source.ParseFile(in.path, in.name, opts)
		if err != nil {
			run.ObserveParseError(in.name, err)
			return nil, nil, err
		}

		rows := res.Series.Len()
		stats.AddFile(uint64(res.Bytes), uint64(rows))
		run.RowsParsed.WithLabelValues(in.name).Add(float64(rows))
		log.Printf("[%s] Parsed %d months", filepath.Base(in.path), rows)
		out[i] = res.Series
	}

	return out[0], out[1], nil
}

func loadClickHouse(ctx context.Context, cfg *common.Config, stats *common.Stats) (*solar.Series, *solar.Series, error) {
	log.Printf("Connecting to ClickHouse at %s...", cfg.ClickHouseAddr())
	loader, err := source.NewClickHouseLoader(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	defer loader.Close()

	log.Printf("Source table: %s", cfg.SourceTableFQN())

	ssn, err := loader.LoadMonthly(ctx, "ssn", solar.ColSunspot)
	if err != nil {
		return nil, nil, err
	}
	flux, err := loader.LoadMonthly(ctx, "observed_flux", solar.ColRadioFlux)
	if err != nil {
		return nil, nil, err
	}

	for _, s := range []*solar.Series{ssn, flux} {
		stats.RowsParsed.Add(uint64(s.Len()))
		log.Printf("[%s] Loaded %d months", s.Source, s.Len())
	}
	return ssn, flux, nil
}

func insertClickHouse(ctx context.Context, cfg *common.Config, rows []solar.LongRow, sourceFile string) error {
	log.Printf("Connecting to ClickHouse at %s...", cfg.ClickHouseAddr())
	w, err := store.Dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.EnsureTable(ctx); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	_, err = w.Insert(ctx, rows, sourceFile)
	return err
}

type figure struct {
	name  string
	chart *chart.Chart
}

// figures builds the raw and smoothed comparison charts.
func figures(t *solar.Table) []figure {
	lines := func(names ...string) []chart.Line {
		out := make([]chart.Line, 0, len(names))
		for _, name := range names {
			col, _ := t.Column(name)
			out = append(out, chart.Line{Label: name, Values: col.Floats()})
		}
		return out
	}

	return []figure{
		{
			name: "fig_raw_monthly.png",
			chart: &chart.Chart{
				Title:  "Monthly Sunspot Number (R) and F10.7 (raw)",
				XLabel: "Year",
				YLabel: "Value",
				Dates:  t.Dates,
				Lines:  lines(solar.ColSunspot, solar.ColRadioFlux),
			},
		},
		{
			name: "fig_smoothed.png",
			chart: &chart.Chart{
				Title:  "13-month Smoothed R and F10.7",
				XLabel: "Year",
				YLabel: "Value",
				Dates:  t.Dates,
				Lines:  lines(solar.ColSunspotSmooth, solar.ColRadioFluxSmooth),
			},
		},
	}
}

func logSummary(s solar.Summary) {
	if !s.HasData {
		log.Printf("%-6s no data", s.Series+":")
		return
	}
	log.Printf("%-6s %s to %s (raw %d, smoothed %d)",
		s.Series+":", s.Start.Format("2006-01"), s.End.Format("2006-01"), s.RawCount, s.SmoothedCount)
}
