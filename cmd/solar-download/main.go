// solar-download - Download monthly sunspot and F10.7 data from NOAA and SIDC
//
// Data sources:
//   - NOAA SWPC: observed solar cycle indices (monthly SSN and F10.7), converted
//     to the 'year month value' text layout read by solar-smooth
//   - SIDC SILSO: monthly mean total sunspot number (value in column 3)
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/solar-download ./cmd/solar-download

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/common"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/source"
)

// Version can be overridden at build time via -ldflags
var Version = "1.0.0"

const noaaIndicesURL = "https://services.swpc.noaa.gov/json/solar-cycle/observed-solar-cycle-indices.json"

// DataSource defines a monthly data source. Field, when set, selects the
// NOAA JSON field converted to the monthly text layout.
type DataSource struct {
	Name     string
	URL      string
	Filename string
	Field    string
	Desc     string
}

var sources = []DataSource{
	{
		Name:     "noaa_ssn",
		URL:      noaaIndicesURL,
		Filename: "Sunspot_number_monthly_mean.txt",
		Field:    "ssn",
		Desc:     "NOAA monthly mean sunspot number (1749-present)",
	},
	{
		Name:     "noaa_f107",
		URL:      noaaIndicesURL,
		Filename: "Radio_flux_monthly_mean.txt",
		Field:    "f10.7",
		Desc:     "NOAA monthly mean 10.7cm radio flux (1947-present)",
	},
	{
		Name:     "sidc_monthly",
		URL:      "https://www.sidc.be/SILSO/DATA/SN_m_tot_V2.0.txt",
		Filename: "SN_m_tot_V2.0.txt",
		Desc:     "SIDC monthly sunspot numbers (use -ssn-col 3 -missing-sentinel -1)",
	},
}

func main() {
	cfg := common.DefaultConfig()

	destDir := flag.String("dest", cfg.DataDir, "Destination directory")
	timeout := flag.Duration("timeout", 60*time.Second, "HTTP timeout per request")
	listSources := flag.Bool("list", false, "List available data sources")
	srcName := flag.String("source", "all", "Source to download (or 'all')")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "solar-download v%s - Monthly Solar Data Downloader\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Downloads monthly sunspot and radio flux data from NOAA and SIDC.\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nData Sources:\n")
		for _, s := range sources {
			fmt.Fprintf(os.Stderr, "  %-15s %s\n", s.Name, s.Desc)
		}
	}

	flag.Parse()

	if *listSources {
		fmt.Printf("Available solar data sources:\n\n")
		for _, s := range sources {
			fmt.Printf("  %-15s %s\n", s.Name, s.Desc)
			fmt.Printf("                  URL: %s\n", s.URL)
			fmt.Printf("                  File: %s\n\n", s.Filename)
		}
		return
	}

	selected := selectSources(*srcName)
	if len(selected) == 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown source %q (see -list)\n", *srcName)
		os.Exit(2)
	}

	fmt.Println("=========================================================")
	fmt.Printf("Solar Download v%s\n", Version)
	fmt.Println("=========================================================")
	fmt.Printf("Destination: %s\n", *destDir)
	fmt.Printf("Timeout:     %v\n", *timeout)
	fmt.Println()

	if err := os.MkdirAll(*destDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Cannot create directory: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := source.NewFetcher(*timeout)
	startTime := time.Now()
	downloaded := 0
	failed := 0

	// Both NOAA sources share one document.
	cache := make(map[string][]byte)

	for _, src := range selected {
		destPath := filepath.Join(*destDir, src.Filename)
		fmt.Printf("[%s] Downloading from %s...\n", src.Name, src.URL)

		n, err := download(ctx, fetcher, cache, src, destPath)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			failed++
			continue
		}
		fmt.Printf("  Saved %s (%d bytes)\n", filepath.Base(destPath), n)
		downloaded++
	}

	elapsed := time.Since(startTime)

	fmt.Println()
	fmt.Println("=========================================================")
	fmt.Println("Download Summary")
	fmt.Println("=========================================================")
	fmt.Printf("Downloaded: %d files\n", downloaded)
	fmt.Printf("Failed:     %d files\n", failed)
	fmt.Printf("Elapsed:    %v\n", elapsed.Round(time.Millisecond))
	fmt.Println("=========================================================")

	if failed > 0 {
		os.Exit(1)
	}
}

func selectSources(name string) []DataSource {
	if name == "all" {
		return sources
	}
	for _, s := range sources {
		if s.Name == name {
			return []DataSource{s}
		}
	}
	return nil
}

func download(ctx context.Context, f *source.Fetcher, cache map[string][]byte, src DataSource, destPath string) (int, error) {
	data, ok := cache[src.URL]
	if !ok {
		var err error
		data, err = f.Fetch(ctx, src.URL)
		if err != nil {
			return 0, err
		}
		cache[src.URL] = data
	}

	if src.Field != "" {
		converted, err := source.ConvertNOAA(data, src.Field)
		if err != nil {
			return 0, err
		}
		data = converted
	}

	if err := source.WriteAtomic(destPath, data); err != nil {
		return 0, err
	}
	return len(data), nil
}
