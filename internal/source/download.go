package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Fetcher downloads source files, retrying transient failures.
type Fetcher struct {
	Client          *http.Client
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// NewFetcher returns a fetcher with a per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:          &http.Client{Timeout: timeout},
		InitialInterval: 500 * time.Millisecond,
		MaxElapsedTime:  2 * time.Minute,
	}
}

// Fetch returns the body of url. Network errors, 429 and 5xx responses
// are retried with exponential backoff; other statuses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := f.Client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP GET failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.InitialInterval
	bo.MaxElapsedTime = f.MaxElapsedTime
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// WriteAtomic writes data to a temp file and renames it into place.
func WriteAtomic(destPath string, data []byte) error {
	tmpPath := destPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write file failed: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename failed: %w", err)
	}
	return nil
}

// noaaRecord is one month of the SWPC observed solar cycle indices.
type noaaRecord struct {
	TimeTag string  `json:"time-tag"`
	SSN     float64 `json:"ssn"`
	F107    float64 `json:"f10.7"`
}

// ConvertNOAA turns the SWPC observed-solar-cycle-indices JSON into the
// three-column monthly text format. field is "ssn" or "f10.7"; negative
// values are SWPC's missing marker and those months are left out.
func ConvertNOAA(data []byte, field string) ([]byte, error) {
	var records []noaaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode NOAA indices: %w", err)
	}

	var pick func(noaaRecord) float64
	switch field {
	case "ssn":
		pick = func(r noaaRecord) float64 { return r.SSN }
	case "f10.7":
		pick = func(r noaaRecord) float64 { return r.F107 }
	default:
		return nil, fmt.Errorf("unknown NOAA field %q", field)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# NOAA SWPC observed solar cycle indices: %s monthly mean\n", field)
	fmt.Fprintf(&buf, "# year month value\n")

	for _, rec := range records {
		parts := strings.Split(rec.TimeTag, "-")
		if len(parts) != 2 {
			continue
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			continue
		}

		v := pick(rec)
		if v < 0 {
			continue
		}
		fmt.Fprintf(&buf, "%04d %02d %s\n", year, month, strconv.FormatFloat(v, 'f', -1, 64))
	}

	return buf.Bytes(), nil
}
