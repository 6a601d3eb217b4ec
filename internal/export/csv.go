// Package export writes the merged monthly table and its summary to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// DateFormat is the CSV date layout (first day of the month).
const DateFormat = "2006-01-02"

// WriteCSV writes the table with a header row: date followed by every
// column in table order. Missing values are empty fields.
func WriteCSV(w io.Writer, t *solar.Table) (int, error) {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "date")
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	record := make([]string, len(header))
	for i, d := range t.Dates {
		record[0] = d.Format(DateFormat)
		for j, c := range t.Columns {
			record[j+1] = formatValue(c.Values[i])
		}
		if err := cw.Write(record); err != nil {
			return i, err
		}
	}

	cw.Flush()
	return t.Len(), cw.Error()
}

// WriteCSVFile writes the table to path, gzip-compressed when path ends
// in .gz. It returns the number of data rows written.
func WriteCSVFile(path string, t *solar.Table) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz, err = gzip.NewWriterLevel(f, gzip.BestCompression)
		if err != nil {
			f.Close()
			return 0, err
		}
		w = gz
	}

	n, err := WriteCSV(w, t)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("write %s: %w", path, err)
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return n, fmt.Errorf("gzip close: %w", err)
		}
	}
	return n, f.Close()
}

func formatValue(v solar.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
