package export

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// MonthlyRow matches the Parquet schema of the merged long table.
type MonthlyRow struct {
	Date     string   `parquet:"date"`
	Year     int32    `parquet:"year"`
	Month    int32    `parquet:"month"`
	Series   string   `parquet:"series"`
	Raw      *float64 `parquet:"raw,optional"`
	Smoothed *float64 `parquet:"smoothed,optional"`
}

// ParquetRows converts long rows to their Parquet form.
func ParquetRows(rows []solar.LongRow) []MonthlyRow {
	out := make([]MonthlyRow, len(rows))
	for i, r := range rows {
		out[i] = MonthlyRow{
			Date:     r.Date.Format(DateFormat),
			Year:     int32(r.Date.Year()),
			Month:    int32(r.Date.Month()),
			Series:   r.Series,
			Raw:      nullable(r.Raw),
			Smoothed: nullable(r.Smoothed),
		}
	}
	return out
}

// WriteParquet writes long rows as a Parquet file to w.
func WriteParquet(w io.Writer, rows []solar.LongRow) error {
	return parquet.Write(w, ParquetRows(rows))
}

// WriteParquetFile writes long rows to path.
func WriteParquetFile(path string, rows []solar.LongRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteParquet(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func nullable(v solar.NullFloat) *float64 {
	if !v.Valid {
		return nil
	}
	x := v.Float64
	return &x
}
