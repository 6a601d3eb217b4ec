// Package store publishes smoothed monthly solar series to ClickHouse.
package store

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ClickHouse/ch-go"
	"github.com/ClickHouse/ch-go/proto"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/common"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// batchLimit is the flush threshold (~400 years of two monthly series).
const batchLimit = 10000

// CreateTableSQL is the destination schema. ReplacingMergeTree(updated_at)
// on (series, year, month) makes reruns idempotent after OPTIMIZE ... FINAL.
// Months are keyed by year and month since Date32 starts at 1900 and the
// sunspot record starts in 1749.
const CreateTableSQL = `CREATE TABLE IF NOT EXISTS %s (
	year           UInt16,
	month          UInt8,
	series         LowCardinality(String),
	raw            Float64,
	smoothed       Float64,
	source_file    String,
	schema_version UInt8,
	updated_at     DateTime DEFAULT now()
) ENGINE = ReplacingMergeTree(updated_at)
ORDER BY (series, year, month)`

// MonthlyBatch holds columnar data for native insert.
// Missing raw or smoothed values are stored as NaN.
type MonthlyBatch struct {
	Year          *proto.ColUInt16
	Month         *proto.ColUInt8
	Series        *proto.ColStr
	Raw           *proto.ColFloat64
	Smoothed      *proto.ColFloat64
	SourceFile    *proto.ColStr
	SchemaVersion *proto.ColUInt8
}

func NewMonthlyBatch() *MonthlyBatch {
	return &MonthlyBatch{
		Year:          new(proto.ColUInt16),
		Month:         new(proto.ColUInt8),
		Series:        new(proto.ColStr),
		Raw:           new(proto.ColFloat64),
		Smoothed:      new(proto.ColFloat64),
		SourceFile:    new(proto.ColStr),
		SchemaVersion: new(proto.ColUInt8),
	}
}

func (b *MonthlyBatch) Reset() {
	b.Year.Reset()
	b.Month.Reset()
	b.Series.Reset()
	b.Raw.Reset()
	b.Smoothed.Reset()
	b.SourceFile.Reset()
	b.SchemaVersion.Reset()
}

func (b *MonthlyBatch) Len() int {
	return b.Year.Rows()
}

func (b *MonthlyBatch) Input() proto.Input {
	return proto.Input{
		{Name: "year", Data: b.Year},
		{Name: "month", Data: b.Month},
		{Name: "series", Data: b.Series},
		{Name: "raw", Data: b.Raw},
		{Name: "smoothed", Data: b.Smoothed},
		{Name: "source_file", Data: b.SourceFile},
		{Name: "schema_version", Data: b.SchemaVersion},
	}
}

func (b *MonthlyBatch) AddRow(row solar.LongRow, sourceFile string) {
	b.Year.Append(uint16(row.Date.Year()))
	b.Month.Append(uint8(row.Date.Month()))
	b.Series.Append(row.Series)
	b.Raw.Append(orNaN(row.Raw))
	b.Smoothed.Append(orNaN(row.Smoothed))
	b.SourceFile.Append(sourceFile)
	b.SchemaVersion.Append(solar.SchemaVersion)
}

func orNaN(v solar.NullFloat) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Writer inserts long rows over the ClickHouse native protocol.
type Writer struct {
	conn  *ch.Client
	table string
}

// Dial connects to ClickHouse using the configured address and database.
func Dial(ctx context.Context, cfg *common.Config) (*Writer, error) {
	conn, err := ch.Dial(ctx, ch.Options{
		Address:     cfg.ClickHouseAddr(),
		Database:    cfg.ClickHouseDatabase,
		User:        cfg.ClickHouseUser,
		Password:    cfg.ClickHousePassword,
		Compression: ch.CompressionLZ4,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse connection failed: %w", err)
	}
	return &Writer{conn: conn, table: cfg.TableFQN()}, nil
}

// Close closes the connection.
func (w *Writer) Close() error {
	return w.conn.Close()
}

// EnsureTable creates the destination table if it does not exist.
func (w *Writer) EnsureTable(ctx context.Context) error {
	return w.conn.Do(ctx, ch.Query{Body: fmt.Sprintf(CreateTableSQL, w.table)})
}

// Insert writes rows in batches and returns the number inserted.
func (w *Writer) Insert(ctx context.Context, rows []solar.LongRow, sourceFile string) (int, error) {
	batch := NewMonthlyBatch()
	inserted := 0
	t0 := time.Now()

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := w.flushBatch(ctx, batch); err != nil {
			return fmt.Errorf("insert at row %d: %w", inserted, err)
		}
		inserted += batch.Len()
		batch.Reset()
		return nil
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		batch.AddRow(row, sourceFile)
		if batch.Len() >= batchLimit {
			if err := flush(); err != nil {
				return inserted, err
			}
			log.Printf("  Inserted %d / %d rows", inserted, len(rows))
		}
	}

	if err := flush(); err != nil {
		return inserted, err
	}

	log.Printf("Inserted %d rows into %s in %v", inserted, w.table, time.Since(t0).Round(time.Millisecond))
	return inserted, nil
}

func (w *Writer) flushBatch(ctx context.Context, batch *MonthlyBatch) error {
	query := fmt.Sprintf("INSERT INTO %s (year, month, series, raw, smoothed, source_file, schema_version) VALUES", w.table)
	return w.conn.Do(ctx, ch.Query{
		Body:  query,
		Input: batch.Input(),
	})
}
