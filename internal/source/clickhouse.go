package source

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/common"
	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// Index columns of solar.indices_raw that can be averaged to monthly means.
var monthlyColumns = map[string]bool{
	"ssn":           true,
	"observed_flux": true,
	"adjusted_flux": true,
}

// ClickHouseLoader reads monthly means from the raw solar indices table
// filled by the lab's daily and 3-hourly ingest jobs.
type ClickHouseLoader struct {
	conn  driver.Conn
	table string
}

// NewClickHouseLoader connects to ClickHouse and verifies the connection.
func NewClickHouseLoader(ctx context.Context, cfg *common.Config) (*ClickHouseLoader, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.ClickHouseAddr()},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	return &ClickHouseLoader{conn: conn, table: cfg.SourceTableFQN()}, nil
}

// Close releases the connection.
func (l *ClickHouseLoader) Close() error {
	return l.conn.Close()
}

// MonthlyQuery builds the monthly mean query for one index column.
// Non-positive values are the table's missing marker and are excluded.
func MonthlyQuery(table, column string) (string, error) {
	if !monthlyColumns[column] {
		return "", fmt.Errorf("column %q cannot be loaded as a monthly series", column)
	}
	return fmt.Sprintf(`
		SELECT
			toUInt16(toYear(date)) AS year,
			toUInt8(toMonth(date)) AS month,
			avg(%s) AS value
		FROM %s
		WHERE %s > 0
		GROUP BY year, month
		ORDER BY year, month`, column, table, column), nil
}

// LoadMonthly returns the monthly mean of column as a series named name.
func (l *ClickHouseLoader) LoadMonthly(ctx context.Context, column, name string) (*solar.Series, error) {
	query, err := MonthlyQuery(l.table, column)
	if err != nil {
		return nil, err
	}

	rows, err := l.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", l.table, err)
	}
	defer rows.Close()

	series := &solar.Series{
		Name:   name,
		Source: fmt.Sprintf("%s.%s", l.table, column),
	}

	for rows.Next() {
		var (
			year  uint16
			month uint8
			value float64
		)
		if err := rows.Scan(&year, &month, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", l.table, err)
		}
		date, err := solar.MonthDate(int(year), int(month))
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", series.Source, solar.ErrInvalidDate, err)
		}
		series.Points = append(series.Points, solar.Point{Date: date, Value: value})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows %s: %w", l.table, err)
	}

	return series, nil
}
