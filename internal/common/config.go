// Package common provides shared configuration and run statistics for the
// KI7MT solar cycle tools.
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds common configuration for all applications.
// Input and output locations live here and are passed down explicitly;
// the solar package never knows about file locations.
type Config struct {
	ClickHouseHost        string
	ClickHousePort        int
	ClickHouseDatabase    string
	ClickHouseUser        string
	ClickHousePassword    string
	ClickHouseTable       string // Destination for smoothed monthly rows
	ClickHouseSourceTable string // Daily/3-hourly indices read with -from-clickhouse

	DataDir       string
	OutputDir     string
	SunspotFile   string // Relative to DataDir unless absolute
	RadioFluxFile string // Relative to DataDir unless absolute
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ClickHouseHost:        getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickHousePort:        getEnvInt("CLICKHOUSE_PORT", 9000),
		ClickHouseDatabase:    getEnv("CLICKHOUSE_DATABASE", "solar"),
		ClickHouseUser:        getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword:    getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickHouseTable:       getEnv("CLICKHOUSE_TABLE", "monthly_smoothed"),
		ClickHouseSourceTable: getEnv("CLICKHOUSE_SOURCE_TABLE", "indices_raw"),
		DataDir:               getEnv("KI7MT_DATA_DIR", "/var/lib/ki7mt-ai-lab/solar"),
		OutputDir:             getEnv("KI7MT_OUTPUT_DIR", "/var/lib/ki7mt-ai-lab/solar/outputs"),
		SunspotFile:           "Sunspot_number_monthly_mean.txt",
		RadioFluxFile:         "Radio_flux_monthly_mean.txt",
	}
}

// ClickHouseAddr returns the native protocol address (host:port).
func (c *Config) ClickHouseAddr() string {
	return fmt.Sprintf("%s:%d", c.ClickHouseHost, c.ClickHousePort)
}

// TableFQN returns the fully qualified destination table name.
func (c *Config) TableFQN() string {
	return fmt.Sprintf("%s.%s", c.ClickHouseDatabase, c.ClickHouseTable)
}

// SourceTableFQN returns the fully qualified source table name.
func (c *Config) SourceTableFQN() string {
	return fmt.Sprintf("%s.%s", c.ClickHouseDatabase, c.ClickHouseSourceTable)
}

// SunspotPath returns the sunspot number input path.
func (c *Config) SunspotPath() string {
	return c.dataPath(c.SunspotFile)
}

// RadioFluxPath returns the F10.7 radio flux input path.
func (c *Config) RadioFluxPath() string {
	return c.dataPath(c.RadioFluxFile)
}

// OutputPath returns the path of a named output artifact.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}

func (c *Config) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
