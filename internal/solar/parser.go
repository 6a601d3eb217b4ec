package solar

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinColumns is the minimum token count of a data line (year, month, value).
	MinColumns = 3

	// Default column positions.
	ColYear  = 0
	ColMonth = 1
	ColValue = 2

	maxLineSize = 1024 * 1024
)

// ParseOptions controls monthly file parsing.
type ParseOptions struct {
	Comment     string // Comment marker; text from the marker to end of line is dropped
	ValueColumn int    // Token index of the value; zero selects ColValue
}

// DefaultParseOptions returns options for the plain three-column format.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Comment:     "#",
		ValueColumn: ColValue,
	}
}

// ParseMonthly reads whitespace-delimited (year, month, value) records
// into a Series sorted by date. Duplicate months are kept in input order.
// Sentinel values such as -1 are returned as-is.
func ParseMonthly(r io.Reader, source, name string, opts ParseOptions) (*Series, error) {
	if opts.Comment == "" {
		opts.Comment = "#"
	}
	switch {
	case opts.ValueColumn == 0:
		opts.ValueColumn = ColValue
	case opts.ValueColumn < ColValue:
		return nil, fmt.Errorf("%s: value column %d overlaps the year/month columns", source, opts.ValueColumn)
	}
	minFields := max(MinColumns, opts.ValueColumn+1)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	series := &Series{Name: name, Source: source}
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.Index(line, opts.Comment); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		fail := func(kind, err error) error {
			return &ParseError{
				Kind:   kind,
				Source: source,
				Line:   lineNum,
				Fields: len(fields),
				Text:   strings.TrimSpace(line),
				Err:    err,
			}
		}

		if len(fields) < minFields {
			return nil, fail(ErrMalformedInput, nil)
		}

		year, err := strconv.Atoi(fields[ColYear])
		if err != nil {
			return nil, fail(ErrInvalidDate, err)
		}
		month, err := strconv.Atoi(fields[ColMonth])
		if err != nil {
			return nil, fail(ErrInvalidDate, err)
		}
		date, err := MonthDate(year, month)
		if err != nil {
			return nil, fail(ErrInvalidDate, err)
		}

		value, err := strconv.ParseFloat(fields[opts.ValueColumn], 64)
		if err != nil {
			return nil, fail(ErrMalformedInput, err)
		}

		series.Points = append(series.Points, Point{Date: date, Value: value})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: read: %w", source, err)
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	return series, nil
}
