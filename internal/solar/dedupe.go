package solar

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what happens to repeated (year, month) rows.
type DuplicatePolicy int

const (
	DuplicateReject    DuplicatePolicy = iota // Fail with ErrDuplicateDate
	DuplicateKeepFirst                        // Keep the first row in input order
	DuplicateKeepLast                         // Keep the last row in input order
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateKeepFirst:
		return "first"
	case DuplicateKeepLast:
		return "last"
	}
	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// ParseDuplicatePolicy maps a flag value to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "":
		return DuplicateReject, nil
	case "first", "keep-first":
		return DuplicateKeepFirst, nil
	case "last", "keep-last":
		return DuplicateKeepLast, nil
	}
	return 0, fmt.Errorf("unknown duplicate policy %q (want reject, first or last)", s)
}

// Dedupe returns a new series with unique dates. The input must be sorted
// by date with duplicates adjacent, which ParseMonthly guarantees.
func Dedupe(s *Series, policy DuplicatePolicy) (*Series, error) {
	out := &Series{
		Name:   s.Name,
		Source: s.Source,
		Points: make([]Point, 0, len(s.Points)),
	}

	for _, p := range s.Points {
		n := len(out.Points)
		if n == 0 || !out.Points[n-1].Date.Equal(p.Date) {
			out.Points = append(out.Points, p)
			continue
		}

		switch policy {
		case DuplicateKeepFirst:
		case DuplicateKeepLast:
			out.Points[n-1] = p
		default:
			return nil, fmt.Errorf("%s: %w: %s", s.Source, ErrDuplicateDate, p.Date.Format("2006-01"))
		}
	}

	return out, nil
}
