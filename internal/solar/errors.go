package solar

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrInvalidDate    = errors.New("invalid date")
	ErrDuplicateDate  = errors.New("duplicate date")
)

// ParseError describes a hard parse failure. No partial series is
// returned alongside it.
type ParseError struct {
	Kind   error  // ErrMalformedInput or ErrInvalidDate
	Source string // Source identity (usually the file name)
	Line   int    // 1-based line number
	Fields int    // Observed token count on the line
	Text   string // Offending line, trimmed
	Err    error  // Underlying conversion error, if any
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s at line %d (%d fields): %q", e.Source, e.Kind, e.Line, e.Fields, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
