package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrRaggedRows indicates rows with differing column counts
	ErrRaggedRows = errors.New("ragged rows")

	// ErrUnterminatedToken indicates a quote or bracket that was opened but not closed
	ErrUnterminatedToken = errors.New("unterminated token")

	// ErrEmptyGrid indicates a layout with no rows
	ErrEmptyGrid = errors.New("empty grid")
)

// ErrorKind classifies a LayoutError
type ErrorKind int

const (
	// RaggedRows means a row's column count differs from the first row's
	RaggedRows ErrorKind = iota + 1
	// UnterminatedToken means a quoted or bracketed cell is not closed
	UnterminatedToken
	// EmptyGrid means the layout has no rows or columns
	EmptyGrid
)

// String returns the kebab-case code used in diagnostics
func (k ErrorKind) String() string {
	switch k {
	case RaggedRows:
		return "ragged-rows"
	case UnterminatedToken:
		return "unterminated-token"
	case EmptyGrid:
		return "empty-grid"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// LayoutError reports why a layout string could not be tokenized.
// It unwraps to one of the sentinel errors so callers can use errors.Is.
type LayoutError struct {
	Kind ErrorKind
	// Span covers the offending cell, or the whole row for RaggedRows
	Span Span
	// Row and Col are grid coordinates, -1 when not applicable
	Row int
	Col int
	// Want and Got are column counts for RaggedRows
	Want int
	Got  int
	// Delim is the opening quote or bracket for UnterminatedToken
	Delim byte
}

func (e *LayoutError) Error() string {
	switch e.Kind {
	case RaggedRows:
		return fmt.Sprintf("line %d: row has %d columns, expected %d", e.Span.Line+1, e.Got, e.Want)
	case UnterminatedToken:
		closer := e.Delim
		if closer == '[' {
			closer = ']'
		}
		return fmt.Sprintf("line %d: cell %d opens with %q but does not end with %q", e.Span.Line+1, e.Col+1, e.Delim, closer)
	case EmptyGrid:
		return "layout has no rows"
	}
	return "invalid layout"
}

func (e *LayoutError) Unwrap() error {
	switch e.Kind {
	case RaggedRows:
		return ErrRaggedRows
	case UnterminatedToken:
		return ErrUnterminatedToken
	case EmptyGrid:
		return ErrEmptyGrid
	}
	return nil
}

// Offset returns a copy of the error with its span relocated, see Span.Offset
func (e *LayoutError) Offset(line, col int) *LayoutError {
	out := *e
	out.Span = e.Span.Offset(line, col)
	return &out
}

// raggedError builds the RaggedRows error for a row, spanning all of its cells
func raggedError(row []Token, y, want int) *LayoutError {
	err := &LayoutError{
		Kind: RaggedRows,
		Row:  y,
		Col:  -1,
		Want: want,
		Got:  len(row),
	}
	if len(row) > 0 {
		err.Span = Span{
			Line:  row[0].Span.Line,
			Start: row[0].Span.Start,
			End:   row[len(row)-1].Span.End,
		}
	}
	return err
}
