package untangle

import (
	"errors"
	"fmt"
)

var (
	ErrSolutionUnknown  = errors.New("solution not known for this puzzle")
	ErrNoCrossingLayout = errors.New("graph has no pair of disjoint edges to cross")
)

// ConfigurationError reports parameters no puzzle can be built from.
type ConfigurationError struct {
	Message string
}

// [ConfigurationError] implements [error]
func (e *ConfigurationError) Error() string {
	return e.Message
}

/*
FormatError reports a description or move string that failed to parse.
Pos is the byte offset of the offending token.
*/
type FormatError struct {
	Input string
	Pos   int
	Msg   string
}

// [FormatError] implements [error]
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s at offset %d of %q", e.Msg, e.Pos, e.Input)
}

func formatErr(input string, pos int, format string, args ...any) *FormatError {
	return &FormatError{Input: input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
