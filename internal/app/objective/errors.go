package objective

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoHeader      = errors.New("No header line.")
	ErrInvalidHeader = errors.New("Invalid header line.")
	ErrZeroQuantity  = errors.New("material quantity must be positive")
	ErrNoGroupings   = errors.New("at least one KEY=count grouping is required")
)

// ParseError reports a malformed requirement row or grouping token.
type ParseError struct {
	Line  int
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s in `%s`", e.Line, e.Msg, e.Input)
	}
	return fmt.Sprintf("%s in `%s`", e.Msg, e.Input)
}

// UnknownNameError reports an item, system or constellation name that the
// reference data does not contain.
type UnknownNameError struct {
	Kind        string
	Name        string
	Suggestions []string
}

func (e *UnknownNameError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}
