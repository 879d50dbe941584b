package tokenizer

import (
	"errors"
	"fmt"
)

// ErrMalformedMarkup is the parent of every markup error kind.
var ErrMalformedMarkup = errors.New("malformed markup")

// Markup error kinds. Each one also matches ErrMalformedMarkup via errors.Is.
var (
	ErrUnterminatedTag = errors.New("unterminated tag")
	ErrEmptyTagName    = errors.New("empty tag name")
	ErrUnexpectedClose = errors.New("closing tag without matching open")
	ErrMismatchedTag   = errors.New("mismatched closing tag")
	ErrUnclosedTag     = errors.New("unclosed tag at end of input")
)

// MarkupError reports where a fragment stopped being well-formed.
type MarkupError struct {
	Kind   error  // one of the ErrXxx kinds above
	Tag    string // offending tag name, as written (may be empty)
	Open   string // innermost open tag when the error was raised (may be empty)
	Offset int    // byte offset into the fragment
}

func (e *MarkupError) Error() string {
	msg := fmt.Sprintf("%v: %v", ErrMalformedMarkup, e.Kind)
	if e.Tag != "" {
		msg += fmt.Sprintf(" %q", e.Tag)
	}
	msg += fmt.Sprintf(" at offset %d", e.Offset)
	if e.Open != "" {
		msg += fmt.Sprintf(" (open: %q)", e.Open)
	}
	return msg
}

// Is makes every MarkupError match ErrMalformedMarkup.
func (e *MarkupError) Is(target error) bool {
	return target == ErrMalformedMarkup
}

// Unwrap exposes the error kind to errors.Is and errors.As.
func (e *MarkupError) Unwrap() error {
	return e.Kind
}
