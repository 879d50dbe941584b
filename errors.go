package html2latex

import (
	"errors"
	"fmt"

	"github.com/alnah/go-html2latex/internal/latex"
	"github.com/alnah/go-html2latex/internal/tokenizer"
)

// Sentinel errors for library operations.
var (
	ErrInternal          = errors.New("internal conversion error")
	ErrMarkdownRendering = errors.New("markdown rendering failed")

	// ErrInvalidRule reports an unusable conversion rule passed to WithRules.
	ErrInvalidRule = latex.ErrInvalidRule
)

// Markup errors. Every kind also matches ErrMalformedMarkup.
var (
	ErrMalformedMarkup = tokenizer.ErrMalformedMarkup

	ErrUnterminatedTag = tokenizer.ErrUnterminatedTag
	ErrEmptyTagName    = tokenizer.ErrEmptyTagName
	ErrUnexpectedClose = tokenizer.ErrUnexpectedClose
	ErrMismatchedTag   = tokenizer.ErrMismatchedTag
	ErrUnclosedTag     = tokenizer.ErrUnclosedTag
)

// MarkupError carries the kind and position of a markup failure.
// Use errors.As to retrieve it from a Convert error.
type MarkupError = tokenizer.MarkupError

// FragmentError attributes a batch failure to the fragment that caused it.
type FragmentError struct {
	ID  string
	Err error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragment %s: %v", e.ID, e.Err)
}

// Unwrap returns the underlying conversion error.
func (e *FragmentError) Unwrap() error {
	return e.Err
}
