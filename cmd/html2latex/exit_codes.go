package main

import (
	"errors"
	"os"

	"github.com/alnah/go-html2latex"
	"github.com/alnah/go-html2latex/internal/config"
	"github.com/alnah/go-html2latex/internal/source"
)

// Exit codes for html2latex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitMarkup   = 4 // At least one fragment is malformed
	ExitDatabase = 5 // PostgreSQL source errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Database errors (exit 5)
	if errors.Is(err, source.ErrDatabase) {
		return ExitDatabase
	}

	// Markup errors (exit 4)
	if errors.Is(err, html2latex.ErrMalformedMarkup) ||
		errors.Is(err, html2latex.ErrMarkdownRendering) {
		return ExitMarkup
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, source.ErrReadFragment) ||
		errors.Is(err, source.ErrNoFragments) ||
		errors.Is(err, source.ErrFragmentTooLarge) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, source.ErrUnknownEncoding) ||
		errors.Is(err, html2latex.ErrInvalidRule) {
		return ExitUsage
	}

	return ExitGeneral
}
