package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-html2latex"
	"github.com/alnah/go-html2latex/internal/source"
)

// DatabaseLoader loads fragments from a database URL and query.
type DatabaseLoader func(ctx context.Context, databaseURL, query string, format html2latex.Format) ([]html2latex.Fragment, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and the database source.
type Environment struct {
	Now      func() time.Time
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger   // nil = built from --quiet/--verbose
	Database DatabaseLoader // PostgreSQL source
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Database: source.LoadPostgres,
	}
}

// newLogger builds the CLI logger on w. Warnings and errors by default,
// everything with verbose, errors only with quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
