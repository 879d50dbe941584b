package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-html2latex"
	"github.com/alnah/go-html2latex/internal/fileutil"
	"github.com/alnah/go-html2latex/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrWriteOutput = errors.New("failed to write LaTeX output")
	ErrUsage       = errors.New("invalid usage")
)

// ConversionResult holds the outcome of a single fragment, written or not.
type ConversionResult struct {
	Source     string // fragment ID
	OutputPath string
	Err        error
	Duration   time.Duration
}

// newConversionResult copies a library result. The fragment attribution
// wrapper is dropped since Source already names the fragment.
func newConversionResult(r html2latex.Result, outputPath string) ConversionResult {
	cr := ConversionResult{
		Source:     r.ID,
		OutputPath: outputPath,
		Err:        r.Err,
		Duration:   r.Duration,
	}
	var fe *html2latex.FragmentError
	if errors.As(r.Err, &fe) {
		cr.Err = fe.Err
	}
	return cr
}

// writeEach writes every successful fragment to its own file.
// paths[i] is the destination of results[i].
func writeEach(results []html2latex.Result, paths []string, doc *html2latex.Document) []ConversionResult {
	converted := make([]ConversionResult, len(results))
	for i, r := range results {
		converted[i] = newConversionResult(r, paths[i])
		if r.Err != nil {
			continue
		}

		start := time.Now()
		if err := writeTeX(paths[i], doc.Render([]string{r.LaTeX})); err != nil {
			converted[i].Err = err
		}
		converted[i].Duration += time.Since(start)
	}
	return converted
}

// writeMerged writes every successful body into one destination, in input
// order. dest "" means stdout. Nothing is written when every fragment failed.
// A write failure is fatal and returned as an error.
func writeMerged(results []html2latex.Result, dest string, doc *html2latex.Document, stdout io.Writer) ([]ConversionResult, error) {
	label := dest
	if dest == "" {
		label = stdoutLabel
	}

	converted := make([]ConversionResult, len(results))
	bodies := make([]string, 0, len(results))
	for i, r := range results {
		converted[i] = newConversionResult(r, label)
		if r.Err == nil {
			bodies = append(bodies, r.LaTeX)
		}
	}
	if len(bodies) == 0 {
		return converted, nil
	}

	if dest == "" {
		if err := doc.Write(stdout, bodies); err != nil {
			return nil, fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
		}
		return converted, nil
	}
	if err := writeTeX(dest, doc.Render(bodies)); err != nil {
		return nil, err
	}
	return converted, nil
}

// writeTeX creates the parent directory and replaces path atomically.
func writeTeX(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	// #nosec G306 -- LaTeX sources are meant to be readable
	if err := fileutil.WriteFileAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first failure in input order, or nil.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResults outputs conversion results. Status lines go to out, failures
// to errw. Each output file is announced once; stdout output is not
// announced since it carries the LaTeX itself.
func printResults(results []ConversionResult, quiet, verbose bool, out, errw io.Writer) int {
	summary := countResults(results)
	created := make(map[string]bool)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errw, "FAILED %s: %v%s\n", r.Source, r.Err, hints.ForMalformedMarkup(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(out, "%s -> %s (%v)\n", r.Source, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else if r.OutputPath != stdoutLabel && !created[r.OutputPath] {
			created[r.OutputPath] = true
			fmt.Fprintf(out, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(out, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
