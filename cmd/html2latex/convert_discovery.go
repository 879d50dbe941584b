package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-html2latex"
	"github.com/alnah/go-html2latex/internal/config"
	"github.com/alnah/go-html2latex/internal/fileutil"
)

// Sentinel errors for input and output resolution.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// texExtension is the extension of every written file, without the dot.
const texExtension = "tex"

// stdinID is the fragment ID used for standard input.
const stdinID = "stdin"

// stdoutLabel stands for standard output in verbose result lines.
const stdoutLabel = "<stdout>"

// sourceKind tells where the fragments came from.
type sourceKind int

const (
	sourceFiles sourceKind = iota
	sourceStdin
	sourceDatabase
)

// inputSet is the loaded batch and what is needed to place its outputs.
type inputSet struct {
	fragments []html2latex.Fragment
	kind      sourceKind
	baseDir   string // walked directory; "" for a single file, stdin or database
}

// isMergedOutput reports whether output names a single .tex file that
// receives every fragment.
func isMergedOutput(output string) bool {
	return strings.EqualFold(filepath.Ext(output), "."+texExtension)
}

// writesToStdout reports whether the merged result goes to standard output.
// Only stdin and database sources default to it; files default to .tex
// files next to their sources.
func writesToStdout(kind sourceKind, output string) bool {
	return output == "" && kind != sourceFiles
}

// resolveOutputPath determines the .tex output path for an input file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) (string, error) {
	texName, err := fileutil.ReplaceExt(filepath.Base(inputPath), texExtension)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), texName), nil
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, texName), nil
		}
	}

	return filepath.Join(outputDir, texName), nil
}

// fragmentFileName turns a stdin or database ID into a file base name.
// Characters outside [A-Za-z0-9._-] become '_'; an ID that is empty or
// made only of dots falls back to "fragment-<index>".
func fragmentFileName(id string, index int) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)

	if strings.Trim(name, ".") == "" {
		return "fragment-" + strconv.Itoa(index+1)
	}
	return name
}

// planOutputs returns one output path per fragment, in fragment order.
// Stdin and database IDs that sanitize to a name already taken in the batch
// (compared case-insensitively) get the fragment's 1-based index appended.
func planOutputs(in *inputSet, outputDir string) ([]string, error) {
	paths := make([]string, len(in.fragments))
	used := make(map[string]bool, len(in.fragments))
	for i, f := range in.fragments {
		if in.kind == sourceFiles {
			p, err := resolveOutputPath(f.ID, outputDir, in.baseDir)
			if err != nil {
				return nil, err
			}
			paths[i] = p
			continue
		}

		name := fragmentFileName(f.ID, i)
		for n := i + 1; used[strings.ToLower(name)]; n++ {
			name = fragmentFileName(f.ID, i) + "-" + strconv.Itoa(n)
		}
		used[strings.ToLower(name)] = true
		paths[i] = filepath.Join(outputDir, name+"."+texExtension)
	}
	return paths, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
