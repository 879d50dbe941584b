package hints

// Notes:
// - ForDatabase tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alnah/go-html2latex/internal/tokenizer"
)

func TestForDatabase_NoURL(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv(DatabaseURLEnv, "")

	hint := ForDatabase("")

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "--db-url") || !strings.Contains(hint, DatabaseURLEnv) {
		t.Errorf("expected --db-url and %s suggestion, got %q", DatabaseURLEnv, hint)
	}
}

func TestForDatabase_LocalhostInContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv(DatabaseURLEnv, "")

	hint := ForDatabase("postgres://app@localhost:5432/exams")

	if !strings.Contains(hint, "localhost") {
		t.Errorf("expected localhost suggestion in container, got %q", hint)
	}
	if strings.Contains(hint, "--db-url") {
		t.Errorf("URL was given, should not suggest --db-url: %q", hint)
	}
}

func TestForDatabase_Configured(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv(DatabaseURLEnv, "postgres://db/exams")

	hint := ForDatabase("")

	if !strings.Contains(hint, "two text columns") {
		t.Errorf("expected query shape hint, got %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with paths",
			paths:    []string{"./exam.yaml", "/home/u/.config/go-html2latex/exam.yaml"},
			contains: "create /home/u/.config/go-html2latex/exam.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForMalformedMarkup(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "unclosed",
			err:      &tokenizer.MarkupError{Kind: tokenizer.ErrUnclosedTag, Tag: "b"},
			contains: "matching </tag>",
		},
		{
			name:     "mismatched, wrapped",
			err:      fmt.Errorf("q1.html: %w", &tokenizer.MarkupError{Kind: tokenizer.ErrMismatchedTag}),
			contains: "inner tags",
		},
		{
			name:     "unexpected close",
			err:      &tokenizer.MarkupError{Kind: tokenizer.ErrUnexpectedClose},
			contains: "stray closing tag",
		},
		{
			name:     "unterminated",
			err:      &tokenizer.MarkupError{Kind: tokenizer.ErrUnterminatedTag},
			contains: "&lt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForMalformedMarkup(tt.err)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("ForMalformedMarkup() = %q, want containing %q", hint, tt.contains)
			}
		})
	}

	if hint := ForMalformedMarkup(fmt.Errorf("disk full")); hint != "" {
		t.Errorf("ForMalformedMarkup(non-markup) = %q, want empty", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForOutputDirectory(),
		ForUnknownEncoding(),
		ForConfigNotFound(nil),
		ForMalformedMarkup(tokenizer.ErrUnclosedTag),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
