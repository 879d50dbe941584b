package html2latex

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-html2latex/internal/latex"
)

// Rule describes how one HTML tag becomes LaTeX. See WithRules.
type Rule = latex.Rule

// Kind is the closed set of constructs a Rule can produce.
type Kind = latex.Kind

// Rule kinds.
const (
	KindInline      = latex.KindInline
	KindEnvironment = latex.KindEnvironment
	KindListItem    = latex.KindListItem
)

// Format identifies the markup of a Fragment.
type Format int

// Fragment formats.
const (
	FormatHTML Format = iota
	FormatMarkdown
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat is the inverse of Format.String. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return 0, fmt.Errorf("unknown format %q (must be html or markdown)", s)
}

// Fragment is one unit of batch work.
type Fragment struct {
	ID      string // identifies the fragment in results and errors
	Content string // HTML or Markdown, depending on Format
	Format  Format
}

// Result is the outcome of converting one Fragment.
type Result struct {
	ID       string
	Index    int    // position of the fragment in the ConvertAll input
	LaTeX    string // empty when Err is set
	Err      error  // *FragmentError on failure
	Duration time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	decodeEntities    bool
	keepInterTagSpace bool
	rules             []Rule
	workers           int
	logger            *slog.Logger
}

// WithDecodeEntities decodes HTML character references (&amp;, &#233;, ...)
// in text before escaping. Off by default: "&amp;" is emitted as written.
func WithDecodeEntities(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.decodeEntities = enabled
	}
}

// WithKeepInterTagSpace keeps whitespace-only text between two tags.
// Off by default, so "<b>A</b> <u>B</u>" yields \textbf{A}\underline{B}.
func WithKeepInterTagSpace(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.keepInterTagSpace = enabled
	}
}

// WithRules adds conversion rules on top of the built-in tag table.
// A rule for an existing tag replaces it. NewConverter validates the rules.
func WithRules(rules ...Rule) Option {
	return func(c *Converter) {
		c.cfg.rules = append(c.cfg.rules, rules...)
	}
}

// WithWorkers sets the ConvertAll worker count. n <= 0 selects a count from
// GOMAXPROCS (see ResolveWorkers).
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithLogger enables debug logging (unknown tags, batch progress).
// A nil logger keeps the converter silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}
