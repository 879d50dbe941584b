package html2latex

import (
	"context"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/alnah/go-html2latex/internal/latex"
	"github.com/alnah/go-html2latex/internal/tokenizer"
)

// Converter turns HTML fragments into LaTeX.
// Create with NewConverter. A Converter holds only immutable configuration:
// every call builds its own handler, writer and nesting stack, so one
// Converter may be used from many goroutines.
type Converter struct {
	cfg      converterConfig
	registry *latex.Registry
	markdown goldmark.Markdown
}

// NewConverter creates a Converter. Returns ErrInvalidRule if a rule passed
// with WithRules is unusable.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}

	registry, err := latex.NewRegistry(c.cfg.rules...)
	if err != nil {
		return nil, err
	}
	c.registry = registry
	c.markdown = newMarkdown()

	return c, nil
}

var (
	defaultConverter     *Converter
	defaultConverterOnce sync.Once
)

// Convert converts one HTML fragment with the default configuration.
func Convert(fragment string) (string, error) {
	defaultConverterOnce.Do(func() {
		// Cannot fail: no extra rules.
		defaultConverter, _ = NewConverter()
	})
	return defaultConverter.Convert(context.Background(), fragment)
}

// Convert converts one HTML fragment to LaTeX.
// On failure it returns "" and an error; output is never partial. Markup
// problems match ErrMalformedMarkup and carry a *MarkupError.
// The context is checked before the (synchronous) conversion starts.
func (c *Converter) Convert(ctx context.Context, fragment string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.convert(fragment, c.cfg.decodeEntities, c.cfg.keepInterTagSpace)
}

// convert runs the tokenizer over fragment with a fresh handler and writer.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) convert(fragment string, decode, keepSpace bool) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	w := latex.NewWriter()
	h := latex.NewHandler(c.registry, w, latex.HandlerOptions{
		DecodeEntities: decode,
		Logger:         c.cfg.logger,
	})
	opts := tokenizer.Options{KeepInterTagSpace: keepSpace}

	if err := tokenizer.Parse(fragment, h, opts); err != nil {
		return "", err
	}
	return w.String(), nil
}

// ConvertFragment converts f according to its Format.
func (c *Converter) ConvertFragment(ctx context.Context, f Fragment) (string, error) {
	switch f.Format {
	case FormatHTML:
		return c.Convert(ctx, f.Content)
	case FormatMarkdown:
		return c.ConvertMarkdown(ctx, f.Content)
	default:
		return "", fmt.Errorf("fragment %s: unsupported format %v", f.ID, f.Format)
	}
}
