package html2latex

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// newMarkdown creates the goldmark instance used by ConvertMarkdown.
// Raw HTML in the Markdown source is not passed through (goldmark's default);
// goldmark replaces it with a comment, which the tokenizer skips.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // <br />, <hr />: self-closing for the tokenizer
		),
	)
}

// ConvertMarkdown renders Markdown to HTML with goldmark, then converts the
// HTML like Convert does. Character references produced by goldmark are
// decoded and the newlines goldmark puts between blocks are kept, so
// paragraphs and list items stay on separate lines.
func (c *Converter) ConvertMarkdown(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRendering, err)
	}

	return c.convert(buf.String(), true, true)
}
