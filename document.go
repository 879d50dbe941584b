package html2latex

import (
	"bufio"
	"io"
	"strings"
)

// Default document wrapper lines.
const (
	DefaultDocumentClass = `\documentclass[UTF8]{ctexart}`
	BeginDocument        = `\begin{document}`
	EndDocument          = `\end{document}`
)

// DefaultPackages are the \usepackage lines of DefaultDocument.
var DefaultPackages = []string{`\usepackage{graphicx}`}

// Document wraps converted fragments into a complete LaTeX file.
// The converter never emits a preamble itself; this is the caller-side
// wrapper around the converted bodies.
type Document struct {
	// Preamble lines up to and including \begin{document}.
	Preamble []string
	// Trailer lines after the last body, normally just \end{document}.
	Trailer []string
}

// DefaultDocument returns the ctexart document wrapper.
func DefaultDocument() *Document {
	preamble := make([]string, 0, 2+len(DefaultPackages))
	preamble = append(preamble, DefaultDocumentClass)
	preamble = append(preamble, DefaultPackages...)
	preamble = append(preamble, BeginDocument)
	return &Document{Preamble: preamble, Trailer: []string{EndDocument}}
}

// Write writes the preamble, each body followed by a newline, and the
// trailer. Every line is newline-terminated.
func (d *Document) Write(w io.Writer, bodies []string) error {
	bw := bufio.NewWriter(w)
	for _, group := range [][]string{d.Preamble, bodies, d.Trailer} {
		for _, line := range group {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}
	// bufio.Writer keeps the first write error and returns it from Flush.
	return bw.Flush()
}

// Render returns the document as a string.
func (d *Document) Render(bodies []string) string {
	var b strings.Builder
	_ = d.Write(&b, bodies) // strings.Builder never fails
	return b.String()
}
