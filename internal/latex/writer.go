package latex

import "strings"

// Writer accumulates LaTeX output for one conversion and tracks how deeply
// list environments are nested. The zero value is ready to use.
type Writer struct {
	parts []string
	size  int
	depth int
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{parts: make([]string, 0, 16)}
}

func (w *Writer) write(s string) {
	if s == "" {
		return
	}
	w.parts = append(w.parts, s)
	w.size += len(s)
}

// AppendText appends already-escaped text verbatim.
func (w *Writer) AppendText(s string) {
	w.write(s)
}

// BeginInline appends the opening text of an inline command, with no
// surrounding whitespace.
func (w *Writer) BeginInline(open string) {
	w.write(open)
}

// EndInline appends the closing text of an inline command.
func (w *Writer) EndInline(close string) {
	w.write(close)
}

// BeginEnvironment starts \begin{name} on a new line and enters one list
// level.
func (w *Writer) BeginEnvironment(name string) {
	w.write("\n\\begin{" + name + "}")
	w.depth++
}

// EndEnvironment writes \end{name} on a new line and leaves one list level.
func (w *Writer) EndEnvironment(name string) {
	w.write("\n\\end{" + name + "}")
	if w.depth > 0 {
		w.depth--
	}
}

// BeginListItem starts an \item line indented by one tab per list level.
func (w *Writer) BeginListItem() {
	w.write("\n" + strings.Repeat("\t", w.depth) + "\\item ")
}

// EndListItem writes nothing: an item ends at the next \item, \end or end
// of input.
func (w *Writer) EndListItem() {}

// Depth returns the current list nesting depth.
func (w *Writer) Depth() int {
	return w.depth
}

// Len returns the output length in bytes.
func (w *Writer) Len() int {
	return w.size
}

// String returns the accumulated output. Calling it repeatedly returns the
// same text.
func (w *Writer) String() string {
	if len(w.parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(w.size)
	for _, p := range w.parts {
		b.WriteString(p)
	}
	return b.String()
}
