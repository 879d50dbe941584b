package latex

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-html2latex/internal/tokenizer"
)

// Compile-time interface implementation check.
var _ tokenizer.Handler = (*Handler)(nil)

// HandlerOptions tunes a Handler.
type HandlerOptions struct {
	// DecodeEntities turns character references (&amp;, &#233;, ...) into
	// the characters they name before escaping.
	DecodeEntities bool
	// Logger receives a debug record the first time each unknown tag is seen.
	// Nil disables logging.
	Logger *slog.Logger
}

// frame is one entry of the nesting stack.
type frame struct {
	tag         string
	rule        Rule
	transparent bool // unknown tag: dropped, content kept
}

// Handler turns tokenizer callbacks into Writer calls. A Handler serves a
// single conversion and must not be reused.
type Handler struct {
	registry *Registry
	writer   *Writer
	opts     HandlerOptions
	stack    []frame
	seen     map[string]bool
}

// NewHandler creates a Handler writing to w. A nil registry means
// DefaultRegistry.
func NewHandler(registry *Registry, w *Writer, opts HandlerOptions) *Handler {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Handler{
		registry: registry,
		writer:   w,
		opts:     opts,
		stack:    make([]frame, 0, 8),
	}
}

// Text escapes the run and appends it.
func (h *Handler) Text(tok tokenizer.Token) error {
	text := tok.Data
	if h.opts.DecodeEntities {
		text = html.UnescapeString(text)
	}
	h.writer.AppendText(Escape(text))
	return nil
}

// Open starts the construct mapped to the tag, or records a transparent frame
// for unknown tags.
func (h *Handler) Open(tok tokenizer.Token) error {
	rule, ok := h.registry.Lookup(tok.Data)
	if !ok {
		h.noteUnknown(tok)
		h.stack = append(h.stack, frame{tag: tok.Data, transparent: true})
		return nil
	}

	switch rule.Kind {
	case KindInline:
		h.writer.BeginInline(rule.Open)
	case KindEnvironment:
		h.writer.BeginEnvironment(rule.Environment)
	case KindListItem:
		h.writer.BeginListItem()
	}
	h.stack = append(h.stack, frame{tag: tok.Data, rule: rule})
	return nil
}

// Close pops the innermost frame, which must belong to the same tag.
func (h *Handler) Close(tok tokenizer.Token) error {
	if len(h.stack) == 0 {
		return &tokenizer.MarkupError{
			Kind:   tokenizer.ErrUnexpectedClose,
			Tag:    tok.Data,
			Offset: tok.Offset,
		}
	}

	top := h.stack[len(h.stack)-1]
	if !strings.EqualFold(top.tag, tok.Data) {
		return &tokenizer.MarkupError{
			Kind:   tokenizer.ErrMismatchedTag,
			Tag:    tok.Data,
			Open:   top.tag,
			Offset: tok.Offset,
		}
	}
	h.stack = h.stack[:len(h.stack)-1]

	if top.transparent {
		return nil
	}
	switch top.rule.Kind {
	case KindInline:
		h.writer.EndInline(top.rule.Close)
	case KindEnvironment:
		h.writer.EndEnvironment(top.rule.Environment)
	case KindListItem:
		h.writer.EndListItem()
	}
	return nil
}

// Finish fails if any tag is still open.
func (h *Handler) Finish(offset int) error {
	if len(h.stack) == 0 {
		return nil
	}
	top := h.stack[len(h.stack)-1]
	return &tokenizer.MarkupError{
		Kind:   tokenizer.ErrUnclosedTag,
		Tag:    top.tag,
		Offset: offset,
	}
}

// Depth returns the number of open tags.
func (h *Handler) Depth() int {
	return len(h.stack)
}

func (h *Handler) noteUnknown(tok tokenizer.Token) {
	if h.opts.Logger == nil {
		return
	}
	name := strings.ToLower(tok.Data)
	if h.seen == nil {
		h.seen = make(map[string]bool)
	}
	if h.seen[name] {
		return
	}
	h.seen[name] = true
	h.opts.Logger.Debug("unknown tag passed through", "tag", name, "offset", tok.Offset)
}
