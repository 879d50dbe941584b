// Package tokenizer splits an HTML fragment into text, open-tag and close-tag
// tokens in a single left-to-right pass.
//
// The tokenizer does not build a tree and does not buffer tokens: every token
// is handed to a Handler as soon as its end is found. It only understands what
// a well-formed fragment needs. Attributes are skipped, comments and
// declarations are dropped, and void elements (<br>, <img>, ...) are reported
// as an open immediately followed by a close.
package tokenizer

import (
	"strings"
	"unicode"
)

// Kind identifies the token variant.
type Kind int

// Token kinds.
const (
	TokenText Kind = iota
	TokenOpen
	TokenClose
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenOpen:
		return "open"
	case TokenClose:
		return "close"
	default:
		return "unknown"
	}
}

// Token is a transient value passed to a Handler and never retained.
type Token struct {
	Kind   Kind
	Data   string // text run, or tag name as written
	Offset int    // byte offset of the token in the input
}

// Handler receives tokens in document order.
// Returning an error stops the scan; Parse returns that error unchanged.
type Handler interface {
	Text(tok Token) error
	Open(tok Token) error
	Close(tok Token) error
	// Finish is called once after the last token, with offset = len(input).
	Finish(offset int) error
}

// Options tunes how text runs are delivered.
type Options struct {
	// KeepInterTagSpace delivers whitespace-only runs that sit between two
	// tags. By default they are dropped so that "<b>A</b> <u>B</u>" yields
	// adjacent inline commands.
	KeepInterTagSpace bool
}

// voidElements never have a closing tag in HTML.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoid reports whether name is an HTML void element (case-insensitive).
func IsVoid(name string) bool {
	return voidElements[strings.ToLower(name)]
}

// Parse scans input once and drives h. It returns a *MarkupError when a tag
// is never terminated or has no name, any error returned by h, or nil.
func Parse(input string, h Handler, opts Options) error {
	s := &scanner{input: input, h: h, opts: opts}
	return s.run()
}

type scanner struct {
	input    string
	h        Handler
	opts     Options
	afterTag bool // last token delivered was a tag
}

func (s *scanner) run() error {
	i := 0
	for i < len(s.input) {
		if s.input[i] != '<' {
			end := strings.IndexByte(s.input[i:], '<')
			if end == -1 {
				end = len(s.input)
			} else {
				end += i
			}
			if err := s.text(i, end); err != nil {
				return err
			}
			i = end
			continue
		}

		next, err := s.markup(i)
		if err != nil {
			return err
		}
		i = next
	}
	return s.h.Finish(len(s.input))
}

// text delivers input[start:end]. The run always ends at '<' or end of input.
func (s *scanner) text(start, end int) error {
	run := s.input[start:end]
	betweenTags := s.afterTag && end < len(s.input)
	if betweenTags && !s.opts.KeepInterTagSpace && isBlank(run) {
		return nil
	}
	s.afterTag = false
	return s.h.Text(Token{Kind: TokenText, Data: run, Offset: start})
}

// markup handles everything starting with '<' and returns the offset just
// past it.
func (s *scanner) markup(start int) (int, error) {
	rest := s.input[start:]

	switch {
	case strings.HasPrefix(rest, "<!--"):
		end := strings.Index(rest[4:], "-->")
		if end == -1 {
			return 0, &MarkupError{Kind: ErrUnterminatedTag, Tag: "!--", Offset: start}
		}
		return start + 4 + end + 3, nil
	case strings.HasPrefix(rest, "<!"), strings.HasPrefix(rest, "<?"):
		end := strings.IndexByte(rest, '>')
		if end == -1 {
			return 0, &MarkupError{Kind: ErrUnterminatedTag, Tag: rest[1:2], Offset: start}
		}
		return start + end + 1, nil
	}

	end := tagEnd(rest)
	if end == -1 {
		return 0, &MarkupError{Kind: ErrUnterminatedTag, Tag: tagName(rest[1:]), Offset: start}
	}
	inner := rest[1:end]
	next := start + end + 1
	s.afterTag = true

	if closing, ok := strings.CutPrefix(inner, "/"); ok {
		name := tagName(closing)
		if name == "" {
			return 0, &MarkupError{Kind: ErrEmptyTagName, Offset: start}
		}
		// </br> and friends: void elements were already closed on open.
		if IsVoid(name) {
			return next, nil
		}
		return next, s.h.Close(Token{Kind: TokenClose, Data: name, Offset: start})
	}

	name := tagName(inner)
	if name == "" {
		return 0, &MarkupError{Kind: ErrEmptyTagName, Offset: start}
	}
	if err := s.h.Open(Token{Kind: TokenOpen, Data: name, Offset: start}); err != nil {
		return 0, err
	}
	if strings.HasSuffix(inner, "/") || IsVoid(name) {
		if err := s.h.Close(Token{Kind: TokenClose, Data: name, Offset: start}); err != nil {
			return 0, err
		}
	}
	return next, nil
}

// tagEnd returns the index of the '>' closing the tag that starts rest[0],
// skipping quoted attribute values, or -1. A quote only opens a value when
// it is the first non-space byte after '='; elsewhere it is a plain byte.
func tagEnd(rest string) int {
	var quote, prev byte
	for i := 1; i < len(rest); i++ {
		c := rest[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case (c == '"' || c == '\'') && prev == '=':
			quote = c
		case c == '>':
			return i
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '\f' {
			prev = c
		}
	}
	return -1
}

// tagName returns the leading name of a tag body: everything up to
// whitespace, '/' or '>'.
func tagName(body string) string {
	end := strings.IndexFunc(body, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '>'
	})
	if end == -1 {
		return body
	}
	return body[:end]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
