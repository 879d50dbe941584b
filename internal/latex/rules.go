package latex

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of constructs a tag can map to.
type Kind int

// Rule kinds.
const (
	KindInline      Kind = iota + 1 // \cmd{...} wrapped tightly around content
	KindEnvironment                 // \begin{env} ... \end{env}
	KindListItem                    // \item inside the enclosing environment
)

// String returns the configuration spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindEnvironment:
		return "environment"
	case KindListItem:
		return "item"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "inline":
		return KindInline, nil
	case "environment":
		return KindEnvironment, nil
	case "item":
		return KindListItem, nil
	}
	return 0, fmt.Errorf("%w: %q (must be inline, environment, or item)", ErrInvalidRule, s)
}

// ErrInvalidRule is returned by NewRegistry for unusable rules.
var ErrInvalidRule = errors.New("invalid conversion rule")

// Rule describes how one HTML tag becomes LaTeX.
type Rule struct {
	Tag         string
	Kind        Kind
	Open        string // inline only
	Close       string // inline only
	Environment string // environment only
}

// Validate checks that the rule carries what its kind needs.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Tag) == "" {
		return fmt.Errorf("%w: empty tag name", ErrInvalidRule)
	}
	switch r.Kind {
	case KindInline:
		if r.Open == "" || r.Close == "" {
			return fmt.Errorf("%w: <%s>: inline rules need open and close text", ErrInvalidRule, r.Tag)
		}
	case KindEnvironment:
		if r.Environment == "" {
			return fmt.Errorf("%w: <%s>: environment rules need an environment name", ErrInvalidRule, r.Tag)
		}
	case KindListItem:
	default:
		return fmt.Errorf("%w: <%s>: unknown kind %v", ErrInvalidRule, r.Tag, r.Kind)
	}
	return nil
}

// DefaultRules is the built-in tag table.
var DefaultRules = []Rule{
	{Tag: "strong", Kind: KindInline, Open: `\textbf{`, Close: "}"},
	{Tag: "b", Kind: KindInline, Open: `\textbf{`, Close: "}"},
	{Tag: "u", Kind: KindInline, Open: `\underline{`, Close: "}"},
	{Tag: "i", Kind: KindInline, Open: `\textit{`, Close: "}"},
	{Tag: "em", Kind: KindInline, Open: `\textit{`, Close: "}"},
	{Tag: "ul", Kind: KindEnvironment, Environment: "itemize"},
	{Tag: "ol", Kind: KindEnvironment, Environment: "enumerate"},
	{Tag: "li", Kind: KindListItem},
}

// Registry resolves tag names to rules. It is immutable once built and safe
// for concurrent use.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns the default table extended by extra. An extra rule
// replaces a default rule with the same tag.
func NewRegistry(extra ...Rule) (*Registry, error) {
	r := &Registry{rules: make(map[string]Rule, len(DefaultRules)+len(extra))}
	for _, rule := range DefaultRules {
		r.rules[rule.Tag] = rule
	}
	for _, rule := range extra {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		rule.Tag = strings.ToLower(strings.TrimSpace(rule.Tag))
		r.rules[rule.Tag] = rule
	}
	return r, nil
}

var defaultRegistry, _ = NewRegistry()

// DefaultRegistry returns the registry holding DefaultRules only.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Lookup finds the rule for tag, ignoring case.
func (r *Registry) Lookup(tag string) (Rule, bool) {
	rule, ok := r.rules[strings.ToLower(tag)]
	return rule, ok
}

// Len returns the number of known tags.
func (r *Registry) Len() int {
	return len(r.rules)
}
