// Package latex implements the LaTeX side of the HTML-to-LaTeX conversion.
//
// This package holds the stages that run behind the tokenizer:
//   - Escape: text-mode escaping of LaTeX-special characters
//   - Registry: the static tag table (inline commands, list environments, items)
//   - Writer: the output buffer with list-depth aware \item indentation
//   - Handler: the tokenizer callback that ties the three together and owns
//     the nesting stack
//
// Tokenizing is handled separately by internal/tokenizer. A Handler and a
// Writer serve exactly one conversion; the Registry is shared and read-only.
package latex
