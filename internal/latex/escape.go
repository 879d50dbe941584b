package latex

import "strings"

// replacements maps LaTeX-special characters to their text-mode spelling.
// '&' is deliberately absent: it is emitted unchanged.
var replacements = map[byte]string{
	'#':  `\#`,
	'$':  `\$`,
	'%':  `\%`,
	'^':  `\textasciicircum`,
	'_':  `\_`,
	'{':  `\{`,
	'}':  `\}`,
	'~':  `\textasciitilde`,
	'\\': `$\backslash$`,
}

// Escape returns raw with every LaTeX-special character replaced, in a single
// pass so substituted text is never escaped again. Every special character is
// ASCII, so raw is walked byte by byte and any other byte, including invalid
// UTF-8, is copied unchanged.
func Escape(raw string) string {
	if !NeedsEscape(raw) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + len(raw)/4)
	for i := 0; i < len(raw); i++ {
		if rep, ok := replacements[raw[i]]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

// NeedsEscape reports whether raw contains any character Escape rewrites.
func NeedsEscape(raw string) bool {
	return strings.ContainsAny(raw, `#$%^_{}~\`)
}
