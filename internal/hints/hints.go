// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"os"
	"strings"

	"github.com/alnah/go-html2latex/internal/fileutil"
	"github.com/alnah/go-html2latex/internal/tokenizer"
)

// DatabaseURLEnv is the environment variable read when no URL is configured.
const DatabaseURLEnv = "HTML2LATEX_DB_URL"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForDatabase returns hints for database connection errors.
// databaseURL is the URL that was tried (may be empty).
func ForDatabase(databaseURL string) string {
	var hints []string

	if databaseURL == "" && os.Getenv(DatabaseURLEnv) == "" {
		hints = append(hints, "pass --db-url or set "+DatabaseURLEnv+" (a .env file works)")
	}

	// Inside a container, localhost is the container itself.
	if IsInContainer() && (strings.Contains(databaseURL, "localhost") || strings.Contains(databaseURL, "127.0.0.1")) {
		hints = append(hints, "inside a container use the database service host name instead of localhost")
	}

	if len(hints) == 0 {
		hints = append(hints, "the query must return two text columns, e.g. select id::text, html from fragments")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-html2latex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-html2latex") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnknownEncoding lists common charset labels.
func ForUnknownEncoding() string {
	return format("use a WHATWG label such as utf-8, gbk, gb18030, big5 or shift_jis")
}

// ForMalformedMarkup returns a hint for the markup error kind found in err.
// Returns "" when err is not a markup error.
func ForMalformedMarkup(err error) string {
	switch {
	case errors.Is(err, tokenizer.ErrUnclosedTag):
		return format("every <tag> needs a matching </tag>; void elements such as <br> do not")
	case errors.Is(err, tokenizer.ErrMismatchedTag):
		return format("close inner tags first, e.g. <b><i>x</i></b>")
	case errors.Is(err, tokenizer.ErrUnexpectedClose):
		return format("remove the stray closing tag or add the missing opening tag")
	case errors.Is(err, tokenizer.ErrUnterminatedTag), errors.Is(err, tokenizer.ErrEmptyTagName):
		return format("write a literal '<' as &lt; and convert with --decode-entities")
	}
	return ""
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
