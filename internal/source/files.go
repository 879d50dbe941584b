// Package source loads HTML and Markdown fragments for batch conversion,
// either from files on disk or from a PostgreSQL query.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/alnah/go-html2latex"
)

// Sentinel errors for fragment sources.
var (
	ErrNoFragments      = errors.New("no input fragments found")
	ErrReadFragment     = errors.New("failed to read fragment")
	ErrUnknownEncoding  = errors.New("unknown input encoding")
	ErrFragmentTooLarge = errors.New("fragment exceeds maximum size")
	ErrDatabase         = errors.New("database source failed")
)

// MaxFragmentSize limits one decoded input (default 16MB).
var MaxFragmentSize int64 = 16 << 20

// Extensions recognized when walking a directory.
var (
	htmlExtensions     = []string{".html", ".htm"}
	markdownExtensions = []string{".md", ".markdown"}
)

// Reader decodes fragments from a fixed input charset.
// The zero value is not usable; create with NewReader.
type Reader struct {
	enc      encoding.Encoding
	markdown bool
}

// NewReader creates a Reader for the given WHATWG charset label
// ("" or "utf-8" for UTF-8). A byte order mark in the input always wins over
// the label. If markdown is set, every input is treated as Markdown;
// otherwise only .md/.markdown files are.
func NewReader(label string, markdown bool) (*Reader, error) {
	enc := encoding.Encoding(unicode.UTF8)
	if label != "" {
		var err error
		enc, err = htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
		}
	}
	return &Reader{enc: enc, markdown: markdown}, nil
}

// Read decodes src into a fragment with the given ID.
func (r *Reader) Read(id string, src io.Reader, format html2latex.Format) (html2latex.Fragment, error) {
	if r.markdown {
		format = html2latex.FormatMarkdown
	}

	decoded := transform.NewReader(src, unicode.BOMOverride(r.enc.NewDecoder()))
	data, err := io.ReadAll(io.LimitReader(decoded, MaxFragmentSize+1))
	if err != nil {
		return html2latex.Fragment{}, fmt.Errorf("%w: %s: %v", ErrReadFragment, id, err)
	}
	if int64(len(data)) > MaxFragmentSize {
		return html2latex.Fragment{}, fmt.Errorf("%w: %s (max %d bytes)", ErrFragmentTooLarge, id, MaxFragmentSize)
	}

	return html2latex.Fragment{ID: id, Content: string(data), Format: format}, nil
}

// ReadFile reads one file. The file path is the fragment ID.
func (r *Reader) ReadFile(path string) (html2latex.Fragment, error) {
	f, err := os.Open(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return html2latex.Fragment{}, fmt.Errorf("%w: %v", ErrReadFragment, err)
	}
	defer f.Close()

	return r.Read(path, f, FormatForPath(path))
}

// ReadFiles reads every path in order and stops at the first failure.
func (r *Reader) ReadFiles(paths []string) ([]html2latex.Fragment, error) {
	fragments := make([]html2latex.Fragment, 0, len(paths))
	for _, p := range paths {
		f, err := r.ReadFile(p)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

// FormatForPath picks the fragment format from the file extension.
func FormatForPath(path string) html2latex.Format {
	if hasExtension(path, markdownExtensions) {
		return html2latex.FormatMarkdown
	}
	return html2latex.FormatHTML
}

// Discover returns the input files under root, sorted by path.
// A regular file is returned as is, whatever its extension. Directories are
// walked recursively for .html, .htm, .md and .markdown files; hidden
// directories are skipped.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFragment, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExtension(path, htmlExtensions) || hasExtension(path, markdownExtensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", ErrReadFragment, root, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFragments, root)
	}

	sort.Strings(paths)
	return paths, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
