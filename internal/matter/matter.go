// Package matter separates a document into YAML front matter, an excerpt
// and the body, keeping enough byte/line accounting that positions
// produced against the body can be rebased onto the original input.
package matter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when the front-matter block parses to anything
// other than a string-keyed mapping. Callers treat this as malformed input,
// not as a recoverable diagnostic.
var ErrNotMapping = errors.New("front matter must be a mapping")

const (
	delimiter = "---"
	// DefaultExcerptSeparator marks the end of the leading excerpt.
	DefaultExcerptSeparator = "<!--more-->"
)

// Options tune the split.
type Options struct {
	// ExcerptSeparator overrides DefaultExcerptSeparator when non-empty.
	ExcerptSeparator string
}

// Result of splitting one document.
type Result struct {
	// Content is the body with the front-matter block removed.
	Content string
	// Excerpt is the trimmed text before the excerpt separator, "" if none.
	Excerpt string
	// Data is the parsed mapping, nil when no front matter was present.
	Data map[string]any
	// BodyOffset is the byte offset of Content within the original input.
	BodyOffset uint32
	// BodyLines is the number of lines the front-matter block consumed.
	BodyLines uint32
}

// Parse splits contents into front matter and body. A document without a
// leading delimiter line passes through untouched. An unterminated block
// is treated as plain body text rather than rejected.
func Parse(contents string, opts Options) (Result, error) {
	res := Result{Content: contents}

	block, rest, consumed, ok := split(contents)
	if ok {
		var raw any
		if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
			return Result{}, fmt.Errorf("parse front matter: %w", err)
		}
		switch v := raw.(type) {
		case nil:
			// пустой блок — фронтматтера нет
		case map[string]any:
			res.Data = v
		default:
			return Result{}, ErrNotMapping
		}
		res.Content = rest
		res.BodyOffset = uint32(consumed)
		res.BodyLines = uint32(strings.Count(contents[:consumed], "\n"))
	}

	sep := opts.ExcerptSeparator
	if sep == "" {
		sep = DefaultExcerptSeparator
	}
	if idx := strings.Index(res.Content, sep); idx >= 0 {
		res.Excerpt = strings.TrimSpace(res.Content[:idx])
	}
	return res, nil
}

// split finds a leading front-matter block. consumed is the byte length of
// the delimiter lines plus block, i.e. the offset where the body starts.
func split(contents string) (block, rest string, consumed int, ok bool) {
	after, found := strings.CutPrefix(contents, delimiter+"\n")
	if !found {
		after, found = strings.CutPrefix(contents, delimiter+"\r\n")
	}
	if !found {
		return "", "", 0, false
	}
	open := len(contents) - len(after)

	// Ищем закрывающую строку "---" на отдельной строке.
	offset := 0
	for {
		idx := strings.Index(after[offset:], delimiter)
		if idx < 0 {
			return "", "", 0, false
		}
		at := offset + idx
		if at > 0 && after[at-1] != '\n' {
			offset = at + len(delimiter)
			continue
		}
		tail := after[at+len(delimiter):]
		if nl := lineBreakLen(tail); nl >= 0 {
			block = after[:at]
			consumed = open + at + len(delimiter) + nl
			return block, contents[consumed:], consumed, true
		}
		if tail == "" {
			// закрывающий разделитель в самом конце файла
			return after[:at], "", len(contents), true
		}
		offset = at + len(delimiter)
	}
}

// lineBreakLen returns the length of a leading newline sequence, or -1.
func lineBreakLen(s string) int {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		return 2
	case strings.HasPrefix(s, "\n"):
		return 1
	default:
		return -1
	}
}
