package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"mdxc/internal/literal"
)

// parseOptions reads colon-delimited key:value pairs out of a fence meta
// string. Tokens without a colon are not options; the parser skips them
// rather than rejecting the meta string.
func parseOptions(meta string) map[string]string {
	opts := make(map[string]string)
	for _, tok := range strings.Fields(meta) {
		key, value, found := strings.Cut(tok, ":")
		if !found || key == "" {
			continue
		}
		opts[key] = value
	}
	return opts
}

// parseFlags splits the meta string on whitespace into a flag set. Every
// token participates, including ones that also parse as options.
func parseFlags(meta string) map[string]bool {
	flags := make(map[string]bool)
	for _, tok := range strings.Fields(meta) {
		flags[tok] = true
	}
	return flags
}

// optionValues returns every value supplied for key, in meta-string order.
// A single token may carry several comma-separated values.
func optionValues(meta, key string) []string {
	var out []string
	for _, tok := range strings.Fields(meta) {
		k, value, found := strings.Cut(tok, ":")
		if !found || k != key {
			continue
		}
		for _, v := range strings.Split(value, ",") {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// parseEmphasis turns one emphasize value into a line range: the value is
// split on the first '-' or ':'; a bare number n yields (n, n).
func parseEmphasis(value string) (literal.Range, error) {
	sep := strings.IndexAny(value, "-:")
	if sep < 0 {
		n, err := strconv.Atoi(value)
		if err != nil {
			return literal.Range{}, fmt.Errorf("emphasize value %q: %w", value, err)
		}
		return literal.Range{From: n, To: n}, nil
	}
	from, err := strconv.Atoi(value[:sep])
	if err != nil {
		return literal.Range{}, fmt.Errorf("emphasize value %q: %w", value, err)
	}
	to, err := strconv.Atoi(value[sep+1:])
	if err != nil {
		return literal.Range{}, fmt.Errorf("emphasize value %q: %w", value, err)
	}
	return literal.Range{From: from, To: to}, nil
}
