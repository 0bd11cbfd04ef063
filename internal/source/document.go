package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// New builds an in-memory Document and computes its line index.
func New(path string, content []byte, flags DocFlags) *Document {
	return &Document{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}
}

// Load reads a document from disk and strips a UTF-8 BOM if present.
// Line endings are kept as-is: diagnostics must quote the file verbatim.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, hadBOM := removeBOM(content)
	flags := DocFlags(0)
	if hadBOM {
		flags |= DocHadBOM
	}
	return New(path, content, flags), nil
}

// NewVirtual builds a document that did not come from disk (stdin, tests).
func NewVirtual(name string, content []byte) *Document {
	return New(name, content, DocVirtual)
}

// Len returns the document length in bytes as uint32.
func (d *Document) Len() uint32 {
	n, err := safecast.Conv[uint32](len(d.Content))
	if err != nil {
		panic(fmt.Errorf("document length overflow: %w", err))
	}
	return n
}

// LineColAt resolves a byte offset to a 1-based line/column pair.
func (d *Document) LineColAt(off uint32) LineCol {
	return toLineCol(d.LineIdx, off)
}

// Slice returns the document bytes covered by span, clipped to the document.
func (d *Document) Slice(s Span) []byte {
	s = s.Clip(d.Len())
	return d.Content[s.Start:s.End]
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
