package diag

// Point is one end of a compiler message location. Line and Column are
// 1-based; zero means the field was not populated. Offset is a byte offset
// into the document and is meaningful only when HasOffset is set (offset 0
// is a legal position).
type Point struct {
	Line      uint32
	Column    uint32
	Offset    uint32
	HasOffset bool
}

// Complete reports whether line, column and offset are all populated.
// Partial data is never assumed: either everything is known or nothing is.
func (p Point) Complete() bool {
	return p.HasOffset && p.Line > 0 && p.Column > 0
}

// At builds a fully-populated point.
func At(line, col, offset uint32) Point {
	return Point{Line: line, Column: col, Offset: offset, HasOffset: true}
}

// Message mirrors the compiler collaborator's raw message model: a reason,
// a fatal flag, and locations that expose only offsets and line/column
// pairs, never source text.
type Message struct {
	Reason string
	Fatal  bool
	Start  Point
	End    Point
}

// Rebase shifts a message produced against the document body onto the
// original document: byteDelta is the byte offset of the body, lineDelta
// the number of lines the front matter consumed. Columns are unaffected
// because the body always begins at the start of a line.
func (m Message) Rebase(byteDelta, lineDelta uint32) Message {
	m.Start = m.Start.rebase(byteDelta, lineDelta)
	m.End = m.End.rebase(byteDelta, lineDelta)
	return m
}

func (p Point) rebase(byteDelta, lineDelta uint32) Point {
	if p.HasOffset {
		p.Offset += byteDelta
	}
	if p.Line > 0 {
		p.Line += lineDelta
	}
	return p
}
