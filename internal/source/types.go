package source

type (
	// DocFlags encodes metadata about how a document was obtained.
	DocFlags uint8
)

const (
	// DocVirtual indicates the document was supplied from memory (stdin, test).
	DocVirtual DocFlags = 1 << iota
	DocHadBOM
)

// Document holds a single authoring-format input for one compilation call.
// Nothing in it survives the call; every compilation builds a fresh one.
type Document struct {
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   DocFlags
}

// LineCol represents a human-readable position in a document.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
