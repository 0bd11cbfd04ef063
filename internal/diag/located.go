package diag

// Located is a compiler message enriched with a navigable source location.
// Line is 1-based and zero when unknown; Col is 0-based and meaningful only
// when Line is known. LineText quotes the raw original document, never the
// compiled output.
type Located struct {
	Reason   string
	Severity Severity
	File     string
	Line     uint32
	Col      uint32
	Length   uint32
	LineText string
}

// IsError reports whether the diagnostic is fatal.
func (d Located) IsError() bool {
	return d.Severity == SevError
}
