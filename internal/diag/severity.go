package diag

// Severity defines the importance of a located diagnostic.
type Severity uint8

const (
	// SevWarning is for advisory messages that do not fail a build.
	SevWarning Severity = iota
	// SevError is for fatal messages.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
