package source

import (
	"fmt"
)

// Span is a half-open byte range within a single document.
type Span struct {
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Clip bounds the span to the document length so slicing is always safe.
func (s Span) Clip(docLen uint32) Span {
	if s.Start > docLen {
		s.Start = docLen
	}
	if s.End > docLen {
		s.End = docLen
	}
	if s.End < s.Start {
		s.End = s.Start
	}
	return s
}

// ShiftRight moves the span forward by n bytes. Used to rebase positions
// produced against the body onto the original document.
func (s Span) ShiftRight(n uint32) Span {
	return Span{
		Start: s.Start + n,
		End:   s.End + n,
	}
}
