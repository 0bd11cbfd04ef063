package source

import (
	"testing"
)

func TestLineEnd_Terminators(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		start    uint32
		expected uint32
	}{
		{
			name:     "LF terminates line",
			content:  "abc\ndef",
			start:    0,
			expected: 3,
		},
		{
			name:     "CR terminates line",
			content:  "abc\rdef",
			start:    0,
			expected: 3,
		},
		{
			name:     "CRLF terminates at the CR",
			content:  "abc\r\ndef",
			start:    0,
			expected: 3,
		},
		{
			name:     "U+2028 line separator",
			content:  "abc\u2028def",
			start:    0,
			expected: 3,
		},
		{
			name:     "U+2029 paragraph separator",
			content:  "abc\u2029def",
			start:    0,
			expected: 3,
		},
		{
			name:     "no terminator runs to end of document",
			content:  "abcdef",
			start:    2,
			expected: 6,
		},
		{
			name:     "start past end clamps",
			content:  "abc",
			start:    10,
			expected: 3,
		},
		{
			name:     "start on terminator",
			content:  "ab\ncd",
			start:    2,
			expected: 2,
		},
		{
			name:     "second line",
			content:  "ab\ncd\nef",
			start:    3,
			expected: 5,
		},
		{
			name:     "empty document",
			content:  "",
			start:    0,
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineEnd([]byte(tt.content), tt.start)
			if got != tt.expected {
				t.Errorf("LineEnd(%q, %d) = %d, want %d", tt.content, tt.start, got, tt.expected)
			}
		})
	}
}

func TestLineBounds(t *testing.T) {
	content := []byte("first\nsecond\nthird")
	tests := []struct {
		name  string
		start uint32
		want  Span
	}{
		{name: "first line", start: 0, want: Span{Start: 0, End: 5}},
		{name: "second line", start: 6, want: Span{Start: 6, End: 12}},
		{name: "third line to EOF", start: 13, want: Span{Start: 13, End: 18}},
		{name: "past end", start: 99, want: Span{Start: 18, End: 18}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineBounds(content, tt.start)
			if got != tt.want {
				t.Errorf("LineBounds(%d) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nxyz")
	idx := buildLineIndex(content)
	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{name: "start of document", off: 0, want: LineCol{Line: 1, Col: 1}},
		{name: "middle of first line", off: 1, want: LineCol{Line: 1, Col: 2}},
		{name: "newline belongs to its line", off: 2, want: LineCol{Line: 1, Col: 3}},
		{name: "start of second line", off: 3, want: LineCol{Line: 2, Col: 1}},
		{name: "empty line", off: 6, want: LineCol{Line: 3, Col: 1}},
		{name: "last line", off: 8, want: LineCol{Line: 4, Col: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toLineCol(idx, tt.off)
			if got != tt.want {
				t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
		})
	}
}

func TestToLineCol_SingleLine(t *testing.T) {
	got := toLineCol(nil, 7)
	want := LineCol{Line: 1, Col: 8}
	if got != want {
		t.Errorf("toLineCol(nil, 7) = %+v, want %+v", got, want)
	}
}
