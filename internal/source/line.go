package source

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
)

// lineTerminators lists every sequence that ends a visible line:
// CR, LF (and therefore CRLF), and the Unicode line/paragraph separators.
const lineTerminators = "\r\n\u2028\u2029"

// LineEnd scans forward from start for the first line terminator and
// returns its byte offset. Absent any terminator the line runs to the end
// of the document. A start past the end of content clamps to the end.
func LineEnd(content []byte, start uint32) uint32 {
	n := contentLen(content)
	if start >= n {
		return n
	}
	idx := bytes.IndexAny(content[start:], lineTerminators)
	if idx < 0 {
		return n
	}
	off, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("line scan overflow: %w", err))
	}
	return start + off
}

// LineBounds returns the [start, end) span of the line beginning at start.
func LineBounds(content []byte, start uint32) Span {
	n := contentLen(content)
	if start > n {
		start = n
	}
	return Span{Start: start, End: LineEnd(content, start)}
}

func contentLen(content []byte) uint32 {
	n, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь документ - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: находим наибольший lineIdx[i] <= off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := lo // число переводов строки строго до off

	var startOff uint32
	if line == 0 {
		startOff = 0
	} else {
		startOff = lineIdx[line-1] + 1
	}

	return LineCol{Line: uint32(line) + 1, Col: off - startOff + 1}
}
