// Package position converts between byte offsets in Go strings and LSP
// positions, whose characters are counted in UTF-16 code units.
package position

import (
	"math"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Text indexes the line starts of a document
type Text struct {
	src    string
	starts []int
}

// NewText indexes src. Lines are separated by "\n"; a trailing "\r" stays
// part of its line.
func NewText(src string) *Text {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Text{src: src, starts: starts}
}

// String returns the indexed source
func (t *Text) String() string {
	return t.src
}

// LineCount returns the number of lines, counting an empty last line
func (t *Text) LineCount() int {
	return len(t.starts)
}

// Line returns line i without its newline, or "" when out of range
func (t *Text) Line(i int) string {
	if i < 0 || i >= len(t.starts) {
		return ""
	}
	end := len(t.src)
	if i+1 < len(t.starts) {
		end = t.starts[i+1] - 1
	}
	return t.src[t.starts[i]:end]
}

// LineStart returns the byte offset at which line i begins
func (t *Text) LineStart(i int) int {
	switch {
	case i <= 0:
		return 0
	case i >= len(t.starts):
		return len(t.src)
	}
	return t.starts[i]
}

// Position converts a line and byte column to an LSP position.
// Columns past the end of the line are clamped.
func (t *Text) Position(line, byteCol int) protocol.Position {
	if line < 0 {
		line = 0
	}
	return protocol.Position{
		Line:      clampUint32(line),
		Character: clampUint32(ByteOffsetToUTF16(t.Line(line), byteCol)),
	}
}

// Range converts a line and a byte column range on it to an LSP range
func (t *Text) Range(line, start, end int) protocol.Range {
	return protocol.Range{Start: t.Position(line, start), End: t.Position(line, end)}
}

// Locate converts an LSP position to a line and byte column
func (t *Text) Locate(pos protocol.Position) (line, byteCol int) {
	line = int(pos.Line)
	return line, UTF16ToByteOffset(t.Line(line), int(pos.Character))
}

// Offset converts an LSP position to an absolute byte offset, clamped to the text.
// A position past the last line maps to the end of the text.
func (t *Text) Offset(pos protocol.Position) int {
	if int(pos.Line) >= len(t.starts) {
		return len(t.src)
	}
	line, col := t.Locate(pos)
	return t.starts[line] + col
}

// End returns the position just past the last character
func (t *Text) End() protocol.Position {
	last := len(t.starts) - 1
	return t.Position(last, len(t.Line(last)))
}

// UTF16ToByteOffset converts a UTF-16 column in s to a byte offset. A column
// inside a surrogate pair clamps to the start of that rune; columns past the
// end clamp to len(s).
func UTF16ToByteOffset(s string, col int) int {
	units, off := 0, 0
	for off < len(s) && units < col {
		r, size := utf8.DecodeRuneInString(s[off:])
		n := 1
		if r != utf8.RuneError || size > 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		off += size
	}
	return off
}

// ByteOffsetToUTF16 converts a byte offset in s to a UTF-16 column.
// Offsets inside a multi-byte rune round down to its start.
func ByteOffsetToUTF16(s string, off int) int {
	if off > len(s) {
		off = len(s)
	}
	units := 0
	for i, r := range s {
		if i >= off {
			break
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		if i+size > off {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
			continue
		}
		units += utf16.RuneLen(r)
	}
	return units
}

// LengthUTF16 returns the length of s in UTF-16 code units
func LengthUTF16(s string) int {
	return ByteOffsetToUTF16(s, len(s))
}

// TrimCR drops a trailing carriage return, for CRLF documents
func TrimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}

func clampUint32(n int) uint32 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(n)
}
