package mapper

import "github.com/uber/ensime-client/src/ensime/entity"

// PositionToOffset converts a 1-based row and 0-based column into an absolute
// character offset within the buffer. Each line contributes its length plus a
// newline. The server addresses file locations by offset, the editor by
// row/column, so every location-bearing request goes through this conversion.
func PositionToOffset(lines []string, pos entity.Position) int {
	offset := pos.Col
	for i := 0; i < pos.Row-1 && i < len(lines); i++ {
		offset += len(lines[i]) + 1
	}
	return offset
}

// RangeToOffsets converts a begin/end position pair into an offset range.
func RangeToOffsets(lines []string, beg, end entity.Position) (int, int) {
	return PositionToOffset(lines, beg), PositionToOffset(lines, end)
}

// OffsetToPosition is the inverse of PositionToOffset: it converts an absolute
// character offset into a row and column. Offsets past the end of the buffer
// clamp to the last line.
func OffsetToPosition(lines []string, offset int) entity.Position {
	if offset < 0 {
		offset = 0
	}
	for i, line := range lines {
		if offset <= len(line) || i == len(lines)-1 {
			if offset > len(line) {
				offset = len(line)
			}
			return entity.Position{Row: i + 1, Col: offset}
		}
		offset -= len(line) + 1
	}
	return entity.Position{Row: 1, Col: 0}
}
