package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/ensime-client/src/ensime/entity"
)

func TestPositionToOffset(t *testing.T) {
	lines := []string{"object Foo {", "  val x = 1", "}"}

	tests := []struct {
		name string
		pos  entity.Position
		want int
	}{
		{
			name: "start of buffer",
			pos:  entity.Position{Row: 1, Col: 0},
			want: 0,
		},
		{
			name: "mid first line",
			pos:  entity.Position{Row: 1, Col: 7},
			want: 7,
		},
		{
			name: "second line counts newline",
			pos:  entity.Position{Row: 2, Col: 6},
			want: 19,
		},
		{
			name: "row beyond buffer clamps to known lines",
			pos:  entity.Position{Row: 10, Col: 0},
			want: len("object Foo {") + 1 + len("  val x = 1") + 1 + len("}") + 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PositionToOffset(lines, tt.pos))
		})
	}
}

func TestOffsetToPosition(t *testing.T) {
	lines := []string{"object Foo {", "  val x = 1", "}"}

	tests := []struct {
		name   string
		offset int
		want   entity.Position
	}{
		{
			name:   "start of buffer",
			offset: 0,
			want:   entity.Position{Row: 1, Col: 0},
		},
		{
			name:   "mid first line",
			offset: 7,
			want:   entity.Position{Row: 1, Col: 7},
		},
		{
			name:   "second line past the newline",
			offset: 19,
			want:   entity.Position{Row: 2, Col: 6},
		},
		{
			name:   "offset beyond buffer clamps to last line",
			offset: 1000,
			want:   entity.Position{Row: 3, Col: 1},
		},
		{
			name:   "negative offset clamps to start",
			offset: -5,
			want:   entity.Position{Row: 1, Col: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OffsetToPosition(lines, tt.offset))
		})
	}
}

func TestRangeToOffsets(t *testing.T) {
	lines := []string{"ab", "cd"}
	from, to := RangeToOffsets(lines, entity.Position{Row: 1, Col: 1}, entity.Position{Row: 2, Col: 2})
	assert.Equal(t, 1, from)
	assert.Equal(t, 5, to)
}
