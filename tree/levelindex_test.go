package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The span of a single depth level must equal factor^depth for every depth,
// ie the level index sum and PointsAtDepth agree term by term. Depth 30 of
// an octree is well past the 64 bit range, which is the point.
func TestLevelIndexClosedForm(t *testing.T) {
	for _, dimensions := range []uint64{2, 3} {
		for depth := uint64(0); depth <= 30; depth++ {
			span := CalcLevelIndex(dimensions, depth+1).
				Sub(CalcLevelIndex(dimensions, depth))
			assert.True(t, span.Equal(PointsAtDepth(dimensions, depth)),
				"dimensions %d depth %d", dimensions, depth)
		}
	}
}

// CalcDepth must invert the level index sum exactly at both edges of every
// level: the first index of a depth maps to that depth, and the index just
// below it maps to the previous depth.
func TestCalcDepthInvertsLevelIndex(t *testing.T) {
	for _, dimensions := range []uint64{2, 3} {
		for depth := uint64(1); depth <= 30; depth++ {
			first := CalcLevelIndex(dimensions, depth)
			assert.Equal(t, depth, CalcDepth(dimensions, first),
				"dimensions %d depth %d first index", dimensions, depth)
			assert.Equal(t, depth-1, CalcDepth(dimensions, first.Sub(NewIndex(1))),
				"dimensions %d depth %d last index of previous", dimensions, depth)
		}
	}
}

func TestCalcDepthSmallOctree(t *testing.T) {
	// Octree level indices: 0 | 1..8 | 9..72 | ...
	tests := []struct {
		index uint64
		depth uint64
	}{
		{index: 0, depth: 0},
		{index: 1, depth: 1},
		{index: 8, depth: 1},
		{index: 9, depth: 2},
		{index: 72, depth: 2},
		{index: 73, depth: 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.depth, CalcDepth(3, NewIndex(tt.index)), "index %d", tt.index)
	}
}

func TestIsPowerOfFactor(t *testing.T) {
	type args struct {
		v      uint64
		factor uint64
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{name: "4096 is 8^4", args: args{v: 4096, factor: 8}, want: true},
		{name: "100 is not a power of 8", args: args{v: 100, factor: 8}, want: false},
		{name: "512 is 8^3", args: args{v: 512, factor: 8}, want: true},
		{name: "2048 is 2^11 but not 8^n", args: args{v: 2048, factor: 8}, want: false},
		{name: "256 is 4^4", args: args{v: 256, factor: 4}, want: true},
		{name: "1 is factor^0", args: args{v: 1, factor: 8}, want: true},
		{name: "0 is nothing", args: args{v: 0, factor: 8}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPowerOfFactor(tt.args.v, tt.args.factor); got != tt.want {
				t.Errorf("IsPowerOfFactor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogBaseFactor(t *testing.T) {
	assert.Equal(t, uint64(4), LogBaseFactor(4096, 8))
	assert.Equal(t, uint64(4), LogBaseFactor(256, 4))
	assert.Equal(t, uint64(2), LogBaseFactor(100, 8))
}
