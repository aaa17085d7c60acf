// Package hierarchy holds the consumer-side traversal logic that rides on
// top of the addressing engine: the per-position node count documents an
// indexing run emits, and the walk that decides which positions become
// build jobs and which split into externally linked subtrees.
package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
)

// Key names a tree position by depth and grid coordinate. Its string form
// "d-x-y-z" is the token used in node count documents and derived object
// names. Quadtree positions keep z at zero.
type Key struct {
	D uint64
	X uint64
	Y uint64
	Z uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", k.D, k.X, k.Y, k.Z)
}

func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("invalid position key %q", s)
	}
	var v [4]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("invalid position key %q: %w", s, err)
		}
		v[i] = n
	}
	return Key{D: v[0], X: v[1], Y: v[2], Z: v[3]}, nil
}

// Step returns the child position in the given direction. Directions are
// the child ordinal 0..factor-1 with x in bit 0, y in bit 1 and, for
// octrees, z in bit 2.
func (k Key) Step(dimensions, dir uint64) Key {
	child := Key{
		D: k.D + 1,
		X: k.X<<1 | dir&1,
		Y: k.Y<<1 | (dir>>1)&1,
		Z: k.Z,
	}
	if dimensions == 3 {
		child.Z = k.Z<<1 | (dir>>2)&1
	}
	return child
}
