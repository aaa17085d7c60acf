package tree

import "math/bits"

func Log2(v uint64) uint64 {
	return uint64(bits.Len64(v) - 1)
}

// LogBaseFactor returns floor(log_factor(v)) for a power of two factor.
func LogBaseFactor(v, factor uint64) uint64 {
	return Log2(v) / Log2(factor)
}

// IsPowerOfFactor reports whether v is an exact power of factor, ie of the
// form 4^n for a quadtree factor or 8^n for an octree factor. Chunk
// capacities must satisfy this so that chunk boundaries land on tree level
// boundaries.
func IsPowerOfFactor(v, factor uint64) bool {
	if v == 0 {
		return false
	}
	return 1<<(LogBaseFactor(v, factor)*Log2(factor)) == v
}
