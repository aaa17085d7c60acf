package tree

// Closed forms for navigating the implicit complete N-ary tree realised as a
// flat sequence of global indices.
//
// Positions are numbered breadth first across the whole tree, so the count
// of positions at depths strictly less than d (the "level index" of d) is
// the geometric sum
//
//	levelIndex(d) = (factor^d - 1) / (factor - 1)
//
// with factor = 2^dimensions. Everything else here is an inversion or a
// rearrangement of that sum. None of it needs the tree to be materialised,
// which is what lets a structure address depths whose node counts are far
// past 2^64.

// CalcDepth returns the depth containing the global index, inverting the
// level index sum:
//
//	depth = floor(log_factor(index*(factor-1) + 1))
//
// The logarithm is taken exactly, via the bit length of the operand, so the
// result is correct for indices of any size.
func CalcDepth(dimensions uint64, index Index) uint64 {
	factor := uint64(1) << dimensions
	v := index.MulUint64(factor - 1).AddUint64(1)
	// floor(log2(v)/d) == floor(floor(log2(v))/d) for integer d
	return (uint64(v.BitLen()) - 1) / dimensions
}

// CalcLevelIndex returns the count of tree positions at depths strictly
// less than depth, which is also the global index of the first position at
// depth.
func CalcLevelIndex(dimensions, depth uint64) Index {
	factor := uint64(1) << dimensions
	return BinaryPow(dimensions, depth).Sub(NewIndex(1)).Div(NewIndex(factor - 1))
}

// PointsAtDepth returns the total position count of a single full depth
// level: factor^depth.
func PointsAtDepth(dimensions, depth uint64) Index {
	return BinaryPow(dimensions, depth)
}

// BinaryPow returns (2^baseLog2)^exp as a single shift.
func BinaryPow(baseLog2, exp uint64) Index {
	return NewIndex(1).Lsh(uint(exp * baseLog2))
}
