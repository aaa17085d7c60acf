package chunks

import "github.com/pointgrid/chunktree/tree"

// ChunkInfo locates a global point index within physical chunk storage. It
// is derived on demand from a structure and holds no state of its own;
// instances are cheap and ephemeral.
type ChunkInfo struct {
	// Depth is the tree depth containing the index.
	Depth uint64

	// ChunkID is the global index of the chunk's first point, and the basis
	// of the chunk's storage token.
	ChunkID tree.Index

	// ChunkOffset is the point's position within its chunk. It is bounded
	// by the chunk capacity and therefore machine width.
	ChunkOffset uint64

	// ChunkNum is the chunk's sequential ordinal across the whole tree,
	// counting every chunk at every shallower depth.
	ChunkNum uint64

	// PointsPerChunk is the capacity of this specific chunk, which varies
	// by depth once dynamic chunk growth is active.
	PointsPerChunk tree.Index
}

// chunkRegime names the two formula sets for chunk addressing. The regime
// is decided once per computation and the two paths never mix.
type chunkRegime int

const (
	// regimeFixed: every chunk holds basePointsPerChunk points, and chunk
	// numbers advance uniformly from the start of the cold region.
	regimeFixed chunkRegime = iota

	// regimeDynamic: past the sparse threshold the per-chunk capacity grows
	// by the tree factor each depth, keeping the chunk count per level
	// constant while node counts keep multiplying.
	regimeDynamic
)

func (s *Structure) regimeForLevel(levelIndex tree.Index) chunkRegime {
	if !s.dynamicChunks || levelIndex.Cmp(s.sparseIndexBegin) <= 0 {
		return regimeFixed
	}
	return regimeDynamic
}

// Info computes the forward mapping for a global index: its depth, chunk
// id, offset within the chunk, sequential chunk number and the capacity of
// that chunk.
//
// The index must address the chunked region, ie index >= ColdIndexBegin.
// Shallower positions live in the contiguous base store and have no chunk
// address.
func (s *Structure) Info(index tree.Index) ChunkInfo {
	depth := tree.CalcDepth(s.dimensions, index)
	levelIndex := tree.CalcLevelIndex(s.dimensions, depth)

	ci := ChunkInfo{Depth: depth}

	switch s.regimeForLevel(levelIndex) {
	case regimeFixed:
		ci.PointsPerChunk = tree.NewIndex(s.basePointsPerChunk)

		q, r := index.Sub(s.coldIndexBegin).DivMod(ci.PointsPerChunk)
		ci.ChunkNum = q.Uint64()
		ci.ChunkOffset = r.Uint64()
		ci.ChunkID = s.coldIndexBegin.Add(q.Mul(ci.PointsPerChunk))

	case regimeDynamic:
		// The chunk count per sparse depth is frozen at the threshold
		// level's count.
		sparseFirstSpan :=
			tree.PointsAtDepth(s.dimensions, s.sparseDepthBegin).Uint64()
		chunksPerSparseDepth := sparseFirstSpan / s.basePointsPerChunk
		sparseDepthCount := depth - s.sparseDepthBegin

		ci.PointsPerChunk = tree.NewIndex(s.basePointsPerChunk).
			Mul(tree.BinaryPow(s.dimensions, sparseDepthCount))

		// The global chunk number counts all chunks in strictly earlier
		// regions: the uniformly sized cold chunks, then one full sparse
		// level's worth per intervening depth.
		coldIndexSpan := s.sparseIndexBegin.Sub(s.coldIndexBegin)
		numColdChunks := coldIndexSpan.Div(tree.NewIndex(s.basePointsPerChunk))
		prevLevelsChunkCount := numColdChunks.
			AddUint64(chunksPerSparseDepth * sparseDepthCount)

		levelOffset := index.Sub(levelIndex)
		q, r := levelOffset.DivMod(ci.PointsPerChunk)

		ci.ChunkNum = prevLevelsChunkCount.Add(q).Uint64()
		ci.ChunkOffset = r.Uint64()
		ci.ChunkID = levelIndex.Add(q.Mul(ci.PointsPerChunk))
	}

	return ci
}
