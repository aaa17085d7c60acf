package chunks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointgrid/chunktree/tree"
)

// octreeUniform is an octree with an unbounded cold region and fixed 4096
// point chunks: the plainest chunked configuration.
func octreeUniform(t *testing.T) *Structure {
	t.Helper()
	s, err := NewStructure(Config{
		BaseDepth:      4,
		PointsPerChunk: 4096,
		Dimensions:     3,
	})
	require.NoError(t, err)
	return s
}

// octreeDynamic switches to growing chunks past depth 6.
func octreeDynamic(t *testing.T) *Structure {
	t.Helper()
	s, err := NewStructure(Config{
		BaseDepth:      4,
		SparseDepth:    6,
		PointsPerChunk: 4096,
		Dimensions:     3,
		DynamicChunks:  true,
	})
	require.NoError(t, err)
	return s
}

func TestNewStructureRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{
			name: "base depth below 4",
			cfg:  Config{BaseDepth: 3, PointsPerChunk: 4096, Dimensions: 3},
			err:  ErrInvalidBaseDepth,
		},
		{
			name: "cold range with no chunk size",
			cfg:  Config{BaseDepth: 4, ColdDepth: 8, Dimensions: 3},
			err:  ErrMissingChunkSize,
		},
		{
			name: "chunk size not a power of the octree factor",
			cfg:  Config{BaseDepth: 4, PointsPerChunk: 100, Dimensions: 3},
			err:  ErrMisalignedChunkSize,
		},
		{
			name: "chunk size not a power of the quadtree factor",
			cfg:  Config{BaseDepth: 4, PointsPerChunk: 512, Dimensions: 2},
			err:  ErrMisalignedChunkSize,
		},
		{
			name: "dimensions out of range",
			cfg:  Config{BaseDepth: 4, PointsPerChunk: 4096, Dimensions: 4},
			err:  ErrInvalidDimensions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStructure(tt.cfg)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestStructureDepthMonotonicity(t *testing.T) {
	cfgs := []Config{
		{BaseDepth: 4, PointsPerChunk: 4096, Dimensions: 3},
		{NullDepth: 2, BaseDepth: 6, ColdDepth: 10, SparseDepth: 8, PointsPerChunk: 512, Dimensions: 3},
		{BaseDepth: 5, SparseDepth: 9, PointsPerChunk: 256, Dimensions: 2, DynamicChunks: true},
		{BaseDepth: 4, PointsPerChunk: 4096, Dimensions: 3, NumPointsHint: 1_000_000_000, DynamicChunks: true},
	}
	for _, cfg := range cfgs {
		s, err := NewStructure(cfg)
		require.NoError(t, err)
		assert.LessOrEqual(t, s.NullDepthEnd(), s.BaseDepthEnd())
		assert.LessOrEqual(t, s.BaseDepthEnd(), s.ColdDepthBegin())
		assert.LessOrEqual(t, s.ColdDepthBegin(), s.SparseDepthBegin())
		if s.ColdDepthEnd() != 0 {
			assert.LessOrEqual(t, s.ColdDepthBegin(), s.ColdDepthEnd())
		}

		// The level index boundaries must be the CalcLevelIndex image of
		// the depth boundaries, never set independently.
		assert.True(t, s.ColdIndexBegin().Equal(
			tree.CalcLevelIndex(s.Dimensions(), s.ColdDepthBegin())))
		assert.True(t, s.SparseIndexBegin().Equal(
			tree.CalcLevelIndex(s.Dimensions(), s.SparseDepthBegin())))
	}
}

// With 4096 = 8^4 point chunks the cold region packs one chunk at depth 4,
// eight at depth 5 and sixty four at depth 6. The second index of depth 6
// therefore lands at offset 1 of the tenth chunk overall.
func TestInfoUniformOctree(t *testing.T) {
	s := octreeUniform(t)

	assert.Equal(t, uint64(585), s.ColdIndexBegin().Uint64())
	assert.Equal(t, uint64(4), s.NominalChunkDepth())

	index := tree.CalcLevelIndex(3, 6).AddUint64(1)
	info := s.Info(index)

	assert.Equal(t, uint64(6), info.Depth)
	assert.Equal(t, uint64(1), info.ChunkOffset)
	assert.Equal(t, uint64(9), info.ChunkNum)
	assert.True(t, info.ChunkID.Equal(tree.CalcLevelIndex(3, 6)))
	assert.Equal(t, uint64(4096), info.PointsPerChunk.Uint64())

	// First index of the cold region: chunk zero, offset zero.
	first := s.Info(s.ColdIndexBegin())
	assert.Equal(t, uint64(4), first.Depth)
	assert.Equal(t, uint64(0), first.ChunkNum)
	assert.Equal(t, uint64(0), first.ChunkOffset)
	assert.True(t, first.ChunkID.Equal(s.ColdIndexBegin()))
}

func TestNumChunksAtDepthUniform(t *testing.T) {
	s := octreeUniform(t)
	// With dynamic chunking off, every level holds factor^depth / base
	// chunks, exactly, since base is a power of the factor.
	for depth := uint64(4); depth <= 12; depth++ {
		want := tree.PointsAtDepth(3, depth).Div(tree.NewIndex(4096)).Uint64()
		assert.Equal(t, want, s.NumChunksAtDepth(depth), "depth %d", depth)
	}
	assert.Equal(t, uint64(1), s.NumChunksAtDepth(4))
	assert.Equal(t, uint64(8), s.NumChunksAtDepth(5))
}

func TestNumChunksAtDepthDynamicIsBounded(t *testing.T) {
	s := octreeDynamic(t)

	atSparse := s.NumChunksAtDepth(s.SparseDepthBegin())
	assert.Equal(t, uint64(64), atSparse)

	// Past the sparse threshold the per-level chunk count freezes while
	// capacities grow by the factor each depth.
	for depth := s.SparseDepthBegin() + 1; depth <= s.SparseDepthBegin()+6; depth++ {
		assert.Equal(t, atSparse, s.NumChunksAtDepth(depth), "depth %d", depth)

		ppc := s.PointsPerChunkAtDepth(depth)
		want := tree.NewIndex(4096).
			Mul(tree.BinaryPow(3, depth-s.SparseDepthBegin()))
		assert.True(t, ppc.Equal(want), "depth %d", depth)
	}
}

func TestInfoDynamicRegime(t *testing.T) {
	s := octreeDynamic(t)

	// Depth 6 is the sparse threshold level itself and still addresses
	// uniformly; 9 cold chunks precede it (1 + 8).
	atThreshold := s.Info(tree.CalcLevelIndex(3, 6))
	assert.Equal(t, uint64(9), atThreshold.ChunkNum)
	assert.Equal(t, uint64(4096), atThreshold.PointsPerChunk.Uint64())

	// The first index of depth 7 opens the dynamic region: 73 fixed
	// chunks precede it (9 cold + 64 across depth 6) and its chunk spans
	// 8x the base capacity.
	atSeven := s.Info(tree.CalcLevelIndex(3, 7))
	assert.Equal(t, uint64(7), atSeven.Depth)
	assert.Equal(t, uint64(73), atSeven.ChunkNum)
	assert.Equal(t, uint64(0), atSeven.ChunkOffset)
	assert.Equal(t, uint64(32768), atSeven.PointsPerChunk.Uint64())
	assert.True(t, atSeven.ChunkID.Equal(tree.CalcLevelIndex(3, 7)))

	// A point in the middle of depth 8: each depth 8 chunk spans 64x the
	// base capacity and depth 8 begins at global chunk number 137.
	index := tree.CalcLevelIndex(3, 8).AddUint64(3*262144 + 17)
	info := s.Info(index)
	assert.Equal(t, uint64(8), info.Depth)
	assert.Equal(t, uint64(137+3), info.ChunkNum)
	assert.Equal(t, uint64(17), info.ChunkOffset)
	assert.Equal(t, uint64(262144), info.PointsPerChunk.Uint64())
}

// InfoFromNum must be the exact left inverse of the forward mapping's
// chunk number for every chunk, across the fixed region, the boundary and
// several dynamic depths.
func TestInfoFromNumRoundTrip(t *testing.T) {
	s := octreeDynamic(t)

	// 73 fixed chunks, then 64 per sparse depth.
	totalChunks := uint64(73 + 64*3)
	for n := uint64(0); n < totalChunks; n++ {
		inv := s.InfoFromNum(n)
		fwd := s.Info(inv.ChunkID)
		require.Equal(t, n, fwd.ChunkNum, "chunk number %d", n)
		require.True(t, fwd.ChunkID.Equal(inv.ChunkID), "chunk number %d", n)
		require.Equal(t, uint64(0), fwd.ChunkOffset, "chunk number %d", n)
		require.True(t, fwd.PointsPerChunk.Equal(inv.PointsPerChunk), "chunk number %d", n)
	}
}

func TestInfoFromNumUniform(t *testing.T) {
	s := octreeUniform(t)
	for n := uint64(0); n < 100; n++ {
		inv := s.InfoFromNum(n)
		assert.Equal(t, n, inv.ChunkNum)
		assert.True(t, inv.ChunkID.Equal(
			s.ColdIndexBegin().AddUint64(n*4096)))
	}
}

func TestSparseDepthDerivation(t *testing.T) {
	// ceil(log8(1e9)) = 10, clamped to the cold begin, then bumped:
	// ceil(10 * 1.15) = 12.
	s, err := NewStructure(Config{
		BaseDepth:      4,
		PointsPerChunk: 4096,
		Dimensions:     3,
		NumPointsHint:  1_000_000_000,
		DynamicChunks:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), s.SparseDepthBegin())
	assert.True(t, s.SparseIndexBegin().Equal(tree.CalcLevelIndex(3, 12)))

	// maxChunksPerDepth covers nominal chunk depth 4 through the sparse
	// threshold: 8^(12-4).
	assert.Equal(t, uint64(16777216), s.MaxChunksPerDepth())

	// An explicit sparse depth is kept verbatim, hint or not.
	s, err = NewStructure(Config{
		BaseDepth:      4,
		SparseDepth:    9,
		PointsPerChunk: 4096,
		Dimensions:     3,
		NumPointsHint:  1_000_000_000,
		DynamicChunks:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.SparseDepthBegin())
}

func TestInfoConcurrentReads(t *testing.T) {
	// The structure is immutable after construction; hammer the forward
	// and inverse mappings from several goroutines to let the race
	// detector prove it.
	s := octreeDynamic(t)
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for n := uint64(0); n < 200; n++ {
				inv := s.InfoFromNum(n)
				fwd := s.Info(inv.ChunkID)
				if fwd.ChunkNum != n {
					t.Errorf("chunk number %d round tripped to %d", n, fwd.ChunkNum)
					return
				}
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
