package chunks

import (
	"fmt"
	"math"

	"github.com/pointgrid/chunktree/tree"
)

// sparseDepthBumpRatio is the margin applied when the sparse depth is
// derived from a point count hint rather than given explicitly. It
// anticipates uneven point density, deferring the switch to dynamic
// chunking so that a dense region does not hit the growing chunk sizes
// early. The constant and its double-ceiling application are load bearing
// for compatibility with existing datasets and must not be retuned.
const sparseDepthBumpRatio = 1.15

// Structure is the immutable partitioning policy for one dataset: where in
// the implicit complete tree persisted data begins, where chunked ("cold")
// storage begins and ends, and where dynamic chunk growth takes over.
//
// A structure is constructed once, from a Config, before an indexing run
// starts. All fields are derived in the constructor and never mutated, so
// any number of goroutines may compute chunk addresses against a shared
// structure without synchronisation.
//
// Depth ranges are half open and strictly ordered:
//
//	0 <= nullDepthEnd <= baseDepthEnd <= coldDepthBegin <= sparseDepthBegin
//
// Each depth boundary has a level-index twin derived through
// tree.CalcLevelIndex; the two are never set independently.
type Structure struct {
	nullDepthEnd     uint64
	baseDepthBegin   uint64
	baseDepthEnd     uint64
	coldDepthBegin   uint64
	coldDepthEnd     uint64
	sparseDepthBegin uint64
	startDepth       uint64

	nullIndexEnd     tree.Index
	baseIndexBegin   tree.Index
	baseIndexEnd     tree.Index
	coldIndexBegin   tree.Index
	coldIndexEnd     tree.Index
	sparseIndexBegin tree.Index

	tubular       bool
	dynamicChunks bool
	prefixIDs     bool

	dimensions    uint64
	factor        uint64
	numPointsHint uint64

	basePointsPerChunk uint64
	nominalChunkDepth  uint64
	nominalChunkIndex  uint64
	maxChunksPerDepth  uint64
}

// NewStructure derives and validates a structure from its configuration
// document. Validation failures are fatal to the caller: no partial
// structure is returned.
func NewStructure(cfg Config) (*Structure, error) {
	if cfg.Dimensions != 2 && cfg.Dimensions != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimensions, cfg.Dimensions)
	}

	s := &Structure{
		tubular:            cfg.Tubular,
		dynamicChunks:      cfg.DynamicChunks,
		prefixIDs:          cfg.PrefixIDs,
		dimensions:         cfg.Dimensions,
		factor:             1 << cfg.Dimensions,
		numPointsHint:      cfg.NumPointsHint,
		basePointsPerChunk: cfg.PointsPerChunk,
		startDepth:         cfg.StartDepth,
	}

	// Depth boundaries first, each clamped to be >= the previous so the
	// ranges are monotone whatever the document says.
	s.nullDepthEnd = cfg.NullDepth
	s.baseDepthBegin = s.nullDepthEnd
	s.baseDepthEnd = max(s.baseDepthBegin, cfg.BaseDepth)
	s.coldDepthBegin = s.baseDepthEnd
	if cfg.ColdDepth != 0 {
		s.coldDepthEnd = max(s.coldDepthBegin, cfg.ColdDepth)
	}
	s.sparseDepthBegin = max(cfg.SparseDepth, s.coldDepthBegin)

	if s.baseDepthEnd < 4 {
		return nil, fmt.Errorf("%w: base depth %d", ErrInvalidBaseDepth, s.baseDepthEnd)
	}
	if s.basePointsPerChunk == 0 && s.HasCold() {
		return nil, ErrMissingChunkSize
	}
	if s.HasCold() && !tree.IsPowerOfFactor(s.basePointsPerChunk, s.factor) {
		return nil, fmt.Errorf("%w: got %d", ErrMisalignedChunkSize, s.basePointsPerChunk)
	}

	if s.numPointsHint != 0 {
		// An explicitly supplied sparse depth is kept verbatim; otherwise a
		// candidate is derived from the hint and inflated by the bump
		// ratio, ceiling on both sides of the multiply.
		if cfg.SparseDepth == 0 {
			s.sparseDepthBegin = ceilLogFactor(s.numPointsHint, s.factor)
			s.sparseDepthBegin = max(s.sparseDepthBegin, s.coldDepthBegin)
			s.sparseDepthBegin = uint64(math.Ceil(
				float64(s.sparseDepthBegin) * sparseDepthBumpRatio))
		}
	}

	// Level-index boundaries are always the CalcLevelIndex image of the
	// depth boundaries above.
	s.nullIndexEnd = tree.CalcLevelIndex(s.dimensions, s.nullDepthEnd)
	s.baseIndexBegin = s.nullIndexEnd
	s.baseIndexEnd = tree.CalcLevelIndex(s.dimensions, s.baseDepthEnd)
	s.coldIndexBegin = s.baseIndexEnd
	if s.coldDepthEnd != 0 {
		s.coldIndexEnd = tree.CalcLevelIndex(s.dimensions, s.coldDepthEnd)
	}
	s.sparseIndexBegin = tree.CalcLevelIndex(s.dimensions, s.sparseDepthBegin)

	if s.basePointsPerChunk != 0 {
		s.nominalChunkDepth = tree.LogBaseFactor(s.basePointsPerChunk, s.factor)
		s.nominalChunkIndex =
			tree.CalcLevelIndex(s.dimensions, s.nominalChunkDepth).Uint64()
	}

	if s.numPointsHint != 0 && s.sparseDepthBegin != 0 {
		s.maxChunksPerDepth = 1
		for i := s.nominalChunkDepth; i < s.sparseDepthBegin; i++ {
			s.maxChunksPerDepth *= s.factor
		}
	}

	return s, nil
}

// ceilLogFactor returns ceil(log_factor(v)), the smallest depth whose full
// level holds at least v positions, computed exactly.
func ceilLogFactor(v, factor uint64) uint64 {
	if v <= 1 {
		return 0
	}
	return tree.LogBaseFactor(v-1, factor) + 1
}

func (s *Structure) NullDepthEnd() uint64     { return s.nullDepthEnd }
func (s *Structure) BaseDepthBegin() uint64   { return s.baseDepthBegin }
func (s *Structure) BaseDepthEnd() uint64     { return s.baseDepthEnd }
func (s *Structure) ColdDepthBegin() uint64   { return s.coldDepthBegin }
func (s *Structure) ColdDepthEnd() uint64     { return s.coldDepthEnd }
func (s *Structure) SparseDepthBegin() uint64 { return s.sparseDepthBegin }
func (s *Structure) StartDepth() uint64       { return s.startDepth }

func (s *Structure) NullIndexEnd() tree.Index     { return s.nullIndexEnd }
func (s *Structure) BaseIndexBegin() tree.Index   { return s.baseIndexBegin }
func (s *Structure) BaseIndexEnd() tree.Index     { return s.baseIndexEnd }
func (s *Structure) ColdIndexBegin() tree.Index   { return s.coldIndexBegin }
func (s *Structure) ColdIndexEnd() tree.Index     { return s.coldIndexEnd }
func (s *Structure) SparseIndexBegin() tree.Index { return s.sparseIndexBegin }

func (s *Structure) Tubular() bool       { return s.tubular }
func (s *Structure) DynamicChunks() bool { return s.dynamicChunks }
func (s *Structure) PrefixIDs() bool     { return s.prefixIDs }

func (s *Structure) Dimensions() uint64    { return s.dimensions }
func (s *Structure) Factor() uint64        { return s.factor }
func (s *Structure) NumPointsHint() uint64 { return s.numPointsHint }

func (s *Structure) BasePointsPerChunk() uint64 { return s.basePointsPerChunk }
func (s *Structure) NominalChunkDepth() uint64  { return s.nominalChunkDepth }
func (s *Structure) NominalChunkIndex() uint64  { return s.nominalChunkIndex }
func (s *Structure) MaxChunksPerDepth() uint64  { return s.maxChunksPerDepth }

// HasCold reports whether a chunked storage region exists. A zero cold
// depth end means the region is unbounded below.
func (s *Structure) HasCold() bool {
	return s.coldDepthEnd == 0 || s.coldDepthEnd > s.coldDepthBegin
}

// HasSparse reports whether a sparse threshold applies.
func (s *Structure) HasSparse() bool {
	return s.sparseDepthBegin != 0
}

// Config re-emits the configuration document. Decoding the result
// reconstructs an equivalent structure: the emitted sparseDepth is the
// derived sparseDepthBegin, so the hint-based derivation is not re-run on
// top of its own output in a way that could drift.
func (s *Structure) Config() Config {
	return Config{
		NullDepth:      s.nullDepthEnd,
		BaseDepth:      s.baseDepthEnd,
		ColdDepth:      s.coldDepthEnd,
		SparseDepth:    s.sparseDepthBegin,
		PointsPerChunk: s.basePointsPerChunk,
		Dimensions:     s.dimensions,
		NumPointsHint:  s.numPointsHint,
		Tubular:        s.tubular,
		DynamicChunks:  s.dynamicChunks,
		PrefixIDs:      s.prefixIDs,
		StartDepth:     s.startDepth,
	}
}

// NumChunksAtDepth returns the count of chunks spanning one full depth
// level. In the uniform regime the count grows with the level's node count;
// past the sparse threshold it is frozen at the threshold level's count,
// which is what bounds the file population of a deep tree.
//
// The structure must have a chunked region (HasCold), since the count is
// taken against the base chunk capacity.
func (s *Structure) NumChunksAtDepth(depth uint64) uint64 {
	if !s.HasSparse() || !s.dynamicChunks || depth <= s.sparseDepthBegin {
		depthSpan := tree.CalcLevelIndex(s.dimensions, depth+1).
			Sub(tree.CalcLevelIndex(s.dimensions, depth))
		return depthSpan.Div(tree.NewIndex(s.basePointsPerChunk)).Uint64()
	}

	sparseFirstSpan := tree.PointsAtDepth(s.dimensions, s.sparseDepthBegin)
	return sparseFirstSpan.Div(tree.NewIndex(s.basePointsPerChunk)).Uint64()
}

// PointsPerChunkAtDepth returns the capacity of any chunk at the given
// depth. Below the sparse threshold (or with dynamic chunking off) that is
// the base capacity; past it the capacity grows by the tree factor per
// depth, mirroring the node count growth it absorbs.
func (s *Structure) PointsPerChunkAtDepth(depth uint64) tree.Index {
	if !s.dynamicChunks || !s.HasSparse() || depth <= s.sparseDepthBegin {
		return tree.NewIndex(s.basePointsPerChunk)
	}
	return tree.NewIndex(s.basePointsPerChunk).
		Mul(tree.BinaryPow(s.dimensions, depth-s.sparseDepthBegin))
}

// InfoFromNum is the left inverse of the forward mapping's chunk number:
// for every chunk ever produced, the info reconstructed from its sequential
// number carries the same chunk id the forward mapping assigned.
func (s *Structure) InfoFromNum(chunkNum uint64) ChunkInfo {
	var chunkID tree.Index

	if s.HasCold() {
		if s.HasSparse() && s.dynamicChunks {
			// Chunks are uniformly sized through the end of the first
			// sparse level; count how many of those precede the dynamic
			// region.
			endFixed := tree.CalcLevelIndex(s.dimensions, s.sparseDepthBegin+1)
			fixedSpan := endFixed.Sub(s.coldIndexBegin)
			fixedNum := fixedSpan.Div(tree.NewIndex(s.basePointsPerChunk))

			if tree.NewIndex(chunkNum).Cmp(fixedNum) < 0 {
				chunkID = s.coldIndexBegin.
					Add(tree.NewIndex(chunkNum).MulUint64(s.basePointsPerChunk))
			} else {
				leftover := tree.NewIndex(chunkNum).Sub(fixedNum)

				// Every sparse depth holds the same number of chunks, so
				// the leftover ordinal splits into whole depths skipped
				// and a position within the target depth.
				chunksPerSparseDepth := s.NumChunksAtDepth(s.sparseDepthBegin)

				depth := s.sparseDepthBegin + 1 +
					leftover.Div(tree.NewIndex(chunksPerSparseDepth)).Uint64()
				chunkNumInDepth :=
					leftover.Mod(tree.NewIndex(chunksPerSparseDepth)).Uint64()

				depthIndexBegin := tree.CalcLevelIndex(s.dimensions, depth)
				depthChunkSize := tree.PointsAtDepth(s.dimensions, depth).
					Div(tree.NewIndex(chunksPerSparseDepth))

				chunkID = depthIndexBegin.
					Add(tree.NewIndex(chunkNumInDepth).Mul(depthChunkSize))
			}
		} else {
			chunkID = s.coldIndexBegin.
				Add(tree.NewIndex(chunkNum).MulUint64(s.basePointsPerChunk))
		}
	}

	return s.Info(chunkID)
}
