package chunks

import "errors"

// Construction errors are fatal to the indexing run. A structure that fails
// validation is never returned, there is no partially usable state and no
// silent fallback.
var (
	ErrInvalidBaseDepth    = errors.New("the base depth range must extend to at least depth 4")
	ErrMissingChunkSize    = errors.New("a cold depth range was requested but no points per chunk was given")
	ErrMisalignedChunkSize = errors.New("points per chunk must be a power of the tree factor: 4^n for a quadtree, 8^n for an octree")

	ErrInvalidDimensions = errors.New("dimensions must be 2 for a quadtree or 3 for an octree")
)

var (
	ErrHeaderTooShort = errors.New("the chunk header is shorter than the fixed header size")
	ErrHeaderVersion  = errors.New("the chunk header version is not recognised")
)
