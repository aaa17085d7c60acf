// Package builder drives chunk production: it fans one job per chunk out
// to a bounded worker pool, using the addressing engine only to compute
// identifiers and capacities before dispatch. Jobs are independent and
// order insensitive, so the pool needs no coordination beyond its
// concurrency bound.
package builder

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/pointgrid/chunktree/chunks"
	"github.com/pointgrid/chunktree/storage"
	"github.com/pointgrid/chunktree/tree"
)

// BuildFunc produces the point payload for one chunk. The capacity in
// info.PointsPerChunk should be used to size buffers up front; points is
// the count actually written.
type BuildFunc func(ctx context.Context, info chunks.ChunkInfo) (data []byte, points uint64, err error)

type Builder struct {
	Structure *chunks.Structure
	Store     storage.ObjectWriter
	DatasetID uuid.UUID
	Build     BuildFunc
	Log       zerolog.Logger

	// Workers bounds the concurrent build jobs; <= 0 means NumCPU.
	Workers int

	Metrics *Metrics
}

func (b *Builder) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}

// BuildRange builds chunks [firstNum, lastNum). Each chunk is addressed
// through the inverse mapping, built, framed with its header and written
// under its storage token.
func (b *Builder) BuildRange(ctx context.Context, firstNum, lastNum uint64) error {
	p := pool.New().WithMaxGoroutines(b.workers()).WithContext(ctx)

	for n := firstNum; n < lastNum; n++ {
		p.Go(func(ctx context.Context) error {
			return b.buildOne(ctx, n)
		})
	}

	err := p.Wait()
	if err != nil {
		return err
	}

	b.Log.Info().
		Uint64("first", firstNum).
		Uint64("last", lastNum).
		Msg("chunk range complete")
	return nil
}

// BuildDepth builds every chunk of one full depth level. The first chunk
// number of the level is the forward mapping of the level's first index.
func (b *Builder) BuildDepth(ctx context.Context, depth uint64) error {
	s := b.Structure
	first := s.Info(tree.CalcLevelIndex(s.Dimensions(), depth)).ChunkNum
	count := s.NumChunksAtDepth(depth)
	return b.BuildRange(ctx, first, first+count)
}

func (b *Builder) buildOne(ctx context.Context, chunkNum uint64) error {
	info := b.Structure.InfoFromNum(chunkNum)

	payload, points, err := b.Build(ctx, info)
	if err != nil {
		return fmt.Errorf("building chunk %d: %w", chunkNum, err)
	}

	header, err := chunks.NewHeader(b.Structure, info, points).MarshalBinary()
	if err != nil {
		return err
	}

	name := storage.ChunkPath(b.DatasetID, b.Structure, info)
	if err := b.Store.Put(ctx, name, append(header, payload...)); err != nil {
		return fmt.Errorf("writing chunk %d: %w", chunkNum, err)
	}

	if b.Metrics != nil {
		b.Metrics.ChunksBuilt.Inc()
		b.Metrics.PointsWritten.Add(float64(points))
	}
	b.Log.Debug().
		Uint64("chunkNum", chunkNum).
		Str("chunkId", info.ChunkID.String()).
		Uint64("points", points).
		Msg("chunk written")
	return nil
}
