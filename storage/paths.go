// Package storage defines how chunk addresses become object names, and the
// narrow store interfaces a backing implementation must satisfy. The
// addressing engine itself never touches a store; these are the seams its
// consumers hang real I/O on.
package storage

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pointgrid/chunktree/chunks"
)

const (
	// V1Prefix versions the whole naming schema. A change to token or
	// layout rules gets a new prefix rather than a migration.
	V1Prefix = "v1/datasets"

	V1PathSep = "/"

	V1ManifestName   = "manifest.json"
	V1CheckpointName = "checkpoint.cbor"

	V1HierarchyDocFmt = "%s.json"
)

// DatasetPrefix returns the object name prefix for one dataset's chunk
// objects: "v1/datasets/{uuid}/chunks/".
func DatasetPrefix(datasetID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/chunks/", V1Prefix, datasetID)
}

// HierarchyPrefix returns the prefix for the per-position node count
// documents: "v1/datasets/{uuid}/hierarchy/".
func HierarchyPrefix(datasetID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/hierarchy/", V1Prefix, datasetID)
}

// ChunkToken returns the storage token for a chunk: the decimal chunk id,
// depth prefixed as "{depth}-{id}" when the structure's PrefixIDs is set.
// The token is the chunk's on-disk name; since ids are decimal the depth
// prefix also namespaces levels for backends that sort lexically.
func ChunkToken(s *chunks.Structure, ci chunks.ChunkInfo) string {
	if s.PrefixIDs() {
		return fmt.Sprintf("%d-%s", ci.Depth, ci.ChunkID)
	}
	return ci.ChunkID.String()
}

// ChunkPath returns the full object name for a chunk within a dataset.
func ChunkPath(datasetID uuid.UUID, s *chunks.Structure, ci chunks.ChunkInfo) string {
	return DatasetPrefix(datasetID) + ChunkToken(s, ci)
}

// HierarchyDocPath returns the object name of the node count document
// rooted at the position with the given key token.
func HierarchyDocPath(datasetID uuid.UUID, keyToken string) string {
	return HierarchyPrefix(datasetID) + fmt.Sprintf(V1HierarchyDocFmt, keyToken)
}

// ManifestPath returns the object name of the dataset's configuration
// document.
func ManifestPath(datasetID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", V1Prefix, datasetID, V1ManifestName)
}

// CheckpointPath returns the object name of the dataset's resume record.
func CheckpointPath(datasetID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", V1Prefix, datasetID, V1CheckpointName)
}
