package chunks

import "encoding/binary"

// Chunk objects carry a fixed 32 byte header ahead of the point data.
// Knowing only the header and the structure configuration, a reader can
// recover the chunk's full address (the chunk id follows from the chunk
// number via InfoFromNum), so objects remain self describing even when
// their storage names are rewritten.
//
// Header layout, all fields big endian:
//
//	.     | version | dims | flags | reserved | depth | chunk num | point count | reserved |
//	byte  | 0     1 |  2   |   3   |          | 4   7 | 8      15 | 16       23 | 24    31 |
//
// The value is always considered as a big endian integer, so shifting the
// version field produces headers that order after every earlier version.
const (
	HeaderSize = 32

	headerVersionFirstByte    = 0
	headerVersionEnd          = headerVersionFirstByte + 2
	headerDimensionsByte      = 2
	headerFlagsByte           = 3
	headerDepthFirstByte      = 4
	headerDepthEnd            = headerDepthFirstByte + 4
	headerChunkNumFirstByte   = headerDepthEnd
	headerChunkNumEnd         = headerChunkNumFirstByte + 8
	headerPointCountFirstByte = headerChunkNumEnd
	headerPointCountEnd       = headerPointCountFirstByte + 8

	HeaderCurrentVersion = uint16(0)
)

// Header flag bits.
const (
	HeaderFlagTubular = 1 << iota
	HeaderFlagDynamicChunks
	HeaderFlagPrefixIDs
)

// Header is the bookkeeping record written at the start of every chunk
// object.
type Header struct {
	Version    uint16
	Dimensions uint8
	Flags      uint8
	Depth      uint32
	ChunkNum   uint64
	PointCount uint64
}

// NewHeader builds the header for a chunk at the given address holding
// pointCount points.
func NewHeader(s *Structure, ci ChunkInfo, pointCount uint64) Header {
	var flags uint8
	if s.Tubular() {
		flags |= HeaderFlagTubular
	}
	if s.DynamicChunks() {
		flags |= HeaderFlagDynamicChunks
	}
	if s.PrefixIDs() {
		flags |= HeaderFlagPrefixIDs
	}
	return Header{
		Version:    HeaderCurrentVersion,
		Dimensions: uint8(s.Dimensions()),
		Flags:      flags,
		Depth:      uint32(ci.Depth),
		ChunkNum:   ci.ChunkNum,
		PointCount: pointCount,
	}
}

func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(b[headerVersionFirstByte:headerVersionEnd], h.Version)
	b[headerDimensionsByte] = h.Dimensions
	b[headerFlagsByte] = h.Flags
	binary.BigEndian.PutUint32(b[headerDepthFirstByte:headerDepthEnd], h.Depth)
	binary.BigEndian.PutUint64(b[headerChunkNumFirstByte:headerChunkNumEnd], h.ChunkNum)
	binary.BigEndian.PutUint64(b[headerPointCountFirstByte:headerPointCountEnd], h.PointCount)
	return b, nil
}

func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return ErrHeaderTooShort
	}
	h.Version = binary.BigEndian.Uint16(b[headerVersionFirstByte:headerVersionEnd])
	if h.Version > HeaderCurrentVersion {
		return ErrHeaderVersion
	}
	h.Dimensions = b[headerDimensionsByte]
	h.Flags = b[headerFlagsByte]
	h.Depth = binary.BigEndian.Uint32(b[headerDepthFirstByte:headerDepthEnd])
	h.ChunkNum = binary.BigEndian.Uint64(b[headerChunkNumFirstByte:headerChunkNumEnd])
	h.PointCount = binary.BigEndian.Uint64(b[headerPointCountFirstByte:headerPointCountEnd])
	return nil
}
