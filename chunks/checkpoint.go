package chunks

// Checkpoint is the compact progress record persisted between batches of an
// indexing run. It carries enough to reconstruct the structure and resume
// chunk production where the previous run stopped; the chunk id of the next
// chunk follows computationally from LastChunkNum.
type Checkpoint struct {
	Config       Config `cbor:"config"`
	TotalPoints  uint64 `cbor:"totalPoints"`
	LastChunkNum uint64 `cbor:"lastChunkNum"`
}

func EncodeCheckpoint(codec CBORCodec, ck Checkpoint) ([]byte, error) {
	return codec.MarshalCBOR(&ck)
}

func DecodeCheckpoint(codec CBORCodec, data []byte) (Checkpoint, error) {
	var ck Checkpoint
	if err := codec.UnmarshalInto(data, &ck); err != nil {
		return Checkpoint{}, err
	}
	return ck, nil
}
