package chunks

import "encoding/json"

// Config is the persisted partitioning policy document. It is written once
// alongside a dataset and re-read verbatim on resume, so a decode followed
// by an encode must reconstruct an equivalent structure.
type Config struct {
	NullDepth      uint64 `json:"nullDepth"`
	BaseDepth      uint64 `json:"baseDepth"`
	ColdDepth      uint64 `json:"coldDepth"`
	SparseDepth    uint64 `json:"sparseDepth"`
	PointsPerChunk uint64 `json:"pointsPerChunk"`
	Dimensions     uint64 `json:"dimensions"`
	NumPointsHint  uint64 `json:"numPointsHint"`
	Tubular        bool   `json:"tubular"`
	DynamicChunks  bool   `json:"dynamicChunks"`
	PrefixIDs      bool   `json:"prefixIds"`
	StartDepth     uint64 `json:"startDepth,omitempty"`
}

// configDoc is the wire form of Config. Dimensions and tubular are decoded
// through pointers so that documents predating those fields can fall back to
// the legacy "type" field.
type configDoc struct {
	NullDepth      uint64  `json:"nullDepth"`
	BaseDepth      uint64  `json:"baseDepth"`
	ColdDepth      uint64  `json:"coldDepth"`
	SparseDepth    uint64  `json:"sparseDepth"`
	PointsPerChunk uint64  `json:"pointsPerChunk"`
	Dimensions     *uint64 `json:"dimensions"`
	NumPointsHint  uint64  `json:"numPointsHint"`
	Tubular        *bool   `json:"tubular"`
	Type           string  `json:"type"`
	DynamicChunks  bool    `json:"dynamicChunks"`
	PrefixIDs      bool    `json:"prefixIds"`
	StartDepth     uint64  `json:"startDepth"`
}

// DecodeConfig parses a configuration document, applying the legacy field
// fallback in one place so the numeric core never sees it: a missing
// "dimensions" is recovered from "type" ("octree" means 3, anything else 2),
// and a missing "tubular" is true only for the legacy "type" of "hybrid".
func DecodeConfig(data []byte) (Config, error) {
	var doc configDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, err
	}

	cfg := Config{
		NullDepth:      doc.NullDepth,
		BaseDepth:      doc.BaseDepth,
		ColdDepth:      doc.ColdDepth,
		SparseDepth:    doc.SparseDepth,
		PointsPerChunk: doc.PointsPerChunk,
		NumPointsHint:  doc.NumPointsHint,
		DynamicChunks:  doc.DynamicChunks,
		PrefixIDs:      doc.PrefixIDs,
		StartDepth:     doc.StartDepth,
	}

	if doc.Dimensions != nil {
		cfg.Dimensions = *doc.Dimensions
	} else if doc.Type == "octree" {
		cfg.Dimensions = 3
	} else {
		cfg.Dimensions = 2
	}

	if doc.Tubular != nil {
		cfg.Tubular = *doc.Tubular
	} else {
		cfg.Tubular = doc.Type == "hybrid"
	}

	return cfg, nil
}

// EncodeConfig renders the document form. startDepth is only emitted when
// nonzero.
func EncodeConfig(cfg Config) ([]byte, error) {
	return json.Marshal(cfg)
}
