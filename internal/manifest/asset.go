package manifest

import "github.com/quasar/mclaunch/internal/mcversion"

// AssetObject is one entry of an AssetIndex: a content-addressed file,
// optionally with a gzip-compressed sibling.
type AssetObject struct {
	Hash           mcversion.Sha1Sum  `json:"hash"`
	Size           int64              `json:"size"`
	CompressedHash *mcversion.Sha1Sum `json:"compressed_hash,omitempty"`
	CompressedSize int64              `json:"compressed_size,omitempty"`
}

// AssetIndex is the parsed form of an asset index document: a map from
// logical in-game path to content-addressed object, plus the two flags
// that govern legacy reconstruction.
type AssetIndex struct {
	Objects        map[string]AssetObject `json:"objects"`
	IsVirtual      bool                   `json:"virtual,omitempty"`
	MapToResources bool                   `json:"map_to_resources,omitempty"`
}
