package javart

import "github.com/quasar/mclaunch/internal/mcversion"

// manifestRef points at a platform/component's file-listing manifest.
type manifestRef struct {
	Sha1 mcversion.Sha1Sum `json:"sha1"`
	Size int64             `json:"size"`
	URL  string            `json:"url"`
}

// componentVersion names one candidate build of a runtime component.
type componentVersion struct {
	Name     string `json:"name"`
	Released string `json:"released"`
}

// RuntimeCandidate is one entry of a platform's component list: a specific
// build available for install; candidates are tried in listed order.
type RuntimeCandidate struct {
	Availability struct {
		Group    int `json:"group"`
		Progress int `json:"progress"`
	} `json:"availability"`
	Manifest manifestRef      `json:"manifest"`
	Version  componentVersion `json:"version"`
}

// Index is the parsed JRE index: platform string -> component name -> its
// ordered candidate builds.
type Index map[string]map[string][]RuntimeCandidate

// fileDownload is one of a file entry's "raw"/"lzma" download variants.
type fileDownload struct {
	Sha1 mcversion.Sha1Sum `json:"sha1"`
	Size int64             `json:"size"`
	URL  string            `json:"url"`
}

// fileEntryType is the closed set of entry kinds a runtime manifest names.
type fileEntryType string

const (
	fileEntryFile      fileEntryType = "file"
	fileEntryDirectory fileEntryType = "directory"
	fileEntryLink      fileEntryType = "link"
)

// fileEntry is one path's entry in a per-platform runtime manifest.
type fileEntry struct {
	Type       fileEntryType           `json:"type"`
	Executable bool                    `json:"executable,omitempty"`
	Downloads  map[string]fileDownload `json:"downloads,omitempty"`
	Target     string                  `json:"target,omitempty"`
}

// runtimeManifest is the per-platform file listing fetched from a
// RuntimeCandidate's Manifest.URL.
type runtimeManifest struct {
	Files map[string]fileEntry `json:"files"`
}
