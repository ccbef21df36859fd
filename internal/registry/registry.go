// Package registry implements the version registry: fetching
// the remote version index, installing a version's manifest by id, and
// resolving the full inheritance chain into a single merged manifest with
// cycle detection.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/quasar/mclaunch/internal/logx"
	"github.com/quasar/mclaunch/internal/manifest"
	"github.com/quasar/mclaunch/internal/mcerrors"
	"github.com/quasar/mclaunch/internal/mcversion"
)

// RemoteVersionInfo is one entry of the remote version index.
type RemoteVersionInfo struct {
	ID              string               `json:"id"`
	ReleaseType     manifest.ReleaseType `json:"type"`
	URL             string               `json:"url"`
	UpdatedTime     time.Time            `json:"time"`
	ReleaseTime     time.Time            `json:"releaseTime"`
	Sha1            mcversion.Sha1Sum    `json:"sha1"`
	ComplianceLevel int                  `json:"complianceLevel"`
}

// LatestVersions names the current release and snapshot ids.
type LatestVersions struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// RemoteVersionIndex is the parsed form of version_manifest_v2.json.
type RemoteVersionIndex struct {
	Latest   LatestVersions      `json:"latest"`
	Versions []RemoteVersionInfo `json:"versions"`
}

func (idx RemoteVersionIndex) find(id string) (RemoteVersionInfo, bool) {
	for _, v := range idx.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return RemoteVersionInfo{}, false
}

// Registry owns the remote version index, the local versions/ scan, and the
// in-process memoization of fully-merged manifests.
type Registry struct {
	client   *http.Client
	indexURL string
	gameDir  string

	mu            sync.Mutex
	remoteIndex   RemoteVersionIndex
	localVersions map[string]bool // version ids present under versions/

	resolveMu     sync.Mutex // single-writer discipline over resolvedCache
	resolvedCache map[string]manifest.VersionManifest
}

// New builds a Registry rooted at gameDir (the directory containing
// versions/, libraries/, assets/, …), fetching the remote index from
// indexURL.
func New(gameDir, indexURL string) *Registry {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 5
	return &Registry{
		client:        client.StandardClient(),
		indexURL:      indexURL,
		gameDir:       gameDir,
		localVersions: make(map[string]bool),
		resolvedCache: make(map[string]manifest.VersionManifest),
	}
}

// versionsDir is the versions/ root under gameDir.
func (r *Registry) versionsDir() string { return filepath.Join(r.gameDir, "versions") }

func (r *Registry) manifestPath(id string) string {
	return filepath.Join(r.versionsDir(), id, id+".json")
}

func (r *Registry) jarPath(id, jar string) string {
	return filepath.Join(r.versionsDir(), id, jar+".jar")
}

// Refresh fetches the remote index and rescans versions/ for locally
// installed manifests. Malformed or missing local manifests are logged and
// skipped, never fatal.
func (r *Registry) Refresh(ctx context.Context) error {
	idx, err := r.fetchRemoteIndex(ctx)
	if err != nil {
		return err
	}

	local := make(map[string]bool)
	entries, err := os.ReadDir(r.versionsDir())
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			id := entry.Name()
			path := r.manifestPath(id)
			data, err := os.ReadFile(path)
			if err != nil {
				logx.Warn("registry", "skipping %s: %v", id, err)
				continue
			}
			var m manifest.VersionManifest
			if err := json.Unmarshal(data, &m); err != nil {
				logx.Warn("registry", "malformed manifest %s: %v", path, err)
				continue
			}
			local[id] = true
		}
	}

	r.mu.Lock()
	r.remoteIndex = idx
	r.localVersions = local
	r.mu.Unlock()
	return nil
}

func (r *Registry) fetchRemoteIndex(ctx context.Context) (RemoteVersionIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.indexURL, nil)
	if err != nil {
		return RemoteVersionIndex{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return RemoteVersionIndex{}, fmt.Errorf("registry: fetching version index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return RemoteVersionIndex{}, fmt.Errorf("registry: version index returned status %d", resp.StatusCode)
	}
	var idx RemoteVersionIndex
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return RemoteVersionIndex{}, fmt.Errorf("registry: decoding version index: %w", err)
	}
	return idx, nil
}

// RemoteIndex returns the most recently fetched remote index.
func (r *Registry) RemoteIndex() RemoteVersionIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remoteIndex
}

// InstallVersionByID looks up id in the remote index, fetches its manifest,
// and writes it to versions/<id>/<id>.json. No hash check is performed on
// the manifest body itself; the index's sha1 is advisory.
func (r *Registry) InstallVersionByID(ctx context.Context, id string) (manifest.VersionManifest, error) {
	r.mu.Lock()
	idx := r.remoteIndex
	r.mu.Unlock()

	info, ok := idx.find(id)
	if !ok {
		return manifest.VersionManifest{}, &mcerrors.VersionNotFoundError{ID: id}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL, nil)
	if err != nil {
		return manifest.VersionManifest{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return manifest.VersionManifest{}, &mcerrors.DownloadError{URL: info.URL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return manifest.VersionManifest{}, &mcerrors.DownloadError{URL: info.URL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return manifest.VersionManifest{}, &mcerrors.DownloadError{URL: info.URL, Err: err}
	}

	path := r.manifestPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return manifest.VersionManifest{}, err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return manifest.VersionManifest{}, err
	}

	var m manifest.VersionManifest
	if err := json.Unmarshal(body, &m); err != nil {
		return manifest.VersionManifest{}, &mcerrors.ManifestParseError{Path: path, Err: err}
	}

	r.mu.Lock()
	r.localVersions[id] = true
	r.mu.Unlock()
	return m, nil
}

// ResolveLocalVersion returns the memoized merged manifest unless
// ignoreCache; otherwise it loads the local manifest (installing if
// absent), reinstalls when stale and updateIfNecessary is set, then fully
// resolves inheritance.
func (r *Registry) ResolveLocalVersion(ctx context.Context, id string, updateIfNecessary, ignoreCache bool) (manifest.VersionManifest, error) {
	r.resolveMu.Lock()
	defer r.resolveMu.Unlock()

	if !ignoreCache {
		if m, ok := r.resolvedCache[id]; ok {
			return m, nil
		}
	}

	m, err := r.loadOrInstall(ctx, id)
	if err != nil {
		return manifest.VersionManifest{}, err
	}

	if updateIfNecessary {
		uptodate, err := r.isUpToDate(id, m)
		if err != nil {
			return manifest.VersionManifest{}, err
		}
		if !uptodate {
			m, err = r.InstallVersionByID(ctx, id)
			if err != nil {
				return manifest.VersionManifest{}, err
			}
		}
	}

	resolved, err := r.resolveInheritance(ctx, m, nil)
	if err != nil {
		return manifest.VersionManifest{}, err
	}

	r.resolvedCache[id] = resolved
	return resolved, nil
}

func (r *Registry) loadOrInstall(ctx context.Context, id string) (manifest.VersionManifest, error) {
	data, err := os.ReadFile(r.manifestPath(id))
	if os.IsNotExist(err) {
		return r.InstallVersionByID(ctx, id)
	}
	if err != nil {
		return manifest.VersionManifest{}, err
	}
	var m manifest.VersionManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest.VersionManifest{}, &mcerrors.ManifestParseError{Path: r.manifestPath(id), Err: err}
	}
	return m, nil
}

// isUpToDate reports whether the remote's updated_time is no newer than the
// local manifest's, and every file hasAllFiles expects is present.
func (r *Registry) isUpToDate(id string, local manifest.VersionManifest) (bool, error) {
	r.mu.Lock()
	idx := r.remoteIndex
	r.mu.Unlock()

	info, ok := idx.find(id)
	if !ok {
		// No remote entry (e.g. offline, or a purely local manifest): treat
		// as up to date, files-permitting.
		return r.hasAllFiles(local), nil
	}
	if info.UpdatedTime.After(local.UpdatedTime) {
		return false, nil
	}
	return r.hasAllFiles(local), nil
}

// hasAllFiles checks the manifest's own jar is present on disk. Libraries
// and assets are verified lazily by the download engine at install time;
// this check governs only whether a *reinstall of the manifest itself* is
// warranted.
func (r *Registry) hasAllFiles(m manifest.VersionManifest) bool {
	if m.InheritsFrom != "" {
		// A child manifest's jar belongs to its ancestor; nothing to check
		// here until inheritance is resolved.
		return true
	}
	path := r.jarPath(m.ID, m.EffectiveJar())
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// resolveInheritance walks inherits_from, detecting cycles via the visited
// set, and folds parent into child via manifest.Merge.
func (r *Registry) resolveInheritance(ctx context.Context, child manifest.VersionManifest, visited []string) (manifest.VersionManifest, error) {
	if child.InheritsFrom == "" {
		return child, nil
	}
	for _, v := range visited {
		if v == child.ID {
			return manifest.VersionManifest{}, &mcerrors.CircularDependencyError{
				Trace:   append([]string{}, visited...),
				Problem: child.ID,
			}
		}
	}
	visited = append(visited, child.ID)

	parentID := child.InheritsFrom
	parent, err := r.loadOrInstall(ctx, parentID)
	if err != nil {
		return manifest.VersionManifest{}, err
	}
	if uptodate, err := r.isUpToDate(parentID, parent); err == nil && !uptodate {
		parent, err = r.InstallVersionByID(ctx, parentID)
		if err != nil {
			return manifest.VersionManifest{}, err
		}
	}

	resolvedParent, err := r.resolveInheritance(ctx, parent, visited)
	if err != nil {
		return manifest.VersionManifest{}, err
	}

	return manifest.Merge(resolvedParent, child), nil
}
