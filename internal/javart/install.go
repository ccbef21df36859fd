package javart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/quasar/mclaunch/internal/download"
	"github.com/quasar/mclaunch/internal/logx"
	"github.com/quasar/mclaunch/internal/mcerrors"
	"github.com/quasar/mclaunch/internal/mcversion"
	"github.com/quasar/mclaunch/internal/progress"
	"github.com/quasar/mclaunch/internal/rules"
)

// Installer fetches Mojang's JRE index once and installs requested runtime
// components under RuntimesDir.
type Installer struct {
	Client      *http.Client
	IndexURL    string
	RuntimesDir string
	Concurrency int
	Reporter    progress.Reporter

	mu     sync.Mutex
	index  Index
	loaded bool
}

// NewInstaller builds an Installer against the given JRE index URL.
func NewInstaller(client *http.Client, indexURL, runtimesDir string) *Installer {
	return &Installer{
		Client:      client,
		IndexURL:    indexURL,
		RuntimesDir: runtimesDir,
		Concurrency: 16,
		Reporter:    progress.Empty{},
	}
}

// Install materializes component under RuntimesDir, returning the resolved
// java executable path.
func (in *Installer) Install(ctx context.Context, component string) (string, error) {
	idx, err := in.fetchIndex(ctx)
	if err != nil {
		return "", err
	}

	platform, base, err := platformStrings()
	if err != nil {
		return "", err
	}

	entries, ok := idx[platform]
	if !ok {
		entries, ok = idx[base]
		if !ok {
			return "", &mcerrors.UnsupportedOSError{Platform: platform}
		}
		platform = base
	}

	candidates, ok := entries[component]
	if !ok || len(candidates) == 0 {
		return "", &mcerrors.RuntimeNotFoundError{Component: component}
	}

	var lastErr error
	for _, candidate := range candidates {
		if err := in.installCandidate(ctx, component, platform, candidate); err != nil {
			logx.Warn("javart", "installing %s %s candidate %s failed: %v", component, platform, candidate.Version.Name, err)
			lastErr = err
			continue
		}
		return JavaExecutablePath(in.RuntimesDir, component, platform), nil
	}
	return "", &mcerrors.InstallFailureError{Component: component, LastErr: lastErr}
}

// fetchIndex fetches the JRE index once per Installer instance.
func (in *Installer) fetchIndex(ctx context.Context) (Index, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.loaded {
		return in.index, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, in.IndexURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := in.Client.Do(req)
	if err != nil {
		return nil, &mcerrors.DownloadError{URL: in.IndexURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &mcerrors.DownloadError{URL: in.IndexURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var idx Index
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return nil, fmt.Errorf("javart: decoding JRE index: %w", err)
	}
	in.index = idx
	in.loaded = true
	return idx, nil
}

// installCandidate fetches and verifies the candidate's manifest, downloads
// every file entry through a Job, then walks the manifest a second time to
// create directories and POSIX symlinks, finally stamping .version.
func (in *Installer) installCandidate(ctx context.Context, component, platform string, candidate RuntimeCandidate) error {
	manifest, err := in.fetchManifest(ctx, candidate.Manifest)
	if err != nil {
		return err
	}

	root := filepath.Join(in.RuntimesDir, component, platform)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	var items []download.Downloadable
	for relPath, entry := range manifest.Files {
		if entry.Type != fileEntryFile {
			continue
		}
		raw, ok := entry.Downloads["raw"]
		if !ok {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(relPath))
		compressedURL, compressedHash := "", ""
		if lzma, ok := entry.Downloads["lzma"]; ok {
			compressedURL, compressedHash = lzma.URL, lzma.Sha1.String()
		}
		items = append(items, download.NewRuntimeFile(raw.URL, target, raw.Sha1.String(), compressedURL, compressedHash, entry.Executable))
	}

	job := download.NewJob("Java runtime "+component, in.Client, items)
	if in.Concurrency > 0 {
		job.Concurrency = in.Concurrency
	}
	job.Reporter = in.Reporter
	if err := job.Start(ctx); err != nil {
		return err
	}

	for relPath, entry := range manifest.Files {
		dst := filepath.Join(root, filepath.FromSlash(relPath))
		switch entry.Type {
		case fileEntryDirectory:
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
		case fileEntryLink:
			if runtime.GOOS == "windows" {
				continue
			}
			os.Remove(dst)
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(entry.Target, dst); err != nil {
				return err
			}
		}
	}

	return os.WriteFile(filepath.Join(root, ".version"), []byte(candidate.Version.Name), 0o644)
}

func (in *Installer) fetchManifest(ctx context.Context, ref manifestRef) (runtimeManifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return runtimeManifest{}, err
	}
	resp, err := in.Client.Do(req)
	if err != nil {
		return runtimeManifest{}, &mcerrors.DownloadError{URL: ref.URL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return runtimeManifest{}, &mcerrors.DownloadError{URL: ref.URL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return runtimeManifest{}, err
	}
	if sum, err := mcversion.Sha1FromReader(bytes.NewReader(body)); err != nil || sum != ref.Sha1 {
		got := ""
		if err == nil {
			got = sum.String()
		}
		return runtimeManifest{}, &mcerrors.ChecksumMismatchError{Target: ref.URL, Expected: ref.Sha1.String(), Actual: got}
	}

	var m runtimeManifest
	if err := json.Unmarshal(body, &m); err != nil {
		return runtimeManifest{}, fmt.Errorf("javart: decoding runtime manifest: %w", err)
	}
	return m, nil
}

// platformStrings returns the arch-qualified and arch-omitted canonical
// platform strings for the current host.
func platformStrings() (qualified, base string, err error) {
	switch rules.CurrentOS() {
	case rules.OSLinux:
		base = "linux"
	case rules.OSWindows:
		base = "windows"
	case rules.OSOsx:
		base = "mac-os"
	default:
		return "", "", &mcerrors.UnsupportedOSError{Platform: runtime.GOOS}
	}

	switch rules.CurrentArch() {
	case "x64", "x86", "i386", "arm64":
		return base + "-" + rules.CurrentArch(), base, nil
	default:
		return base, base, nil
	}
}

// JavaExecutablePath computes the java executable path for component on
// platform.
func JavaExecutablePath(runtimesDir, component, platform string) string {
	root := filepath.Join(runtimesDir, component, platform)
	switch {
	case component == "minecraft-java-exe":
		return filepath.Join(root, "MinecraftJava.exe")
	case rules.CurrentOS() == rules.OSWindows:
		return filepath.Join(root, "bin", "javaw.exe")
	case rules.CurrentOS() == rules.OSOsx:
		return filepath.Join(root, "jre.bundle", "Contents", "Home", "bin", "java")
	default:
		return filepath.Join(root, "bin", "java")
	}
}
