// Package assets implements the legacy asset reconstructor:
// materializing a virtual/ or resources/ tree from the content-addressed
// object store for versions whose asset index predates the modern flat
// hash-named layout.
package assets

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/quasar/mclaunch/internal/manifest"
	"github.com/quasar/mclaunch/internal/mcerrors"
)

// Target computes the reconstruction directory for an asset index: empty
// string (meaning "skip reconstruction") unless map_to_resources or
// is_virtual is set.
func Target(gameDir, indexID string, idx manifest.AssetIndex) string {
	switch {
	case idx.MapToResources:
		return filepath.Join(gameDir, "resources")
	case idx.IsVirtual:
		return filepath.Join(gameDir, "assets", "virtual", indexID)
	default:
		return ""
	}
}

// Reconstruct copies every object named by idx into target, named by its
// logical path, skipping files whose SHA-1 already matches.
// Writes a ".lastused" RFC 3339 timestamp at the target root when done.
func Reconstruct(objectsDir, target string, idx manifest.AssetIndex) error {
	if target == "" {
		return nil
	}
	for logicalPath, obj := range idx.Objects {
		if err := reconstructOne(objectsDir, target, logicalPath, obj); err != nil {
			return &mcerrors.UnpackAssetsError{Path: logicalPath, Err: err}
		}
	}
	return os.WriteFile(filepath.Join(target, ".lastused"), []byte(time.Now().Format(time.RFC3339)), 0o644)
}

func reconstructOne(objectsDir, target, logicalPath string, obj manifest.AssetObject) error {
	hash := obj.Hash.String()
	src := filepath.Join(objectsDir, hash[:2], hash)
	dst := filepath.Join(target, filepath.FromSlash(logicalPath))

	if existing, ok, err := fileSha1(dst); err == nil && ok && existing == hash {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func fileSha1(path string) (string, bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", false, err
	}
	return hex.EncodeToString(h.Sum(nil)), true, nil
}
