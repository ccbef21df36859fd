package download

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quasar/mclaunch/internal/manifest"
	"github.com/quasar/mclaunch/internal/rules"
)

// DefaultLibraryHost is used when a library has neither an explicit url nor
// per-OS downloads.
const DefaultLibraryHost = "https://libraries.minecraft.net/"

// LegacyJarHost is the S3 fallback for versions whose manifest lacks a
// downloads.client entry.
const LegacyJarHost = "https://s3.amazonaws.com/Minecraft.Download/versions/"

// LibraryJarPath computes the on-disk path a library's classpath jar is
// materialized at: the manifest-declared artifact path when present,
// otherwise the maven-coordinate-derived path. The launcher's classpath
// assembly and SelectLibraryDownloadable agree on this path so a completed
// download is always found at launch.
func LibraryJarPath(lib manifest.Library, librariesRoot string) string {
	if lib.Downloads != nil && lib.Downloads.Artifact != nil && lib.Downloads.Artifact.Path != "" {
		return filepath.Join(librariesRoot, filepath.FromSlash(lib.Downloads.Artifact.Path))
	}
	return filepath.Join(librariesRoot, filepath.FromSlash(lib.Name.Path()))
}

// SelectLibraryDownloadable implements the classpath-jar resolution policy:
// an explicit downloads.artifact is PreHashed; an explicit url with no
// downloads is a ChecksummedSidecar against "<url>/<maven-path>.sha1";
// absent both, fall back to the default library host as a
// ChecksummedSidecar.
func SelectLibraryDownloadable(lib manifest.Library, librariesRoot string) Downloadable {
	coordPath := lib.Name.Path()
	target := LibraryJarPath(lib, librariesRoot)
	status := "Downloading library " + lib.Name.Render()

	if lib.Downloads != nil && lib.Downloads.Artifact != nil {
		a := lib.Downloads.Artifact
		return NewPreHashed(a.URL, target, status, a.Sha1.String())
	}

	if lib.URL != "" {
		url := strings.TrimSuffix(lib.URL, "/") + "/" + coordPath
		return NewChecksummedSidecar(url, target, status)
	}

	url := DefaultLibraryHost + coordPath
	return NewChecksummedSidecar(url, target, status)
}

// SelectNativesDownloadable resolves the native-archive downloadable for
// lib on the current platform, or returns ok=false if the library has no
// natives entry applicable here.
func SelectNativesDownloadable(lib manifest.Library, librariesRoot string) (d Downloadable, ok bool) {
	if lib.Natives == nil {
		return nil, false
	}
	classifierTemplate, present := lib.Natives[rules.CurrentOS()]
	if !present {
		return nil, false
	}
	classifier := strings.ReplaceAll(classifierTemplate, "${arch}", rules.CurrentArch())

	if lib.Downloads != nil && lib.Downloads.Classifiers != nil {
		if a, ok := lib.Downloads.Classifiers[classifier]; ok {
			target := filepath.Join(librariesRoot, filepath.FromSlash(a.Path))
			return NewPreHashed(a.URL, target, "Downloading natives "+lib.Name.Render(), a.Sha1.String()), true
		}
	}

	withClassifier := lib.Name
	withClassifier.Classifier = classifier
	coordPath := withClassifier.Path()
	target := filepath.Join(librariesRoot, filepath.FromSlash(coordPath))
	url := DefaultLibraryHost + coordPath
	if lib.URL != "" {
		url = strings.TrimSuffix(lib.URL, "/") + "/" + coordPath
	}
	return NewChecksummedSidecar(url, target, "Downloading natives "+lib.Name.Render()), true
}

// SelectGameJarDownloadable resolves the version jar: prefer the manifest's
// downloads.client (PreHashed); fall back to the S3 legacy URL as an
// EtagMd5 download.
func SelectGameJarDownloadable(m manifest.VersionManifest, versionsDir string) Downloadable {
	jarName := m.EffectiveJar()
	target := filepath.Join(versionsDir, m.ID, jarName+".jar")
	status := "Downloading " + jarName + ".jar"

	if info, ok := m.Downloads[manifest.DownloadClient]; ok {
		return NewPreHashed(info.URL, target, status, info.Sha1.String())
	}

	url := fmt.Sprintf("%s%s/%s.jar", LegacyJarHost, m.ID, m.ID)
	return NewEtagMd5(url, target, status)
}

// SelectAssetObjectDownloadable resolves one entry of an asset index into
// an Asset downloadable rooted at objectsDir
// (assets/objects/<hash[0..2]>/<hash>).
func SelectAssetObjectDownloadable(objectsDir, assetsHost string, obj manifest.AssetObject) Downloadable {
	target := objectPath(objectsDir, obj.Hash.String())
	if obj.CompressedHash == nil {
		url := assetsHost + objectSuffix(obj.Hash.String())
		return NewAsset(url, target, obj.Hash.String(), "", "")
	}
	compressedHex := obj.CompressedHash.String()
	url := assetsHost + objectSuffix(compressedHex)
	return NewAsset("", target, obj.Hash.String(), url, compressedHex)
}

func objectSuffix(hash string) string {
	return hash[:2] + "/" + hash
}

func objectPath(objectsDir, hash string) string {
	return filepath.Join(objectsDir, hash[:2], hash)
}
