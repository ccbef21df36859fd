package download

import (
	"bytes"
	"compress/gzip"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha1Of(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func TestPreHashed_Download_VerifiesAndWrites(t *testing.T) {
	body := []byte("jar contents go here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "client.jar")
	d := NewPreHashed(srv.URL, target, "Downloading client jar", sha1Of(body))

	err := d.Download(t.Context(), srv.Client())
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestPreHashed_Download_HashMismatchReturnsError(t *testing.T) {
	body := []byte("corrupted upstream response")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "client.jar")
	d := NewPreHashed(srv.URL, target, "status", "0000000000000000000000000000000000000000")

	err := d.Download(t.Context(), srv.Client())
	require.Error(t, err)
	var mismatch *interface{ Error() string }
	_ = mismatch
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestPreHashed_Download_SkipsWhenExistingFileMatches(t *testing.T) {
	body := []byte("already on disk")
	dir := t.TempDir()
	target := filepath.Join(dir, "client.jar")
	require.NoError(t, os.WriteFile(target, body, 0o644))

	// Server would fail the test if hit, since the existing file already matches.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted when the on-disk file already matches")
	}))
	defer srv.Close()

	d := NewPreHashed(srv.URL, target, "status", sha1Of(body))
	err := d.Download(t.Context(), srv.Client())
	require.NoError(t, err)
}

func TestChecksummedSidecar_Download_FetchesSidecarHash(t *testing.T) {
	body := []byte("library jar bytes")
	mux := http.NewServeMux()
	mux.HandleFunc("/lib.jar", func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	})
	mux.HandleFunc("/lib.jar.sha1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sha1Of(body) + "\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "lib.jar")
	d := NewChecksummedSidecar(srv.URL+"/lib.jar", target, "Downloading library")

	err := d.Download(t.Context(), srv.Client())
	require.NoError(t, err)
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestChecksummedSidecar_Download_UnreachableSidecarFallsBackToNoHash(t *testing.T) {
	body := []byte("library jar bytes, no sidecar available")
	mux := http.NewServeMux()
	mux.HandleFunc("/lib.jar", func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	})
	mux.HandleFunc("/lib.jar.sha1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "lib.jar")
	d := NewChecksummedSidecar(srv.URL+"/lib.jar", target, "status")

	err := d.Download(t.Context(), srv.Client())
	require.NoError(t, err, "a missing sidecar must not fail the download")
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestEtagMd5_Download_SkipsWhenETagMatchesExistingMD5(t *testing.T) {
	body := []byte("skin png bytes")
	md5sum := testMD5Hex(t, body)

	mux := http.NewServeMux()
	mux.HandleFunc("/skin.png", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("ETag", `"`+md5sum+`"`)
			return
		}
		t.Error("server should not receive a GET when the ETag already matches")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "skin.png")
	require.NoError(t, os.WriteFile(target, body, 0o644))

	d := NewEtagMd5(srv.URL+"/skin.png", target, "status")
	err := d.Download(t.Context(), srv.Client())
	require.NoError(t, err)
}

func TestEtagMd5_Download_FetchesWhenNoLocalFile(t *testing.T) {
	body := []byte("fresh skin png bytes")
	mux := http.NewServeMux()
	mux.HandleFunc("/skin.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"`+testMD5Hex(t, body)+`"`)
		if r.Method == http.MethodGet {
			w.Write(body)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "skin.png")
	d := NewEtagMd5(srv.URL+"/skin.png", target, "status")
	err := d.Download(t.Context(), srv.Client())
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestAsset_Download_Plain(t *testing.T) {
	body := []byte("asset object bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, sha1Of(body))
	a := NewAsset(srv.URL, target, sha1Of(body), "", "")

	err := a.Download(t.Context(), srv.Client())
	require.NoError(t, err)
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestAsset_Download_Compressed(t *testing.T) {
	body := []byte("asset object bytes, shipped gzip-compressed")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(body)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	compressed := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not receive a plain GET when a compressed sibling is configured")
	})
	mux.HandleFunc("/compressed", func(w http.ResponseWriter, r *http.Request) {
		w.Write(compressed)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, sha1Of(body))
	a := NewAsset(srv.URL+"/plain", target, sha1Of(body), srv.URL+"/compressed", sha1Of(compressed))

	err = a.Download(t.Context(), srv.Client())
	require.NoError(t, err)
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestAsset_Download_SkipsWhenExistingHashMatches(t *testing.T) {
	body := []byte("already-reconstructed asset object")
	dir := t.TempDir()
	target := filepath.Join(dir, sha1Of(body))
	require.NoError(t, os.WriteFile(target, body, 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted when the object is already present with a matching hash")
	}))
	defer srv.Close()

	a := NewAsset(srv.URL, target, sha1Of(body), "", "")
	err := a.Download(t.Context(), srv.Client())
	require.NoError(t, err)
}

func testMD5Hex(t *testing.T, data []byte) string {
	t.Helper()
	digest, ok, err := md5HexOfBytes(data)
	require.NoError(t, err)
	require.True(t, ok)
	return digest
}

// md5HexOfBytes writes data to a scratch file and reuses the package's
// own md5Hex helper, so the test stays in lockstep with production hashing.
func md5HexOfBytes(data []byte) (string, bool, error) {
	f, err := os.CreateTemp("", "md5scratch-*")
	if err != nil {
		return "", false, err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", false, err
	}
	f.Close()
	return md5Hex(f.Name())
}
