package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// httpStatusError reports a non-2xx HTTP response for url.
type httpStatusError struct {
	URL    string
	Status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Status, e.URL)
}

func newGetRequest(ctx context.Context, url string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
}

// Downloadable is the capability every download unit exposes: url, target
// path, human status, a progress monitor, and the retry-driving Download
// method. The variants share one fetch/verify/decompress skeleton; rather
// than forcing them through a common base type (which would fight their
// differing hash sources: embedded, sidecar fetch, response header,
// compressed sibling), each variant implements Download itself against the
// shared primitives in this file.
type Downloadable interface {
	URL() string
	Target() string
	StatusLabel() string
	Monitor() *Monitor
	Download(ctx context.Context, client *http.Client) error
}

// noHash reports whether a hash string should be treated as "no hash
// known": empty, a bare "-", or (for ETag) any value containing "-" (a
// multipart-upload ETag is not a content digest).
func noHash(s string) bool {
	return s == "" || strings.Contains(s, "-")
}

// ensureParentDir creates the directory a target file lives in.
func ensureParentDir(target string) error {
	return os.MkdirAll(filepath.Dir(target), 0o755)
}

// localFileHash computes the digest of an existing file using the given
// hash constructor, or returns ok=false if the file does not exist.
func localFileHash(path string, newHash func() hash.Hash) (digest string, ok bool, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer f.Close()
	h := newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", false, err
	}
	return hex.EncodeToString(h.Sum(nil)), true, nil
}

func sha1Hex(path string) (string, bool, error) { return localFileHash(path, sha1.New) }
func md5Hex(path string) (string, bool, error)  { return localFileHash(path, md5.New) }

// streamResult is the outcome of writing an HTTP response body to a file.
type streamResult struct {
	sha1Hex string
	md5Hex  string
	size    int64
}

// streamToFile GETs url, writing the body to target while updating mon's
// progress and computing both SHA-1 and MD5 digests (callers pick whichever
// their variant's oracle needs): ensure parent dir, open target for write,
// stream chunks, update hashes as each chunk lands.
func streamToFile(ctx context.Context, client *http.Client, url, target string, mon *Monitor) (streamResult, error) {
	if err := ensureParentDir(target); err != nil {
		return streamResult{}, err
	}

	req, err := newGetRequest(ctx, url)
	if err != nil {
		return streamResult{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return streamResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return streamResult{}, &httpStatusError{URL: url, Status: resp.StatusCode}
	}

	if resp.ContentLength > 0 {
		mon.SetTotal(resp.ContentLength)
	}

	f, err := os.Create(target)
	if err != nil {
		return streamResult{}, err
	}

	sha1h := sha1.New()
	md5h := md5.New()
	writer := io.MultiWriter(f, sha1h, md5h)

	buf := make([]byte, 64*1024)
	var total int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := writer.Write(buf[:n]); writeErr != nil {
				f.Close()
				os.Remove(target)
				return streamResult{}, writeErr
			}
			total += int64(n)
			mon.AddProgress(int64(n))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			f.Close()
			os.Remove(target)
			return streamResult{}, readErr
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(target)
		return streamResult{}, err
	}

	return streamResult{
		sha1Hex: hex.EncodeToString(sha1h.Sum(nil)),
		md5Hex:  hex.EncodeToString(md5h.Sum(nil)),
		size:    total,
	}, nil
}

// fetchString GETs url and returns the trimmed response body as a string
// (used for checksum sidecars).
func fetchString(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := newGetRequest(ctx, url)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httpStatusError{URL: url, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
