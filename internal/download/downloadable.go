package download

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ulikunitz/xz/lzma"

	"github.com/quasar/mclaunch/internal/mcerrors"
)

// item is the shared bookkeeping every Downloadable variant embeds: the
// fields common to url/target/status/monitor so each variant only has to
// implement Download.
type item struct {
	url    string
	target string
	status string
	mon    *Monitor
}

func newItem(url, target, status string) item {
	return item{url: url, target: target, status: status, mon: NewMonitor()}
}

func (i item) URL() string         { return i.url }
func (i item) Target() string      { return i.target }
func (i item) StatusLabel() string { return i.status }
func (i item) Monitor() *Monitor   { return i.mon }

// ---- PreHashed: the expected digest is embedded in the manifest. ----

// PreHashed is a downloadable whose expected SHA-1 is already known from
// the manifest (the game jar, a library artifact, a classifier archive).
type PreHashed struct {
	item
	ExpectedSha1 string // hex, may be empty if the manifest omitted it
}

// NewPreHashed builds a PreHashed downloadable.
func NewPreHashed(url, target, status, expectedSha1 string) *PreHashed {
	return &PreHashed{item: newItem(url, target, status), ExpectedSha1: expectedSha1}
}

func (p *PreHashed) Download(ctx context.Context, client *http.Client) error {
	return downloadVerifySha1(ctx, client, p.item, p.ExpectedSha1, 5)
}

// ---- ChecksummedSidecar: expected hash lives at "<url>.sha1". ----

// ChecksummedSidecar fetches "<url>.sha1" for the expected digest, the
// convention Mojang uses for the default library host.
type ChecksummedSidecar struct {
	item
}

func NewChecksummedSidecar(url, target, status string) *ChecksummedSidecar {
	return &ChecksummedSidecar{item: newItem(url, target, status)}
}

func (c *ChecksummedSidecar) Download(ctx context.Context, client *http.Client) error {
	expected, err := fetchString(ctx, client, c.url+".sha1")
	if err != nil {
		// The sidecar is best-effort: if it's unreachable, fall back to
		// "no hash known" rather than failing the whole download.
		expected = ""
	}
	return downloadVerifySha1(ctx, client, c.item, expected, 5)
}

// ---- EtagMd5: expected hash is the response's ETag header. ----

// EtagMd5 treats the GET response's ETag (quotes stripped) as the expected
// MD5. A multipart-upload ETag (containing "-") is treated as no hash.
type EtagMd5 struct {
	item
}

func NewEtagMd5(url, target, status string) *EtagMd5 {
	return &EtagMd5{item: newItem(url, target, status)}
}

func (e *EtagMd5) Download(ctx context.Context, client *http.Client) error {
	mon := e.mon
	mon.SetStatus(e.status)
	mon.Start()

	if existing, ok, err := md5Hex(e.target); err == nil && ok {
		// Without a prior ETag we cannot know the expected hash until we
		// ask the server; a HEAD request gets us the ETag cheaply.
		if expected, ok := e.fetchETag(ctx, client); ok && !noHash(expected) {
			if existing == expected {
				mon.Finish()
				return nil
			}
			os.Remove(e.target)
		} else if ok {
			mon.Finish()
			return nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		req, err := newGetRequest(ctx, e.url)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		expected := stripQuotes(resp.Header.Get("ETag"))

		if err := ensureParentDir(e.target); err != nil {
			resp.Body.Close()
			return err
		}
		f, err := os.Create(e.target)
		if err != nil {
			resp.Body.Close()
			return err
		}
		written, copyErr := io.Copy(f, resp.Body)
		f.Close()
		resp.Body.Close()
		mon.AddProgress(written)
		if copyErr != nil {
			os.Remove(e.target)
			lastErr = copyErr
			continue
		}

		if !noHash(expected) {
			actual, _, err := md5Hex(e.target)
			if err != nil {
				return err
			}
			if actual != expected {
				os.Remove(e.target)
				lastErr = &mcerrors.ChecksumMismatchError{Target: e.target, Expected: expected, Actual: actual}
				continue
			}
		}
		mon.Finish()
		return nil
	}
	return lastErr
}

func (e *EtagMd5) fetchETag(ctx context.Context, client *http.Client) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.url, nil)
	if err != nil {
		return "", false
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	return stripQuotes(resp.Header.Get("ETag")), true
}

func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// ---- Asset: content-addressed object, optionally gzip-compressed in transit. ----

// Asset downloads one entry of an asset index into the content-addressed
// objects store, verifying the decompressed SHA-1 against hash. If
// compressedHash is non-empty, the object is fetched gzip-compressed from a
// sibling path and decompressed after its own SHA-1 is verified.
type Asset struct {
	item
	Hash           string
	CompressedHash string
	CompressedURL  string
}

// NewAsset builds an Asset downloadable. compressedURL/compressedHash may
// be empty for a plain (uncompressed) asset object.
func NewAsset(url, target, hash, compressedURL, compressedHash string) *Asset {
	return &Asset{
		item:           newItem(url, target, "Downloading asset "+hash[:min(8, len(hash))]),
		Hash:           hash,
		CompressedHash: compressedHash,
		CompressedURL:  compressedURL,
	}
}

func (a *Asset) Download(ctx context.Context, client *http.Client) error {
	mon := a.mon
	mon.SetStatus(a.status)
	mon.Start()

	if existing, ok, err := sha1Hex(a.target); err == nil && ok && !noHash(a.Hash) {
		if existing == a.Hash {
			mon.Finish()
			return nil
		}
		os.Remove(a.target)
	}

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		var err error
		if a.CompressedHash != "" {
			err = a.downloadCompressed(ctx, client)
		} else {
			err = a.downloadPlain(ctx, client)
		}
		if err == nil {
			mon.Finish()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (a *Asset) downloadPlain(ctx context.Context, client *http.Client) error {
	res, err := streamToFile(ctx, client, a.url, a.target, a.mon)
	if err != nil {
		return err
	}
	if !noHash(a.Hash) && res.sha1Hex != a.Hash {
		os.Remove(a.target)
		return &mcerrors.ChecksumMismatchError{Target: a.target, Expected: a.Hash, Actual: res.sha1Hex}
	}
	return nil
}

func (a *Asset) downloadCompressed(ctx context.Context, client *http.Client) error {
	tmp := a.target + ".gz"
	res, err := streamToFile(ctx, client, a.CompressedURL, tmp, a.mon)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)
	if res.sha1Hex != a.CompressedHash {
		return &mcerrors.ChecksumMismatchError{Target: tmp, Expected: a.CompressedHash, Actual: res.sha1Hex}
	}

	if err := ensureParentDir(a.target); err != nil {
		return err
	}
	if err := gunzipFile(tmp, a.target); err != nil {
		return &mcerrors.UnpackAssetsError{Path: a.target, Err: err}
	}
	actual, _, err := sha1Hex(a.target)
	if err != nil {
		return err
	}
	if !noHash(a.Hash) && actual != a.Hash {
		os.Remove(a.target)
		return &mcerrors.ChecksumMismatchError{Target: a.target, Expected: a.Hash, Actual: actual}
	}
	return nil
}

func gunzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gz.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, gz)
	return err
}

// ---- RuntimeFile: a Java runtime file, optionally LZMA-compressed. ----

// RuntimeFile downloads one file of a Java runtime manifest.
// Like Asset it may be compressed in transit (LZMA rather than gzip) and
// carries an executable bit to apply on POSIX after materialization.
type RuntimeFile struct {
	item
	Hash           string
	CompressedHash string
	CompressedURL  string
	Executable     bool
}

func NewRuntimeFile(url, target, hash, compressedURL, compressedHash string, executable bool) *RuntimeFile {
	return &RuntimeFile{
		item:           newItem(url, target, "Downloading runtime file "+filepath.Base(target)),
		Hash:           hash,
		CompressedHash: compressedHash,
		CompressedURL:  compressedURL,
		Executable:     executable,
	}
}

func (r *RuntimeFile) Download(ctx context.Context, client *http.Client) error {
	mon := r.mon
	mon.SetStatus(r.status)
	mon.Start()

	if existing, ok, err := sha1Hex(r.target); err == nil && ok && !noHash(r.Hash) {
		if existing == r.Hash {
			mon.Finish()
			return r.chmod()
		}
		os.Remove(r.target)
	}

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		var err error
		if r.CompressedHash != "" {
			err = r.downloadCompressed(ctx, client)
		} else {
			err = r.downloadPlain(ctx, client)
		}
		if err == nil {
			mon.Finish()
			return r.chmod()
		}
		lastErr = err
	}
	return lastErr
}

func (r *RuntimeFile) chmod() error {
	if !r.Executable || runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(r.target, 0o755)
}

func (r *RuntimeFile) downloadPlain(ctx context.Context, client *http.Client) error {
	res, err := streamToFile(ctx, client, r.url, r.target, r.mon)
	if err != nil {
		return err
	}
	if !noHash(r.Hash) && res.sha1Hex != r.Hash {
		os.Remove(r.target)
		return &mcerrors.ChecksumMismatchError{Target: r.target, Expected: r.Hash, Actual: res.sha1Hex}
	}
	return nil
}

func (r *RuntimeFile) downloadCompressed(ctx context.Context, client *http.Client) error {
	tmp := r.target + ".lzma"
	res, err := streamToFile(ctx, client, r.CompressedURL, tmp, r.mon)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)
	if res.sha1Hex != r.CompressedHash {
		return &mcerrors.ChecksumMismatchError{Target: tmp, Expected: r.CompressedHash, Actual: res.sha1Hex}
	}

	if err := ensureParentDir(r.target); err != nil {
		return err
	}
	if err := unlzmaFile(tmp, r.target); err != nil {
		return fmt.Errorf("runtime file %s: %w", r.target, err)
	}
	actual, _, err := sha1Hex(r.target)
	if err != nil {
		return err
	}
	if !noHash(r.Hash) && actual != r.Hash {
		os.Remove(r.target)
		return &mcerrors.ChecksumMismatchError{Target: r.target, Expected: r.Hash, Actual: actual}
	}
	return nil
}

func unlzmaFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	lr, err := lzma.NewReader(in)
	if err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, lr)
	return err
}

// downloadVerifySha1 is the shared skeleton used by PreHashed and
// ChecksummedSidecar: check an existing target against expectedHash, then
// retry GET+verify up to attempts times.
func downloadVerifySha1(ctx context.Context, client *http.Client, it item, expectedHash string, attempts int) error {
	mon := it.mon
	mon.SetStatus(it.status)
	mon.Start()

	if existing, ok, err := sha1Hex(it.target); err == nil && ok {
		if noHash(expectedHash) {
			mon.Finish()
			return nil
		}
		if existing == expectedHash {
			mon.Finish()
			return nil
		}
		os.Remove(it.target)
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		res, err := streamToFile(ctx, client, it.url, it.target, mon)
		if err != nil {
			lastErr = err
			continue
		}
		if !noHash(expectedHash) && res.sha1Hex != expectedHash {
			os.Remove(it.target)
			lastErr = &mcerrors.ChecksumMismatchError{Target: it.target, Expected: expectedHash, Actual: res.sha1Hex}
			continue
		}
		mon.Finish()
		return nil
	}
	return lastErr
}
