package download

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quasar/mclaunch/internal/mcerrors"
	"github.com/quasar/mclaunch/internal/progress"
)

func TestJob_Start_DownloadsEveryItem(t *testing.T) {
	body := []byte("shared body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	items := []Downloadable{
		NewPreHashed(srv.URL, filepath.Join(dir, "a"), "a", sha1Of(body)),
		NewPreHashed(srv.URL, filepath.Join(dir, "b"), "b", sha1Of(body)),
		NewPreHashed(srv.URL, filepath.Join(dir, "c"), "c", sha1Of(body)),
	}

	job := NewJob("test", srv.Client(), items)
	require.NoError(t, job.Start(t.Context()))
	for _, it := range items {
		_, err := os.Stat(it.Target())
		assert.NoError(t, err)
	}
}

func TestJob_Start_PermanentFailureFailsJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	items := []Downloadable{
		NewPreHashed(srv.URL, filepath.Join(dir, "a"), "a", sha1Of([]byte("x"))),
	}
	job := NewJob("failing", srv.Client(), items)
	job.Retries = 2

	err := job.Start(t.Context())
	require.Error(t, err)
	var jobErr *mcerrors.JobFailedError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, 1, jobErr.Failures)
}

func TestJob_Start_IgnoreFailuresToleratesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	job := NewJob("tolerant", srv.Client(), []Downloadable{
		NewPreHashed(srv.URL, filepath.Join(dir, "a"), "a", sha1Of([]byte("x"))),
	})
	job.Retries = 1
	job.IgnoreFailures = true

	assert.NoError(t, job.Start(t.Context()))
}

func TestJob_Start_RerunIsNoop(t *testing.T) {
	body := []byte("idempotent body")
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "a")

	first := NewJob("first", srv.Client(), []Downloadable{
		NewPreHashed(srv.URL, target, "a", sha1Of(body)),
	})
	require.NoError(t, first.Start(t.Context()))
	require.Equal(t, int64(1), hits.Load())

	second := NewJob("second", srv.Client(), []Downloadable{
		NewPreHashed(srv.URL, target, "a", sha1Of(body)),
	})
	require.NoError(t, second.Start(t.Context()))
	assert.Equal(t, int64(1), hits.Load(), "rerun against a populated directory must not hit the network")
}

func TestJob_Start_ReporterEndsWithDone(t *testing.T) {
	body := []byte("reported body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	var events []progress.EventKind
	reporter := progress.NewCallback(func(e progress.Event) {
		events = append(events, e.Kind)
	})

	dir := t.TempDir()
	job := NewJob("reported", srv.Client(), []Downloadable{
		NewPreHashed(srv.URL, filepath.Join(dir, "a"), "a", sha1Of(body)),
	})
	job.Concurrency = 1
	job.Reporter = reporter

	require.NoError(t, job.Start(t.Context()))
	require.NotEmpty(t, events)
	assert.Equal(t, progress.EventDone, events[len(events)-1])
}
