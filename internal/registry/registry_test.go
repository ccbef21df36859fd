package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quasar/mclaunch/internal/manifest"
)

// fakeManifest renders a minimal VersionManifest JSON body.
func fakeManifest(id, inheritsFrom string, libs []string) []byte {
	m := manifest.VersionManifest{
		ID:           id,
		InheritsFrom: inheritsFrom,
		MainClass:    "net.minecraft.client.main.Main",
		UpdatedTime:  time.Unix(0, 0).UTC(),
		ReleaseTime:  time.Unix(0, 0).UTC(),
	}
	for _, name := range libs {
		m.Libraries = append(m.Libraries, manifest.Library{})
		_ = name
	}
	body, _ := json.Marshal(m)
	return body
}

func newTestServer(t *testing.T, manifests map[string][]byte) (*httptest.Server, *Registry) {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		idx := RemoteVersionIndex{}
		for id := range manifests {
			idx.Versions = append(idx.Versions, RemoteVersionInfo{
				ID: id, URL: srv.URL + "/versions/" + id + ".json",
			})
		}
		json.NewEncoder(w).Encode(idx)
	})
	for id, body := range manifests {
		body := body
		mux.HandleFunc("/versions/"+id+".json", func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		})
	}
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gameDir := t.TempDir()
	reg := New(gameDir, srv.URL+"/index.json")
	return srv, reg
}

func TestResolveLocalVersionMergesInheritance(t *testing.T) {
	manifests := map[string][]byte{
		"child":  fakeManifest("child", "parent", []string{"c1"}),
		"parent": fakeManifest("parent", "", []string{"p1", "p2"}),
	}
	_, reg := newTestServer(t, manifests)
	require.NoError(t, reg.Refresh(context.Background()))

	m, err := reg.ResolveLocalVersion(context.Background(), "child", false, false)
	require.NoError(t, err)

	assert.Equal(t, "child", m.ID)
	assert.Equal(t, "", m.InheritsFrom)
	assert.Len(t, m.Libraries, 3, "child libraries prepended to parent's")
}

func TestResolveLocalVersionDetectsCycle(t *testing.T) {
	manifests := map[string][]byte{
		"a": fakeManifest("a", "b", nil),
		"b": fakeManifest("b", "a", nil),
	}
	_, reg := newTestServer(t, manifests)
	require.NoError(t, reg.Refresh(context.Background()))

	_, err := reg.ResolveLocalVersion(context.Background(), "a", false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
}

func TestResolveLocalVersionMemoizes(t *testing.T) {
	manifests := map[string][]byte{
		"solo": fakeManifest("solo", "", nil),
	}
	_, reg := newTestServer(t, manifests)
	require.NoError(t, reg.Refresh(context.Background()))

	first, err := reg.ResolveLocalVersion(context.Background(), "solo", false, false)
	require.NoError(t, err)

	// Corrupt the on-disk manifest; a cached (non-ignoreCache) resolve must
	// not notice.
	path := reg.manifestPath("solo")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	second, err := reg.ResolveLocalVersion(context.Background(), "solo", false, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInstallVersionByIDUnknownID(t *testing.T) {
	_, reg := newTestServer(t, map[string][]byte{})
	require.NoError(t, reg.Refresh(context.Background()))

	_, err := reg.InstallVersionByID(context.Background(), "nonexistent")
	require.Error(t, err)
}

func TestInstallVersionByIDWritesManifest(t *testing.T) {
	manifests := map[string][]byte{
		"1.20.1": fakeManifest("1.20.1", "", nil),
	}
	_, reg := newTestServer(t, manifests)
	require.NoError(t, reg.Refresh(context.Background()))

	m, err := reg.InstallVersionByID(context.Background(), "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", m.ID)

	data, err := os.ReadFile(filepath.Join(reg.versionsDir(), "1.20.1", "1.20.1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.20.1")
}
