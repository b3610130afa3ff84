package cache

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestEnsureData_DownloadsAndExtracts(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"ne_test/ne_test.shp": "shp",
		"ne_test/ne_test.dbf": "dbf",
		"__MACOSX/._ne_test":  "junk",
	})

	var requests atomic.Int32
	var agent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		agent.Store(r.UserAgent())
		w.Write(archive)
	}))
	defer server.Close()

	dir := t.TempDir()
	var out bytes.Buffer
	m, err := NewManager(dir,
		WithHTTPClient(server.Client()),
		WithFiles([]DataFile{{Name: "Test", URL: server.URL + "/ne_test.zip", Base: "ne_test"}}),
		WithOutput(&out),
	)
	require.NoError(t, err)
	require.Len(t, m.Missing(), 1)

	downloads, err := m.EnsureData()
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, int64(len(archive)), downloads[0].Size)
	assert.Equal(t, 2, downloads[0].Extracted)
	assert.Contains(t, out.String(), "Downloading Test...")
	assert.Contains(t, out.String(), "Downloaded Test (")
	assert.Empty(t, m.Missing())

	data, err := os.ReadFile(m.GetDataPath("ne_test"))
	require.NoError(t, err)
	assert.Equal(t, "shp", string(data))
	assert.FileExists(t, filepath.Join(dir, "ne_test.dbf"))
	assert.NoFileExists(t, filepath.Join(dir, "._ne_test"))
	assert.Equal(t, userAgent, agent.Load())

	// Second run is served from the cache
	downloads, err = m.EnsureData()
	require.NoError(t, err)
	assert.Empty(t, downloads)
	assert.Equal(t, int32(1), requests.Load())
}

func TestEnsureData_OptionalFailureIsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	var out bytes.Buffer
	m, err := NewManager(t.TempDir(),
		WithHTTPClient(server.Client()),
		WithFiles([]DataFile{{Name: "Optional", URL: server.URL, Base: "a", Optional: true}}),
		WithOutput(&out),
	)
	require.NoError(t, err)

	downloads, err := m.EnsureData()
	assert.NoError(t, err)
	assert.Empty(t, downloads)
	assert.Contains(t, out.String(), "Warning: Skipping Optional (optional)")
	assert.Len(t, m.Missing(), 1)
}

func TestEnsureData_RequiredFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	m, err := NewManager(t.TempDir(),
		WithHTTPClient(server.Client()),
		WithFiles([]DataFile{{Name: "Required", URL: server.URL, Base: "b"}}),
		WithOutput(io.Discard),
	)
	require.NoError(t, err)

	_, err = m.EnsureData()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure Required")
	assert.Contains(t, err.Error(), "404")
}

func TestNewManager_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	m, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, m.GetCacheDir())
	assert.DirExists(t, dir)
}

func TestEnsureData_ArchiveWithoutShapefile(t *testing.T) {
	archive := zipArchive(t, map[string]string{"readme.txt": "no data"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer server.Close()

	m, err := NewManager(t.TempDir(),
		WithHTTPClient(server.Client()),
		WithFiles([]DataFile{{Name: "Broken", URL: server.URL, Base: "ne_broken"}}),
		WithOutput(io.Discard),
	)
	require.NoError(t, err)

	_, err = m.EnsureData()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive has no ne_broken.shp")
}

func TestDownload_String(t *testing.T) {
	d := Download{File: DataFile{Name: "Lakes"}, Size: 2048, Extracted: 5}
	assert.Equal(t, "Lakes (2.0 kB, 5 files)", d.String())
}
