package cache

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"asciiusa/internal/debug"
)

const userAgent = "Mozilla/5.0 (compatible; asciiusa/1.0)"

// Manager keeps the Natural Earth shapefiles drawn under the composite
// projection in a local cache directory
type Manager struct {
	cacheDir string
	client   *http.Client
	files    []DataFile
	out      io.Writer
}

// DataFile represents a Natural Earth dataset to download
type DataFile struct {
	Name     string // Friendly name
	URL      string // Download URL
	Base     string // Base filename (without extension)
	Optional bool   // If true, failure to download won't stop the app
}

// NaturalEarthFiles lists the 1:50m datasets drawn under the composite projection
var NaturalEarthFiles = []DataFile{
	{
		Name:     "States/Provinces",
		URL:      "https://naciscdn.org/naturalearth/50m/cultural/ne_50m_admin_1_states_provinces_lakes.zip",
		Base:     "ne_50m_admin_1_states_provinces_lakes",
		Optional: true,
	},
	{
		Name:     "Lakes",
		URL:      "https://naciscdn.org/naturalearth/50m/physical/ne_50m_lakes.zip",
		Base:     "ne_50m_lakes",
		Optional: true,
	},
	{
		Name:     "Populated Places",
		URL:      "https://naciscdn.org/naturalearth/50m/cultural/ne_50m_populated_places.zip",
		Base:     "ne_50m_populated_places",
		Optional: true,
	},
}

// Download describes one fetched dataset
type Download struct {
	File      DataFile
	Size      int64 // Archive size in bytes
	Extracted int   // Files written to the cache directory
}

func (d Download) String() string {
	return fmt.Sprintf("%s (%s, %d files)", d.File.Name, humanize.Bytes(uint64(d.Size)), d.Extracted)
}

// Option customizes a Manager
type Option func(*Manager)

// WithHTTPClient replaces the client used for downloads
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// WithFiles replaces the dataset list
func WithFiles(files []DataFile) Option {
	return func(m *Manager) {
		m.files = files
	}
}

// WithOutput sends progress messages to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(m *Manager) {
		m.out = w
	}
}

// NewManager creates a new cache manager
// If cacheDir is empty, uses ~/.asciiusa/data
func NewManager(cacheDir string, opts ...Option) (*Manager, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".asciiusa", "data")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	m := &Manager{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 2 * time.Minute},
		files:    NaturalEarthFiles,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Missing returns the datasets whose shapefile is not in the cache
func (m *Manager) Missing() []DataFile {
	var missing []DataFile
	for _, file := range m.files {
		if _, err := os.Stat(m.GetDataPath(file.Base)); err != nil {
			missing = append(missing, file)
		}
	}
	return missing
}

// EnsureData downloads every missing dataset and returns what was fetched.
// Optional files that fail to download are skipped with a warning.
func (m *Manager) EnsureData() ([]Download, error) {
	var downloads []Download

	for _, file := range m.Missing() {
		fmt.Fprintf(m.out, "Downloading %s...\n", file.Name)

		d, err := m.download(file)
		if err != nil {
			if file.Optional {
				fmt.Fprintf(m.out, "Warning: Skipping %s (optional): %v\n", file.Name, err)
				continue
			}
			return downloads, fmt.Errorf("failed to ensure %s: %w", file.Name, err)
		}

		fmt.Fprintf(m.out, "Downloaded %s\n", d)
		downloads = append(downloads, d)
	}

	debug.Log("Cache ready in %s (%d downloaded)", m.cacheDir, len(downloads))
	return downloads, nil
}

// download fetches one dataset archive and unpacks it into the cache
func (m *Manager) download(file DataFile) (Download, error) {
	d := Download{File: file}

	req, err := http.NewRequest(http.MethodGet, file.URL, nil)
	if err != nil {
		return d, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return d, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return d, fmt.Errorf("download failed with status: %s (URL: %s)", resp.Status, file.URL)
	}

	tmpFile, err := os.CreateTemp("", "ne_*.zip")
	if err != nil {
		return d, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	d.Size, err = io.Copy(tmpFile, resp.Body)
	tmpFile.Close()
	if err != nil {
		return d, fmt.Errorf("failed to save download: %w", err)
	}

	d.Extracted, err = extractZip(tmpFile.Name(), m.cacheDir)
	if err != nil {
		return d, fmt.Errorf("failed to extract: %w", err)
	}
	if _, err := os.Stat(m.GetDataPath(file.Base)); err != nil {
		return d, fmt.Errorf("archive has no %s.shp", file.Base)
	}

	return d, nil
}

// extractZip flattens the archive into destDir, skipping directories and hidden files.
// It returns the number of files written.
func extractZip(zipPath, destDir string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(f.Name), ".") {
			continue
		}
		if err := extractFile(f, filepath.Join(destDir, filepath.Base(f.Name))); err != nil {
			return n, err
		}
		n++
	}

	return n, nil
}

func extractFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, rc)
	return err
}

// GetDataPath returns the path of the .shp file for a dataset base name
func (m *Manager) GetDataPath(base string) string {
	return filepath.Join(m.cacheDir, base+".shp")
}

// GetCacheDir returns the cache directory
func (m *Manager) GetCacheDir() string {
	return m.cacheDir
}
