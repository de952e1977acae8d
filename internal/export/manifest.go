package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestSuffix is appended to the archive name to form the manifest file
// name, e.g. phoronix-astcenc-1.1.0.tar.zst.manifest.json.
const ManifestSuffix = ".manifest.json"

// Manifest describes one exported benchmark archive for transfer to an
// air-gapped environment. The file inventory lets the receiving side verify
// every extracted file, not just the archive.
type Manifest struct {
	ID         string      `json:"id"`
	Benchmark  string      `json:"benchmark"`
	Version    string      `json:"version"`
	Created    time.Time   `json:"created"`
	SourceHost string      `json:"source_host"`
	Format     Format      `json:"format"`
	Archive    ArchiveInfo `json:"archive"`
	TotalSize  int64       `json:"total_size"`
	Files      []FileEntry `json:"files"`
}

// ArchiveInfo identifies the archive file itself.
type ArchiveInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// FileEntry is one file of the archived tree.
type FileEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// buildManifest digests the finished archive and assembles its manifest.
func buildManifest(benchmark, version string, format Format, archivePath string, files []FileEntry) (*Manifest, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", archivePath, err)
	}
	digest, err := sha256File(archivePath)
	if err != nil {
		return nil, err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	if files == nil {
		files = []FileEntry{}
	}

	return &Manifest{
		ID:         uuid.NewString(),
		Benchmark:  benchmark,
		Version:    version,
		Created:    time.Now().UTC(),
		SourceHost: hostname,
		Format:     format,
		Archive: ArchiveInfo{
			Name:   filepath.Base(archivePath),
			Size:   info.Size(),
			SHA256: digest,
		},
		TotalSize: total,
		Files:     files,
	}, nil
}

// Write stores the manifest as indented JSON at path.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by Write.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &m, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
