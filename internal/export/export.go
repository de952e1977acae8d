// Package export packs an installed benchmark directory into a compressed
// tar archive and writes a manifest describing the archive and every file
// in it, so the benchmark can be carried to machines without network access
// and verified there.
package export

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

// Format selects the compression applied to the tar stream.
type Format string

const (
	FormatGzip Format = "gzip"
	FormatZstd Format = "zstd"
	FormatXz   Format = "xz"
)

// ParseFormat converts a config or flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatGzip, FormatZstd, FormatXz:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown archive format %q (expected gzip|zstd|xz)", s)
	}
}

// Extension returns the archive file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatZstd:
		return ".tar.zst"
	case FormatXz:
		return ".tar.xz"
	default:
		return ".tar.gz"
	}
}

// Exporter archives benchmark directories in one format.
type Exporter struct {
	format Format
}

// New builds an Exporter for the given format.
func New(format Format) *Exporter {
	return &Exporter{format: format}
}

// Export packs srcDir into outDir as <basename(srcDir)><ext> and writes a
// manifest next to it. It returns the archive path. Paths inside the
// archive are slash-separated and relative to srcDir.
func (e *Exporter) Export(srcDir, outDir, benchmark, version string) (string, error) {
	log := logger.Logger()

	if info, err := os.Stat(srcDir); err != nil {
		return "", fmt.Errorf("export source %s: %w", srcDir, err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("export source %s is not a directory", srcDir)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", outDir, err)
	}

	archivePath := filepath.Join(outDir, filepath.Base(srcDir)+e.format.Extension())
	log.Infof("exporting %s to %s", srcDir, archivePath)

	files, err := e.writeArchive(srcDir, archivePath)
	if err != nil {
		removeIncomplete(archivePath)
		return "", err
	}

	manifest, err := buildManifest(benchmark, version, e.format, archivePath, files)
	if err != nil {
		removeIncomplete(archivePath)
		return "", err
	}
	if err := manifest.Write(archivePath + ManifestSuffix); err != nil {
		removeIncomplete(archivePath)
		return "", err
	}

	log.Infof("exported %d files (%s, %d bytes compressed)",
		len(files), e.format, manifest.Archive.Size)
	return archivePath, nil
}

// writeArchive streams every entry under srcDir into a compressed tar at
// archivePath and returns the regular-file inventory.
func (e *Exporter) writeArchive(srcDir, archivePath string) ([]FileEntry, error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", archivePath, err)
	}
	defer out.Close()

	compressor, err := newCompressor(out, e.format)
	if err != nil {
		return nil, err
	}
	tw := tar.NewWriter(compressor)

	files, walkErr := addTree(tw, srcDir)
	if walkErr != nil {
		return nil, walkErr
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return nil, fmt.Errorf("finalizing %s stream: %w", e.format, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", archivePath, err)
	}
	return files, nil
}

// addTree walks srcDir and writes one tar entry per directory, symlink, and
// regular file. Regular files are hashed while being copied.
func addTree(tw *tar.Writer, srcDir string) ([]FileEntry, error) {
	var files []FileEntry

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		if d.Type()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return fmt.Errorf("reading link %s: %w", path, err)
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("building tar header for %s: %w", rel, err)
		}
		hdr.Name = rel
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing tar header for %s: %w", rel, err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		hash := sha256.New()
		if _, err := io.Copy(io.MultiWriter(tw, hash), f); err != nil {
			return fmt.Errorf("archiving %s: %w", rel, err)
		}
		files = append(files, FileEntry{
			Path:   rel,
			Size:   info.Size(),
			SHA256: hex.EncodeToString(hash.Sum(nil)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}
	return files, nil
}

// newCompressor wraps w in the format's stream compressor.
func newCompressor(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case FormatGzip:
		return gzip.NewWriter(w), nil
	case FormatZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return enc, nil
	case FormatXz:
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating xz writer: %w", err)
		}
		return xzw, nil
	default:
		return nil, fmt.Errorf("unknown archive format %q", format)
	}
}

func removeIncomplete(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Logger().Warnf("could not remove incomplete archive %s: %v", path, err)
	}
}
