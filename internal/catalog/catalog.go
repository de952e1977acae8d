// Package catalog indexes a local benchmark definition tree. Each immediate
// subdirectory of the tree root is named <benchmark>-<version> and carries
// platform-specific installer scripts; which installers exist determines
// which platforms a version supports.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/open-benchmark-platform/bench-composer/internal/platform"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

var (
	// ErrNoBenchmarkName is returned when a lookup is attempted with an
	// empty benchmark name.
	ErrNoBenchmarkName = errors.New("no benchmark name given")
	// ErrBenchmarkNotFound is returned when the named benchmark is absent
	// from the index.
	ErrBenchmarkNotFound = errors.New("benchmark not found")
	// ErrVersionNotFound is returned when a benchmark is known but the
	// requested version is not.
	ErrVersionNotFound = errors.New("benchmark version not found")
)

// Entry describes one benchmark: its known versions and the platforms each
// version supports. Entries are read-only once the index is built.
type Entry struct {
	Name     string
	Versions map[string][]platform.Tag
}

// SupportedVersions returns the versions of the entry that support the given
// platform, sorted ascending. An empty tag matches every version.
func (e *Entry) SupportedVersions(tag platform.Tag) []string {
	versions := make([]string, 0, len(e.Versions))
	for v, tags := range e.Versions {
		if tag == "" || slices.Contains(tags, tag) {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	return versions
}

// Index is the benchmark catalog built from one scan of the definition
// tree. It is immutable after Build; rescanning after a sync means calling
// Build again for a fresh value.
type Index struct {
	root       string
	benchmarks map[string]*Entry
}

// Build scans the immediate subdirectories of root and indexes every
// benchmark definition found there. Directory names without a hyphen have
// no recognizable version and are skipped.
func Build(root string) (*Index, error) {
	log := logger.Logger()

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading benchmark tree %s: %w", root, err)
	}

	ix := &Index{
		root:       root,
		benchmarks: make(map[string]*Entry),
	}

	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dir := de.Name()

		// The version starts after the last hyphen, so benchmark names
		// may themselves contain hyphens.
		sep := strings.LastIndex(dir, "-")
		if sep <= 0 || sep == len(dir)-1 {
			log.Debugf("Skipping %s: no <name>-<version> structure", dir)
			continue
		}
		name, version := dir[:sep], dir[sep+1:]

		entry := ix.benchmarks[name]
		if entry == nil {
			entry = &Entry{Name: name, Versions: make(map[string][]platform.Tag)}
			ix.benchmarks[name] = entry
		}

		for _, tag := range platform.All() {
			installer := filepath.Join(root, dir, tag.InstallerFile())
			if info, err := os.Stat(installer); err == nil && info.Mode().IsRegular() {
				entry.Versions[version] = append(entry.Versions[version], tag)
			}
		}
	}

	log.Debugf("Indexed %d benchmarks under %s", len(ix.benchmarks), root)
	return ix, nil
}

// Root returns the tree root the index was built from.
func (ix *Index) Root() string {
	return ix.root
}

// DefinitionDir returns the directory holding the definition files for one
// benchmark version.
func (ix *Index) DefinitionDir(name, version string) string {
	return filepath.Join(ix.root, fmt.Sprintf("%s-%s", name, version))
}

// Lookup returns the catalog entry for name. An unknown name is an error,
// never a silently empty result.
func (ix *Index) Lookup(name string) (*Entry, error) {
	if name == "" {
		return nil, ErrNoBenchmarkName
	}
	entry, ok := ix.benchmarks[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrBenchmarkNotFound)
	}
	return entry, nil
}

// ListVersions returns the versions of the named benchmark that support the
// given platform, sorted ascending. An empty tag lists all versions.
func (ix *Index) ListVersions(name string, tag platform.Tag) ([]string, error) {
	entry, err := ix.Lookup(name)
	if err != nil {
		return nil, err
	}
	return entry.SupportedVersions(tag), nil
}

// Exists reports whether the named benchmark, and optionally the given
// version of it, is in the catalog. An empty name or an unknown benchmark
// is an error, so absence of a version is never conflated with absence of
// the benchmark itself.
func (ix *Index) Exists(name, version string) (bool, error) {
	entry, err := ix.Lookup(name)
	if err != nil {
		return false, err
	}
	if version == "" {
		return true, nil
	}
	_, ok := entry.Versions[version]
	return ok, nil
}

// Latest returns the lexicographically greatest version of the named
// benchmark, the one an install defaults to when no version is given.
func (ix *Index) Latest(name string) (string, error) {
	entry, err := ix.Lookup(name)
	if err != nil {
		return "", err
	}
	latest := ""
	for v := range entry.Versions {
		if v > latest {
			latest = v
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%q has no installable versions: %w", name, ErrVersionNotFound)
	}
	return latest, nil
}

// Benchmarks returns all indexed benchmark names, sorted.
func (ix *Index) Benchmarks() []string {
	names := make([]string, 0, len(ix.benchmarks))
	for name := range ix.benchmarks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
