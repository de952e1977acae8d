// Package platform defines the platform tags benchmark definitions are
// keyed by and the mapping from each tag to its installer script.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Tag identifies one installer variant of a benchmark.
type Tag string

const (
	Linux   Tag = "linux"
	Darwin  Tag = "darwin"
	Windows Tag = "windows"
)

// installerFiles maps each tag to the installer script name a phoronix
// profile ships for that platform. The script's existence is what marks a
// benchmark version as supporting the platform.
var installerFiles = map[Tag]string{
	Linux:   "install.sh",
	Darwin:  "install_macosx.sh",
	Windows: "install_windows.sh",
}

// All returns the supported tags in stable order.
func All() []Tag {
	return []Tag{Linux, Darwin, Windows}
}

// Current maps the running OS to a platform tag.
func Current() (Tag, error) {
	switch runtime.GOOS {
	case "linux":
		return Linux, nil
	case "darwin":
		return Darwin, nil
	case "windows":
		return Windows, nil
	default:
		return "", fmt.Errorf("unsupported host platform %q", runtime.GOOS)
	}
}

// Parse converts a user-supplied tag name (e.g. a --platform flag value)
// into a Tag.
func Parse(s string) (Tag, error) {
	switch Tag(strings.ToLower(strings.TrimSpace(s))) {
	case Linux:
		return Linux, nil
	case Darwin:
		return Darwin, nil
	case Windows:
		return Windows, nil
	default:
		return "", fmt.Errorf("unknown platform %q (expected linux|darwin|windows)", s)
	}
}

// FromSpec normalizes the free-text PlatformSpecific field of a download
// manifest by case-insensitive substring match. First match wins; no match
// means the artifact is platform-agnostic.
func FromSpec(s string) (Tag, bool) {
	lowered := strings.ToLower(s)
	switch {
	case strings.Contains(lowered, "linux"):
		return Linux, true
	case strings.Contains(lowered, "macos"):
		return Darwin, true
	case strings.Contains(lowered, "windows"):
		return Windows, true
	default:
		return "", false
	}
}

// InstallerFile returns the installer script name for the tag.
func (t Tag) InstallerFile() string {
	return installerFiles[t]
}
