package manifest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Method identifies how an artifact is verified.
type Method string

const (
	MethodMD5    Method = "md5"
	MethodSHA256 Method = "sha256"
	MethodSize   Method = "size"
	MethodNone   Method = "none"
)

// Integrity is the single verification descriptor attached to an artifact.
// When a manifest entry declares several, one is chosen at parse time with
// precedence md5 > sha256 > size, so verification code switches on Method
// instead of probing which fields happen to be set.
type Integrity struct {
	Method Method
	// Digest is the expected lowercase hex digest for hash methods.
	Digest string
	// Size is the expected byte count for MethodSize.
	Size int64
}

// MismatchError reports a verification failure: the file at Path exists and
// was fully inspected, but its digest or size disagrees with the declared
// value.
type MismatchError struct {
	Path     string
	Method   Method
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s mismatch: expected %s, got %s", e.Path, e.Method, e.Expected, e.Actual)
}

// Verify checks the file at path against the descriptor. A MethodNone
// descriptor accepts unconditionally without touching the file. Hash methods
// digest the entire file content after the fact; comparison is exact
// lowercase-hex equality. A failed comparison returns a *MismatchError;
// any other error means the file could not be inspected at all.
func (in Integrity) Verify(path string) error {
	switch in.Method {
	case MethodNone:
		return nil
	case MethodSize:
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("sizing %s: %w", path, err)
		}
		if info.Size() != in.Size {
			return &MismatchError{
				Path:     path,
				Method:   MethodSize,
				Expected: fmt.Sprintf("%d", in.Size),
				Actual:   fmt.Sprintf("%d", info.Size()),
			}
		}
		return nil
	case MethodMD5, MethodSHA256:
		actual, err := in.digestFile(path)
		if err != nil {
			return err
		}
		if actual != in.Digest {
			return &MismatchError{
				Path:     path,
				Method:   in.Method,
				Expected: in.Digest,
				Actual:   actual,
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown verification method %q", in.Method)
	}
}

func (in Integrity) digestFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for verification: %w", path, err)
	}
	defer file.Close()

	var digest hash.Hash
	switch in.Method {
	case MethodMD5:
		digest = md5.New()
	case MethodSHA256:
		digest = sha256.New()
	}
	if _, err := io.Copy(digest, file); err != nil {
		return "", fmt.Errorf("digesting %s: %w", path, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// String renders the descriptor the way acquisition logs print it.
func (in Integrity) String() string {
	switch in.Method {
	case MethodMD5, MethodSHA256:
		return fmt.Sprintf("%s=%s", in.Method, in.Digest)
	case MethodSize:
		return fmt.Sprintf("size=%d", in.Size)
	default:
		return "noverify"
	}
}
