// Package acquire fetches benchmark artifacts. For each artifact it walks
// the declared sources in order until one yields a verified file, reusing a
// file already on disk when it passes verification. Acquisition is strictly
// sequential: one artifact, one source, one transfer at a time.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-benchmark-platform/bench-composer/internal/manifest"
	"github.com/open-benchmark-platform/bench-composer/internal/platform"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/network"
)

// State is the terminal outcome of acquiring one artifact.
type State string

const (
	// StateSkipped: the artifact is for another platform; no filesystem or
	// network access happened.
	StateSkipped State = "skipped"
	// StateLocallyVerified: a file at the target path passed verification,
	// so no network call was made.
	StateLocallyVerified State = "locally-verified"
	// StateVerified: a source was downloaded and passed verification.
	StateVerified State = "verified"
)

// Result describes a successful acquisition.
type Result struct {
	State State
	// Path is the verified file, empty for StateSkipped.
	Path string
	// Source is the URL that produced the file, empty unless downloaded.
	Source string
	// Attempts counts download attempts, including failed ones.
	Attempts int
}

// ExhaustedError is returned when every source for an artifact failed. It
// aborts the whole install: a missing artifact cannot be papered over.
type ExhaustedError struct {
	FileName string
	URLs     []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("could not download %s from any of the specified URLs (%s)",
		e.FileName, strings.Join(e.URLs, ", "))
}

// Engine acquires artifacts for one platform with one HTTP client.
type Engine struct {
	client   *http.Client
	platform platform.Tag
	timeout  time.Duration
	reporter TransferReporter
}

// Options configures an Engine. Zero values select the defaults: a secure
// HTTP client, the running platform, no per-attempt deadline, no progress
// display.
type Options struct {
	Client *http.Client
	// Platform is the tag artifacts are matched against.
	Platform platform.Tag
	// AttemptTimeout bounds one download attempt from one source. On
	// expiry the attempt counts as failed and the next source is tried,
	// exactly like a network error.
	AttemptTimeout time.Duration
	Reporter       TransferReporter
}

// NewEngine builds an acquisition engine. It fails only when no platform
// was given and the running platform is not a supported tag.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Platform == "" {
		tag, err := platform.Current()
		if err != nil {
			return nil, err
		}
		opts.Platform = tag
	}
	if opts.Client == nil {
		opts.Client = network.NewSecureHTTPClient()
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	return &Engine{
		client:   opts.Client,
		platform: opts.Platform,
		timeout:  opts.AttemptTimeout,
		reporter: opts.Reporter,
	}, nil
}

// Acquire obtains one verified copy of pkg under targetDir, which must
// already exist. The flow per artifact:
//
//  1. a platform-specific artifact for another platform is skipped outright
//  2. an existing file that passes verification is kept, no network call
//  3. otherwise sources are downloaded in order until one verifies; every
//     failed or rejected attempt deletes its partial file first
//
// Cancelling ctx aborts the walk; any partial file is deleted before the
// context error is returned. When all sources fail the error is an
// *ExhaustedError naming every URL tried.
func (e *Engine) Acquire(ctx context.Context, pkg manifest.Package, targetDir string) (Result, error) {
	log := logger.Logger()
	targetPath := filepath.Join(targetDir, pkg.FileName)

	if pkg.Platform != "" && pkg.Platform != e.platform {
		log.Infof("skipping %s, not required on platform %s", pkg, e.platform)
		return Result{State: StateSkipped}, nil
	}

	log.Infof("acquiring %s", pkg)

	if _, err := os.Stat(targetPath); err == nil {
		if e.verifyExisting(targetPath, pkg.Integrity) {
			return Result{State: StateLocallyVerified, Path: targetPath}, nil
		}
	}

	for i, source := range pkg.Sources {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		log.Infof("downloading %s (source %d/%d): %s", pkg.FileName, i+1, len(pkg.Sources), source)
		if err := e.fetchSource(ctx, source, targetPath, pkg.FileName); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			log.Warnf("downloading %s failed: %v", pkg.FileName, err)
			continue
		}

		if !e.verifyDownloaded(targetPath, pkg, source) {
			continue
		}
		return Result{
			State:    StateVerified,
			Path:     targetPath,
			Source:   source,
			Attempts: i + 1,
		}, nil
	}

	return Result{}, &ExhaustedError{FileName: pkg.FileName, URLs: pkg.Sources}
}

// verifyExisting checks a file already at the target path. A pass means the
// download is skipped entirely. A fail deletes the file so the fetch loop
// starts clean.
func (e *Engine) verifyExisting(path string, integrity manifest.Integrity) bool {
	log := logger.Logger()

	err := integrity.Verify(path)
	if err == nil {
		if integrity.Method == manifest.MethodNone {
			// Presence alone is accepted when nothing can be verified.
			// Deliberate weak-trust policy, hence the louder log line.
			log.Warnf("no verification method for %s, accepting existing file as-is", path)
		} else {
			log.Infof("file %s verified, skipping download", path)
		}
		return true
	}

	var mismatch *manifest.MismatchError
	if errors.As(err, &mismatch) {
		log.Infof("deleting unverified file %s (%s expected %s, got %s)",
			path, mismatch.Method, mismatch.Expected, mismatch.Actual)
	} else {
		log.Warnf("could not verify existing file %s: %v", path, err)
	}
	removeFile(path)
	return false
}

// verifyDownloaded checks a freshly downloaded file. A rejected file is
// deleted before the next source is attempted.
func (e *Engine) verifyDownloaded(path string, pkg manifest.Package, source string) bool {
	log := logger.Logger()

	err := pkg.Integrity.Verify(path)
	if err == nil {
		if pkg.Integrity.Method == manifest.MethodNone {
			log.Warnf("no verification method available for %s, verification skipped", pkg.FileName)
		} else {
			log.Infof("verified %s (%s)", pkg.FileName, pkg.Integrity)
		}
		return true
	}

	var mismatch *manifest.MismatchError
	if errors.As(err, &mismatch) {
		log.Warnf("got wrong %s downloading %s from %s: expected %s, got %s",
			mismatch.Method, pkg.FileName, source, mismatch.Expected, mismatch.Actual)
	} else {
		log.Warnf("could not verify %s: %v", path, err)
	}
	log.Infof("file %s will now be removed", path)
	removeFile(path)
	return false
}

// fetchSource streams one source to the target path. On any failure the
// partial file is removed before the error is returned, so no exit path
// leaves an unverified file behind.
func (e *Engine) fetchSource(ctx context.Context, source, targetPath, fileName string) error {
	attemptCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", source, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", source, resp.Status)
	}

	out, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", targetPath, err)
	}

	tracker := e.reporter.StartTransfer(fileName, resp.ContentLength)
	_, copyErr := io.Copy(io.MultiWriter(out, tracker), resp.Body)
	tracker.Finish()
	closeErr := out.Close()

	if copyErr != nil {
		removeFile(targetPath)
		return fmt.Errorf("downloading %s: %w", source, copyErr)
	}
	if closeErr != nil {
		removeFile(targetPath)
		return fmt.Errorf("writing %s: %w", targetPath, closeErr)
	}
	return nil
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Logger().Warnf("could not remove %s: %v", path, err)
	}
}
