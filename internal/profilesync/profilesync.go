// Package profilesync maintains the local clone of the benchmark definition
// tree. Only the profile subtree is materialized, via a git sparse checkout,
// since the rest of the upstream repository is of no interest here.
package profilesync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/shell"
)

// gitAvailable is a package var so tests can fake a missing git binary.
var gitAvailable = func() bool { return shell.IsCommandExist("git") }

// Syncer clones and updates one benchmark definition checkout.
type Syncer struct {
	cloneDir string
	remote   string
	branch   string
	subPath  string
}

// New builds a Syncer for the given absolute checkout directory.
func New(cloneDir string, profiles config.ProfilesConfig) *Syncer {
	return &Syncer{
		cloneDir: cloneDir,
		remote:   profiles.Remote,
		branch:   profiles.Branch,
		subPath:  profiles.SubPath,
	}
}

// Sync brings the checkout up to date with the remote. It is idempotent:
// the first call initializes the sparse clone, later calls fast-forward it.
func (s *Syncer) Sync() error {
	log := logger.Logger()

	if !gitAvailable() {
		return fmt.Errorf("git not found in PATH, cannot sync benchmark definitions")
	}
	if err := os.MkdirAll(s.cloneDir, 0755); err != nil {
		return fmt.Errorf("creating clone directory %s: %w", s.cloneDir, err)
	}

	log.Infof("syncing benchmark definitions from %s (%s)", s.remote, s.branch)

	if _, err := shell.ExecCmd("git init", s.cloneDir, nil); err != nil {
		return fmt.Errorf("initializing repository in %s: %w", s.cloneDir, err)
	}

	addRemote := fmt.Sprintf("git remote add origin %s", s.remote)
	if _, err := shell.ExecCmd(addRemote, s.cloneDir, nil); err != nil {
		// Second and later runs land here.
		log.Debugf("origin already set up")
	}

	if _, err := shell.ExecCmd("git config core.sparsecheckout true", s.cloneDir, nil); err != nil {
		return fmt.Errorf("enabling sparse checkout: %w", err)
	}
	if err := s.writeSparseCheckoutInfo(); err != nil {
		return err
	}

	// origin/<branch> only exists after the first pull, so a failed reset
	// just means this is a fresh clone.
	rebase := false
	reset := fmt.Sprintf("git reset --hard origin/%s", s.branch)
	if _, err := shell.ExecCmd(reset, s.cloneDir, nil); err == nil {
		rebase = true
	} else {
		log.Debugf("nothing to reset yet")
	}

	pull := fmt.Sprintf("git pull origin %s", s.branch)
	if rebase {
		pull = fmt.Sprintf("git pull --rebase origin %s", s.branch)
	}
	if _, err := shell.ExecCmdWithStream(pull, s.cloneDir, nil); err != nil {
		return fmt.Errorf("pulling %s from %s: %w", s.branch, s.remote, err)
	}

	log.Infof("benchmark definitions synced to %s", filepath.Join(s.cloneDir, filepath.FromSlash(s.subPath)))
	return nil
}

func (s *Syncer) writeSparseCheckoutInfo() error {
	infoPath := filepath.Join(s.cloneDir, ".git", "info", "sparse-checkout")
	if err := os.MkdirAll(filepath.Dir(infoPath), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(infoPath), err)
	}
	if err := os.WriteFile(infoPath, []byte(s.subPath+"\n"), 0644); err != nil {
		return fmt.Errorf("writing sparse checkout info: %w", err)
	}
	return nil
}
