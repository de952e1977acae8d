package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

// CopyInstallers copies every install*.sh script from the benchmark
// definition directory into targetDir and marks the copies executable.
func CopyInstallers(benchDir, targetDir string) error {
	log := logger.Logger()

	pattern := filepath.Join(benchDir, "install*.sh")
	installers, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("globbing %s: %w", pattern, err)
	}

	for _, src := range installers {
		dst := filepath.Join(targetDir, filepath.Base(src))
		if err := copyExecutable(src, dst); err != nil {
			return err
		}
		log.Debugf("installed %s", dst)
	}
	return nil
}

func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
