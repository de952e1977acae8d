package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/open-benchmark-platform/bench-composer/internal/utils/shell"
)

// runCommand executes the CLI with a fresh root command and captures the
// combined output. A fresh root resets every flag to its default.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// newWorkspace prepares a config file with its clone and install dirs under
// a temp root, and returns the config path plus the profile tree root.
func newWorkspace(t *testing.T) (configPath, profileRoot, installDir string) {
	t.Helper()
	base := t.TempDir()
	cloneDir := filepath.Join(base, "clone")
	installDir = filepath.Join(base, "converted")
	profileRoot = filepath.Join(cloneDir, "profiles")
	if err := os.MkdirAll(profileRoot, 0755); err != nil {
		t.Fatalf("creating profile root: %v", err)
	}

	configPath = filepath.Join(base, "bench-composer.yml")
	content := fmt.Sprintf("workspace:\n  cloneDir: %s\n  installDir: %s\nprofiles:\n  subPath: profiles\n",
		cloneDir, installDir)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath, profileRoot, installDir
}

// seedProfile lays out one <name>-<version> definition directory.
func seedProfile(t *testing.T, root, dir string, files map[string]string) {
	t.Helper()
	full := filepath.Join(root, dir)
	if err := os.MkdirAll(full, 0755); err != nil {
		t.Fatalf("creating %s: %v", full, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(full, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}

type execCall struct {
	cmd string
	dir string
	env []string
}

// withFakeShell replaces both shell executors and records every call.
func withFakeShell(t *testing.T) *[]execCall {
	t.Helper()
	calls := &[]execCall{}
	record := func(cmdStr string, dir string, env []string) (string, error) {
		*calls = append(*calls, execCall{cmd: cmdStr, dir: dir, env: env})
		return "", nil
	}
	origExec := shell.ExecCmd
	origStream := shell.ExecCmdWithStream
	shell.ExecCmd = record
	shell.ExecCmdWithStream = record
	t.Cleanup(func() {
		shell.ExecCmd = origExec
		shell.ExecCmdWithStream = origStream
	})
	return calls
}
