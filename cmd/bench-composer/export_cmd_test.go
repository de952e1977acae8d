package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// seedInstalledBenchmark fakes the outcome of an earlier install.
func seedInstalledBenchmark(t *testing.T, installDir, dir string) string {
	t.Helper()
	full := filepath.Join(installDir, dir)
	if err := os.MkdirAll(filepath.Join(full, "presets"), 0755); err != nil {
		t.Fatalf("creating %s: %v", full, err)
	}
	files := map[string]string{
		"benchmark.json":           `{"name":"Compress"}`,
		"presets/preset-fast.json": `{"args":"-1"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(full, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return full
}

func TestExportCommandPacksInstalledBenchmark(t *testing.T) {
	configPath, _, installDir := newWorkspace(t)
	seedInstalledBenchmark(t, installDir, "phoronix-compress-1.2.0")
	outDir := t.TempDir()

	out, err := runCommand(t, "export", "--config", configPath,
		"--format", "gzip", "-o", outDir, "compress", "1.2.0")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	archivePath := filepath.Join(outDir, "phoronix-compress-1.2.0.tar.gz")
	if !strings.Contains(out, archivePath) {
		t.Errorf("archive path not printed:\n%s", out)
	}
	if _, err := os.Stat(archivePath); err != nil {
		t.Errorf("missing archive: %v", err)
	}
	if _, err := os.Stat(archivePath + ".manifest.json"); err != nil {
		t.Errorf("missing manifest: %v", err)
	}
}

func TestExportCommandDefaultsToLatestVersion(t *testing.T) {
	configPath, profileRoot, installDir := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.0.0", map[string]string{"install.sh": "#!/bin/sh\n"})
	seedProfile(t, profileRoot, "compress-1.2.0", map[string]string{"install.sh": "#!/bin/sh\n"})
	seedInstalledBenchmark(t, installDir, "phoronix-compress-1.2.0")
	outDir := t.TempDir()

	if _, err := runCommand(t, "export", "--config", configPath,
		"--format", "gzip", "-o", outDir, "compress"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "phoronix-compress-1.2.0.tar.gz")); err != nil {
		t.Errorf("latest version was not exported: %v", err)
	}
}

func TestExportCommandFailsWhenNotInstalled(t *testing.T) {
	configPath, _, _ := newWorkspace(t)

	_, err := runCommand(t, "export", "--config", configPath, "compress", "1.2.0")
	if err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("expected not-installed error, got %v", err)
	}
}

func TestExportCommandRejectsUnknownFormat(t *testing.T) {
	configPath, _, installDir := newWorkspace(t)
	seedInstalledBenchmark(t, installDir, "phoronix-compress-1.2.0")

	if _, err := runCommand(t, "export", "--config", configPath,
		"--format", "rar", "compress", "1.2.0"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
