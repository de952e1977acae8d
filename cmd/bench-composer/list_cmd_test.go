package main

import (
	"strings"
	"testing"
)

func TestListPrintsVersionsForPlatform(t *testing.T) {
	configPath, profileRoot, _ := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.0.0", map[string]string{"install.sh": "#!/bin/sh\n"})
	seedProfile(t, profileRoot, "compress-1.2.0", map[string]string{"install.sh": "#!/bin/sh\n"})
	seedProfile(t, profileRoot, "render-2.0.0", map[string]string{"install_windows.sh": "#!/bin/sh\n"})

	out, err := runCommand(t, "list", "--config", configPath, "--no-sync", "-p", "linux")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := "compress @ 1.0.0 [linux]\ncompress @ 1.2.0 [linux]\n"
	if out != want {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestListSingleBenchmark(t *testing.T) {
	configPath, profileRoot, _ := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.0.0", map[string]string{"install.sh": "#!/bin/sh\n"})
	seedProfile(t, profileRoot, "render-2.0.0", map[string]string{"install.sh": "#!/bin/sh\n"})

	out, err := runCommand(t, "list", "--config", configPath, "--no-sync", "-p", "linux", "render")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out != "render @ 2.0.0 [linux]\n" {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestListAllPlatforms(t *testing.T) {
	configPath, profileRoot, _ := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.0.0", map[string]string{
		"install.sh":         "#!/bin/sh\n",
		"install_windows.sh": "#!/bin/sh\n",
	})

	out, err := runCommand(t, "list", "--config", configPath, "--no-sync", "--all-platforms")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, line := range []string{"compress @ 1.0.0 [linux]", "compress @ 1.0.0 [windows]"} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q in output:\n%s", line, out)
		}
	}
	if strings.Contains(out, "[darwin]") {
		t.Errorf("unexpected darwin line in output:\n%s", out)
	}
}

func TestListUnknownBenchmark(t *testing.T) {
	configPath, profileRoot, _ := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.0.0", map[string]string{"install.sh": "#!/bin/sh\n"})

	if _, err := runCommand(t, "list", "--config", configPath, "--no-sync", "nosuch"); err == nil {
		t.Fatal("expected error for unknown benchmark")
	}
}

func TestListRejectsUnknownPlatform(t *testing.T) {
	configPath, _, _ := newWorkspace(t)

	if _, err := runCommand(t, "list", "--config", configPath, "--no-sync", "-p", "beos"); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}
