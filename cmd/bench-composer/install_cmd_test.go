package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const installTestDefXML = `<PhoronixTestSuite>
  <TestInformation>
    <Title>Compress</Title>
    <Description>Measures compression throughput.</Description>
  </TestInformation>
  <TestSettings>
    <Option>
      <DisplayName>Level</DisplayName>
      <Menu>
        <Entry><Name>Fast</Name><Value>-1</Value></Entry>
      </Menu>
    </Option>
  </TestSettings>
</PhoronixTestSuite>`

const installResultsXML = `<PhoronixTestSuite>
  <ResultsParser>
    <OutputTemplate>Speed: #_RESULT_# MB/s</OutputTemplate>
  </ResultsParser>
</PhoronixTestSuite>`

func TestInstallCommandEndToEnd(t *testing.T) {
	calls := withFakeShell(t)

	artifact := "corpus payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, artifact)
	}))
	t.Cleanup(srv.Close)
	sum := md5.Sum([]byte(artifact))

	configPath, profileRoot, installDir := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.2.0", map[string]string{
		"test-definition.xml":    installTestDefXML,
		"results-definition.xml": installResultsXML,
		"install.sh":             "#!/bin/sh\n",
		"downloads.xml": fmt.Sprintf(`<PhoronixTestSuite>
  <Downloads>
    <Package>
      <URL>%s</URL>
      <MD5>%s</MD5>
      <FileName>corpus.tar</FileName>
    </Package>
  </Downloads>
</PhoronixTestSuite>`, srv.URL+"/corpus.tar", hex.EncodeToString(sum[:])),
	})

	out, err := runCommand(t, "install", "--config", configPath, "--no-sync", "compress", "1.2.0")
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}

	targetDir := filepath.Join(installDir, "phoronix-compress-1.2.0")
	if !strings.Contains(out, targetDir) {
		t.Errorf("target dir not printed:\n%s", out)
	}
	for _, name := range []string{"setup.sh", "benchmark.json", "corpus.tar", "presets/preset-fast.json"} {
		if _, err := os.Stat(filepath.Join(targetDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	if len(*calls) != 1 || (*calls)[0].cmd != "bash install.sh" {
		t.Errorf("expected a single installer execution, got %v", *calls)
	}
}

func TestInstallCommandUnknownBenchmark(t *testing.T) {
	withFakeShell(t)
	configPath, _, _ := newWorkspace(t)

	if _, err := runCommand(t, "install", "--config", configPath, "--no-sync", "nosuch"); err == nil {
		t.Fatal("expected error for unknown benchmark")
	}
}

func TestInstallCommandRequiresBenchmarkName(t *testing.T) {
	if _, err := runCommand(t, "install"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestInstallCommandAttemptTimeoutOverride(t *testing.T) {
	withFakeShell(t)

	artifact := "slow payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, artifact)
	}))
	t.Cleanup(srv.Close)
	sum := md5.Sum([]byte(artifact))

	configPath, profileRoot, _ := newWorkspace(t)
	seedProfile(t, profileRoot, "compress-1.2.0", map[string]string{
		"test-definition.xml":    installTestDefXML,
		"results-definition.xml": installResultsXML,
		"install.sh":             "#!/bin/sh\n",
		"downloads.xml": fmt.Sprintf(`<PhoronixTestSuite>
  <Downloads>
    <Package>
      <URL>%s</URL>
      <MD5>%s</MD5>
      <FileName>corpus.tar</FileName>
    </Package>
  </Downloads>
</PhoronixTestSuite>`, srv.URL+"/corpus.tar", hex.EncodeToString(sum[:])),
	})

	// An expired deadline makes every source fail; a generous one succeeds.
	if _, err := runCommand(t, "install", "--config", configPath, "--no-sync",
		"--attempt-timeout", "1ns", "compress", "1.2.0"); err == nil {
		t.Fatal("expected failure with an immediately expiring attempt timeout")
	}
	if _, err := runCommand(t, "install", "--config", configPath, "--no-sync",
		"--attempt-timeout", "30s", "compress", "1.2.0"); err != nil {
		t.Fatalf("install with sane timeout failed: %v", err)
	}
}
