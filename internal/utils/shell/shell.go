package shell

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

// getShell returns the preferred shell, falling back to /bin/sh if bash is not available
func getShell() string {
	shells := []string{"/bin/bash", "/usr/bin/bash", "/bin/sh"}
	for _, shell := range shells {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh" // fallback
}

// IsCommandExist checks if a command is available on the host
func IsCommandExist(cmd string) bool {
	shell := getShell()
	output, _ := exec.Command(shell, "-c", "command -v "+cmd).Output()
	return len(strings.TrimSpace(string(output))) > 0
}

// ExecCmd executes a command in dir and returns its combined output.
// Entries in env are appended to the current process environment. It is a
// package variable so tests can substitute a fake executor.
var ExecCmd = func(cmdStr string, dir string, env []string) (string, error) {
	log := logger.Logger()

	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return "", fmt.Errorf("working directory %s does not exist", dir)
		}
	}
	log.Debugf("Exec: [%s] (dir=%s)", cmdStr, dir)

	shell := getShell()
	cmd := exec.Command(shell, "-c", cmdStr)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	output, err := cmd.CombinedOutput()
	outputStr := string(output)

	if err != nil {
		if outputStr != "" {
			log.Infof(outputStr)
		}
		return outputStr, fmt.Errorf("failed to exec %s: %w", cmdStr, err)
	}
	if outputStr != "" {
		log.Debugf(outputStr)
	}
	return outputStr, nil
}

// ExecCmdWithStream executes a command in dir and streams its output
// line by line through the logger while the command runs.
var ExecCmdWithStream = func(cmdStr string, dir string, env []string) (string, error) {
	log := logger.Logger()

	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return "", fmt.Errorf("working directory %s does not exist", dir)
		}
	}
	log.Debugf("Exec: [%s] (dir=%s)", cmdStr, dir)

	shell := getShell()
	cmd := exec.Command(shell, "-c", cmdStr)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to get stdout pipe for command %s: %w", cmdStr, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to get stderr pipe for command %s: %w", cmdStr, err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start command %s: %w", cmdStr, err)
	}

	var outputStr string
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			str := scanner.Text()
			if str != "" {
				outputStr += str + "\n"
				log.Infof(str)
			}
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			str := scanner.Text()
			if str != "" {
				log.Infof(str)
			}
		}
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return outputStr, fmt.Errorf("failed to wait for command %s: %w", cmdStr, err)
	}
	return outputStr, nil
}
