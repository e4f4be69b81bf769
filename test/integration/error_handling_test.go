package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI into a temp directory and returns its path.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "gitclerk")
	build := exec.Command("go", "build", "-o", binaryPath, "../../cmd/gitclerk")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI binary: %v\n%s", err, out)
	}
	return binaryPath
}

// runCLI executes the binary in dir with the log directory pinned for test
// isolation, returning combined output.
func runCLI(t *testing.T, binary, dir, logDir string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GITCLERK_LOG_DIR="+logDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestCLI_ErrorHandling_ConfigNotFound(t *testing.T) {
	binary := buildBinary(t)
	tempDir := t.TempDir()

	output, err := runCLI(t, binary, tempDir, tempDir, "publish", "-m", "message", "posts/a.md")
	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	expectedParts := []string{
		"Error:",
		"Failed to load configuration",
		"Cause:",
		"config file not found",
		"Suggestion:",
	}
	for _, part := range expectedParts {
		if !strings.Contains(output, part) {
			t.Errorf("Expected output to contain %q, but got: %s", part, output)
		}
	}

	logFile := filepath.Join(tempDir, "gitclerk.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Expected gitclerk.log to be created")
	}
}

func TestCLI_ErrorHandling_InvalidConfigFile(t *testing.T) {
	binary := buildBinary(t)
	tempDir := t.TempDir()

	invalidYAML := `invalid: yaml: content:
  - this is not valid
    yaml: structure
      with: improper
    indentation`

	if err := os.WriteFile(filepath.Join(tempDir, "gitclerk.yaml"), []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to create invalid config file: %v", err)
	}

	output, err := runCLI(t, binary, tempDir, tempDir, "publish", "-m", "message", "posts/a.md")
	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	if !strings.Contains(output, "Error:") {
		t.Errorf("Expected error output, but got: %s", output)
	}
	if !strings.Contains(output, "Failed to load configuration") {
		t.Errorf("Expected configuration failure, but got: %s", output)
	}

	logFile := filepath.Join(tempDir, "gitclerk.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Expected gitclerk.log to be created")
	}
}

func TestCLI_ErrorHandling_InvalidFlag(t *testing.T) {
	binary := buildBinary(t)
	tempDir := t.TempDir()

	output, err := runCLI(t, binary, tempDir, tempDir, "publish", "--invalid-flag")
	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	if !strings.Contains(output, "unknown flag") {
		t.Errorf("Expected error output about unknown flag, but got: %s", output)
	}
}

func TestCLI_ErrorHandling_MissingMessageFlag(t *testing.T) {
	binary := buildBinary(t)
	tempDir := t.TempDir()

	output, err := runCLI(t, binary, tempDir, tempDir, "publish", "posts/a.md")
	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	if !strings.Contains(output, `required flag(s) "message" not set`) {
		t.Errorf("Expected missing flag error, but got: %s", output)
	}
}

func TestCLI_ErrorHandling_PublishOutsideRepository(t *testing.T) {
	binary := buildBinary(t)
	tempDir := t.TempDir()

	configYAML := "repo:\n  root: " + tempDir + "\n  contentDir: content\n"
	if err := os.WriteFile(filepath.Join(tempDir, "gitclerk.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	output, err := runCLI(t, binary, tempDir, tempDir, "publish", "-m", "message", "posts/a.md")
	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	expectedParts := []string{
		"Error:",
		"Failed to publish content",
		"Cause:",
		"Suggestion:",
	}
	for _, part := range expectedParts {
		if !strings.Contains(output, part) {
			t.Errorf("Expected output to contain %q, but got: %s", part, output)
		}
	}
}
