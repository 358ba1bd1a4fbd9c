package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binaryPath locates the habitlit binary: HABITLIT_BIN_DIR if set, otherwise
// the repository's bin directory. The test is skipped when it isn't built.
func binaryPath(t *testing.T) string {
	t.Helper()
	binDir := os.Getenv("HABITLIT_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join("..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "habitlit")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it first to run the end-to-end tests.", cliPath)
	}
	t.Logf("Using binary: %s", cliPath)
	return cliPath
}

// isolatedEnv returns the process environment with HOME and the data path
// pointed into tempDir.
func isolatedEnv(tempDir, dataPath string) []string {
	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "HABITLIT_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv, fmt.Sprintf("HOME=%s", tempDir))
	cleanEnv = append(cleanEnv, fmt.Sprintf("HABITLIT_DATA=%s", dataPath))
	return cleanEnv
}

func TestEndToEndWorkflow(t *testing.T) {
	cliPath := binaryPath(t)

	for _, filename := range []string{"habits.json", "habits.db"} {
		t.Run(filename, func(t *testing.T) {
			tempDir := t.TempDir()
			dataPath := filepath.Join(tempDir, "habitlit", filename)
			env := isolatedEnv(tempDir, dataPath)

			runCmd(t, cliPath, env, "", "init")
			runCmd(t, cliPath, env, "", "add", "Read", "--description", "20 pages", "--goal", "30")
			runCmd(t, cliPath, env, "", "add", "Gym", "--days", "mon,wed,fri")
			runCmd(t, cliPath, env, "", "toggle", "Read", "yesterday")
			out := runCmd(t, cliPath, env, "", "toggle", "Read")
			if !strings.Contains(out, "streak: 2") {
				t.Errorf("expected streak 2 after two days, got: %s", out)
			}

			out = runCmd(t, cliPath, env, "", "list", "--search", "read")
			if !strings.Contains(out, "Read") || strings.Contains(out, "Gym") {
				t.Errorf("unexpected search output: %s", out)
			}

			out = runCmd(t, cliPath, env, "", "stats")
			if !strings.Contains(out, "Total habits:     2") {
				t.Errorf("unexpected stats output: %s", out)
			}

			out = runCmd(t, cliPath, env, "", "debug", "dump")
			var dumped []map[string]any
			if err := json.Unmarshal([]byte(out), &dumped); err != nil {
				t.Fatalf("debug dump is not JSON: %v\n%s", err, out)
			}
			if len(dumped) != 2 {
				t.Errorf("expected 2 habits in dump, got %d", len(dumped))
			}

			runCmd(t, cliPath, env, "", "backup", "create")
			runCmd(t, cliPath, env, "y\n", "delete", "Gym")

			out = runCmd(t, cliPath, env, "", "validate")
			if !strings.Contains(out, "No conflicts detected.") {
				t.Errorf("unexpected validate output: %s", out)
			}

			out = runCmd(t, cliPath, env, "", "doctor")
			if !strings.Contains(out, "All diagnostics passed!") {
				t.Errorf("unexpected doctor output: %s", out)
			}

			if _, err := os.Stat(filepath.Join(tempDir, "habitlit", "logs", "habitlit.log")); err != nil {
				t.Errorf("expected a log file: %v", err)
			}
		})
	}
}

func TestEndToEnd_Errors(t *testing.T) {
	cliPath := binaryPath(t)
	tempDir := t.TempDir()
	env := isolatedEnv(tempDir, filepath.Join(tempDir, "habits.json"))

	out, err := run(cliPath, env, "", "toggle", "Missing")
	if err == nil {
		t.Fatalf("expected toggle of an unknown habit to fail, got: %s", out)
	}
	if !strings.Contains(out, "Error: habit not found") {
		t.Errorf("unexpected error output: %s", out)
	}

	if out, err := run(cliPath, env, "", "add", ""); err == nil {
		t.Errorf("expected empty name to be rejected, got: %s", out)
	}
}

func run(path string, env []string, stdin string, args ...string) (string, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func runCmd(t *testing.T, path string, env []string, stdin string, args ...string) string {
	t.Helper()
	out, err := run(path, env, stdin, args...)
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return out
}
