package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// setupProject points the project root at a fresh temp directory and writes
// a config that keeps research offline and unpaced.
func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	home := filepath.Join(dir, ".speckit")
	if err := os.MkdirAll(home, 0755); err != nil {
		t.Fatalf("Failed to create home: %v", err)
	}
	cfg := `project:
  name: Test Project
research:
  api_key_env: SPECKIT_TEST_MISSING_KEY
  pause: 0s
`
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("SPECKIT_HOME", home)
	t.Setenv("SPECKIT_TEST_MISSING_KEY", "")
	return dir
}

// executeCommand runs the root command with args and returns combined output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	output, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("Help returned error: %v", err)
	}
	if !strings.Contains(output, "speckit") {
		t.Errorf("Help text should contain 'speckit', got: %s", output)
	}
	if !strings.Contains(output, "specify, plan, tasks and implement") {
		t.Errorf("Help text should describe the pipeline, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "speckit" {
		t.Errorf("Expected Use to be 'speckit', got '%s'", cmd.Use)
	}

	want := []string{"init", "phase", "run", "validate", "advance", "status", "report", "research", "history", "serve"}
	have := make(map[string]bool)
	for _, c := range cmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("Missing subcommand %q", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	output, _ := executeCommand(t, "--version")
	if !strings.Contains(output, "version") {
		t.Errorf("Version output should contain 'version', got: %s", output)
	}
}

func TestPersistentFlagsRejectInvalidConfig(t *testing.T) {
	setupProject(t)

	_, err := executeCommand(t, "report", "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("Expected invalid configuration error, got %v", err)
	}
}
