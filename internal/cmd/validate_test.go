package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/speckit/internal/config"
	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/workflow"
)

func validSpec(t *testing.T) string {
	t.Helper()
	engine := workflow.NewEngine(config.DefaultConfig().Project, docstore.NewMemoryStore(), nil)
	return engine.InitialSpecification("A task manager.")
}

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateSpecs(t *testing.T) {
	tests := []struct {
		name           string
		files          map[string]string
		args           func(dir string) []string
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:  "single valid file",
			files: map[string]string{"spec.md": "valid"},
			args:  func(dir string) []string { return []string{filepath.Join(dir, "spec.md")} },
			wantContain: []string{
				"Validating 1 specification file(s):",
				"[1/1] spec.md ✓",
				"1 of 1 specifications valid",
			},
			wantNotContain: []string{"Warning"},
		},
		{
			name:    "empty file reports every finding",
			files:   map[string]string{"empty.md": ""},
			args:    func(dir string) []string { return []string{filepath.Join(dir, "empty.md")} },
			wantErr: true,
			wantContain: []string{
				"[1/1] empty.md ✗",
				"Findings (5):",
				"Missing required sections:",
				"No user stories found",
				"No checkboxes found for success criteria",
				"no In Scope section",
				"no Out of Scope section",
			},
		},
		{
			name: "directory walks nested markdown only",
			files: map[string]string{
				"a.md":          "valid",
				"nested/b.md":   "valid",
				"nested/c.txt":  "",
				"nested/d/e.md": "# Only a title",
			},
			args:    func(dir string) []string { return []string{dir} },
			wantErr: true,
			wantContain: []string{
				"Validating 3 specification file(s):",
				"2 of 3 specifications valid, 1 with findings",
				"e.md is incomplete",
			},
			wantNotContain: []string{"c.txt"},
		},
		{
			name: "glob pattern",
			files: map[string]string{
				"specs/spec-one.md": "valid",
				"specs/spec-two.md": "valid",
				"specs/notes.md":    "",
			},
			args: func(dir string) []string { return []string{filepath.Join(dir, "specs", "spec-*.md")} },
			wantContain: []string{
				"Validating 2 specification file(s):",
				"2 of 2 specifications valid",
			},
		},
		{
			name:  "duplicate paths are validated once",
			files: map[string]string{"spec.md": "valid"},
			args: func(dir string) []string {
				p := filepath.Join(dir, "spec.md")
				return []string{p, p, dir}
			},
			wantContain: []string{"Validating 1 specification file(s):"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				if content == "valid" {
					content = validSpec(t)
				}
				writeSpec(t, dir, name, content)
			}

			var buf bytes.Buffer
			err := validateSpecsWithOutput(tt.args(dir), false, &buf)
			output := buf.String()

			if tt.wantErr && err == nil {
				t.Errorf("Expected error, got nil\n%s", output)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v\n%s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing %q:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.wantNotContain {
				if strings.Contains(output, unwanted) {
					t.Errorf("Output should not contain %q:\n%s", unwanted, output)
				}
			}
		})
	}
}

func TestValidateSpecs_NoFiles(t *testing.T) {
	empty := t.TempDir()

	err := validateSpecsWithOutput([]string{empty}, false, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no specification files found") {
		t.Errorf("Expected no files error, got %v", err)
	}

	err = validateSpecsWithOutput([]string{filepath.Join(empty, "*.md")}, false, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no files match pattern") {
		t.Errorf("Expected unmatched glob error, got %v", err)
	}
}

func TestValidateCommand_Outline(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "spec.md", validSpec(t))

	output, err := executeCommand(t, "validate", "--outline", path)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "        speckit-project - Project Specification") {
		t.Errorf("Expected top-level heading, got: %s", output)
	}
	if !strings.Contains(output, "          User Stories") {
		t.Errorf("Expected indented second-level heading, got: %s", output)
	}
	if !strings.Contains(output, "            In Scope") {
		t.Errorf("Expected third-level heading, got: %s", output)
	}
}
