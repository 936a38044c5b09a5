package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// HomeDirName is the per-project directory holding config, logs and history
const HomeDirName = ".speckit"

// FindProjectRoot returns the directory that owns the speckit home.
// Priority order:
//  1. SPECKIT_HOME environment variable (if set, its parent is the root)
//  2. Nearest ancestor of start containing a .speckit directory
//  3. start itself
func FindProjectRoot(start string) (string, error) {
	if home := os.Getenv("SPECKIT_HOME"); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve SPECKIT_HOME: %w", err)
		}
		return filepath.Dir(abs), nil
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}

	current := dir
	for {
		if info, err := os.Stat(filepath.Join(current, HomeDirName)); err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root
			return dir, nil
		}
		current = parent
	}
}

// ConfigPath returns the config file location for a project root
func ConfigPath(root string) string {
	return filepath.Join(root, HomeDirName, "config.yaml")
}

// LoadConfigFromDir loads configuration from .speckit/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(ConfigPath(dir))
}

// ResolvePath makes p absolute relative to root; absolute paths are returned unchanged
func ResolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// ResolveAPIKey returns the research credential.
// The process environment wins; otherwise the variable is looked up in
// root/.env. An empty result means research runs in mock mode.
func (r ResearchConfig) ResolveAPIKey(root string) string {
	if v := strings.TrimSpace(os.Getenv(r.APIKeyEnv)); v != "" {
		return v
	}

	values, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values[r.APIKeyEnv])
}
