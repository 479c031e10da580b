package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Organizer contains the run behaviour settings that flags can override.
type Organizer struct {
	Mode      string `toml:"mode"`
	LogFile   string `toml:"log_file"`
	BackupDir string `toml:"backup_dir"`
}

// Filter contains the eligibility rule sets applied to every scanned file.
type Filter struct {
	SupportedExtensions []string `toml:"supported_extensions"`
	ExcludedExtensions  []string `toml:"excluded_extensions"`
	ExcludedPrefixes    []string `toml:"excluded_prefixes"`
}

// Metadata backend selectors.
const (
	MetadataBackendExiftool = "exiftool"
	MetadataBackendNative   = "native"
	MetadataBackendOff      = "off"
)

// Metadata contains configuration for the capture-date provider.
type Metadata struct {
	Backend        string `toml:"backend"`
	ExiftoolBinary string `toml:"exiftool_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Cache contains configuration for the resolved-date cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Safety contains knobs for the defensive checks around executing runs.
type Safety struct {
	LockOutput     bool `toml:"lock_output"`
	VerifyCopies   bool `toml:"verify_copies"`
	CheckFreeSpace bool `toml:"check_free_space"`
}

// Config encapsulates all configuration values for Pigeonhole.
//
// Configuration sections by subsystem:
//   - Organizer: copy/move mode, log destination, backup directory
//   - Filter: supported and excluded extension sets, excluded name prefixes
//   - Metadata: capture-date backend selection and exiftool settings
//   - Cache: resolved-date memoization between dry-run and execute passes
//   - Logging: log format and level
//   - Safety: output locking, copy verification, free-space preflight
type Config struct {
	Organizer Organizer `toml:"organizer"`
	Filter    Filter    `toml:"filter"`
	Metadata  Metadata  `toml:"metadata"`
	Cache     Cache     `toml:"cache"`
	Logging   Logging   `toml:"logging"`
	Safety    Safety    `toml:"safety"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pigeonhole/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. When no file exists the defaults
// are returned, so running without a config file behaves exactly as documented.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pigeonhole.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
