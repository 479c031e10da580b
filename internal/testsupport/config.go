package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pigeonhole/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Organizer.LogFile = filepath.Join(base, "logs", "organizer.log")
	cfgVal.Cache.Enabled = false
	cfgVal.Cache.Path = filepath.Join(base, "cache", "dates.db")
	cfgVal.Safety.CheckFreeSpace = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode sets the transfer mode on the test config.
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organizer.Mode = mode
	}
}

// WithMetadataBackend selects the metadata backend on the test config.
func WithMetadataBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metadata.Backend = backend
	}
}

// WithCache enables the date cache backed by a per-test database file.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, exiftool is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"exiftool"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		script := "#!/bin/sh\nexit 0\n"
		for _, name := range names {
			StubBinary(b.t, binDir, name, script)
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Organizer.LogFile))
}
