package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeOrganizer(); err != nil {
		return err
	}
	c.normalizeFilter()
	c.normalizeMetadata()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeOrganizer() error {
	c.Organizer.Mode = strings.ToLower(strings.TrimSpace(c.Organizer.Mode))
	if c.Organizer.Mode == "" {
		c.Organizer.Mode = defaultMode
	}

	c.Organizer.LogFile = strings.TrimSpace(c.Organizer.LogFile)
	if c.Organizer.LogFile == "" {
		c.Organizer.LogFile = defaultLogFile
	}
	var err error
	if c.Organizer.LogFile, err = expandPath(c.Organizer.LogFile); err != nil {
		return fmt.Errorf("organizer.log_file: %w", err)
	}

	c.Organizer.BackupDir = strings.TrimSpace(c.Organizer.BackupDir)
	if c.Organizer.BackupDir != "" {
		if c.Organizer.BackupDir, err = expandPath(c.Organizer.BackupDir); err != nil {
			return fmt.Errorf("organizer.backup_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeFilter() {
	c.Filter.SupportedExtensions = normalizeExtensions(c.Filter.SupportedExtensions)
	c.Filter.ExcludedExtensions = normalizeExtensions(c.Filter.ExcludedExtensions)
	c.Filter.ExcludedPrefixes = normalizePrefixes(c.Filter.ExcludedPrefixes)
}

// normalizeExtensions lowercases entries and guarantees the leading dot so
// comparisons against filepath.Ext results are direct.
func normalizeExtensions(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cleaned = append(cleaned, ext)
	}
	return cleaned
}

func normalizePrefixes(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		prefix := strings.ToLower(strings.TrimSpace(value))
		if prefix == "" {
			continue
		}
		cleaned = append(cleaned, prefix)
	}
	return cleaned
}

func (c *Config) normalizeMetadata() {
	c.Metadata.Backend = strings.ToLower(strings.TrimSpace(c.Metadata.Backend))
	if c.Metadata.Backend == "" {
		c.Metadata.Backend = defaultMetadataBackend
	}
	c.Metadata.ExiftoolBinary = strings.TrimSpace(c.Metadata.ExiftoolBinary)
	if c.Metadata.ExiftoolBinary == "" {
		c.Metadata.ExiftoolBinary = defaultExiftoolBinary
	}
}

func (c *Config) normalizeCache() error {
	c.Cache.Path = strings.TrimSpace(c.Cache.Path)
	if c.Cache.Path == "" {
		c.Cache.Path = defaultCachePath
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
