package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOrganizer() error {
	switch c.Organizer.Mode {
	case "copy", "move":
	default:
		return fmt.Errorf("organizer.mode must be copy or move, got %q", c.Organizer.Mode)
	}
	if c.Organizer.LogFile == "" {
		return errors.New("organizer.log_file must be set")
	}
	return nil
}

func (c *Config) validateFilter() error {
	if len(c.Filter.SupportedExtensions) == 0 {
		return errors.New("filter.supported_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.Backend {
	case MetadataBackendExiftool, MetadataBackendNative, MetadataBackendOff:
	default:
		return fmt.Errorf("metadata.backend must be exiftool, native, or off, got %q", c.Metadata.Backend)
	}
	if c.Metadata.Backend == MetadataBackendExiftool && c.Metadata.ExiftoolBinary == "" {
		return errors.New("metadata.exiftool_binary must be set when metadata.backend is exiftool")
	}
	if c.Metadata.TimeoutSeconds < 0 {
		return errors.New("metadata.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
