package config

const (
	defaultMode            = "copy"
	defaultLogFile         = "logs/organizer.log"
	defaultMetadataBackend = MetadataBackendExiftool
	defaultExiftoolBinary  = "exiftool"
	defaultCachePath       = "~/.cache/pigeonhole/dates.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultSupportedExtensions() []string {
	return []string{".mp4", ".mov", ".png", ".jpg", ".wav"}
}

func defaultExcludedExtensions() []string {
	return []string{".tmp", ".part", ".crdownload"}
}

func defaultExcludedPrefixes() []string {
	return []string{"thumb", "thumbnail", "~$", "."}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organizer: Organizer{
			Mode:    defaultMode,
			LogFile: defaultLogFile,
		},
		Filter: Filter{
			SupportedExtensions: defaultSupportedExtensions(),
			ExcludedExtensions:  defaultExcludedExtensions(),
			ExcludedPrefixes:    defaultExcludedPrefixes(),
		},
		Metadata: Metadata{
			Backend:        defaultMetadataBackend,
			ExiftoolBinary: defaultExiftoolBinary,
			TimeoutSeconds: 0,
		},
		Cache: Cache{
			Enabled: false,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Safety: Safety{
			LockOutput:     true,
			VerifyCopies:   false,
			CheckFreeSpace: true,
		},
	}
}
