package organize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"pigeonhole/internal/config"
	"pigeonhole/internal/logging"
	"pigeonhole/internal/media"
	"pigeonhole/internal/runlock"
	"pigeonhole/internal/scan"
	"pigeonhole/internal/services"
)

// Mode selects how eligible files reach the output tree.
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

// ParseMode validates a mode value from flags or configuration.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ModeCopy):
		return ModeCopy, nil
	case string(ModeMove):
		return ModeMove, nil
	default:
		return "", services.Wrap(services.ErrValidation, "organize", "mode", fmt.Sprintf("mode must be copy or move, got %q", value), nil)
	}
}

// MetadataReader yields the raw capture-date fields for a file.
type MetadataReader interface {
	ReadDates(ctx context.Context, path string) (media.Dates, error)
}

// DateCache memoizes resolved dates between runs.
type DateCache interface {
	Lookup(ctx context.Context, path string, size, mtime int64) (time.Time, string, bool, error)
	Store(ctx context.Context, path string, size, mtime int64, taken time.Time, source string) error
}

// Request describes a single organizer run.
type Request struct {
	Source    string
	Output    string
	Mode      Mode
	Execute   bool
	BackupDir string
	// CollectActions retains the per-file action list on the summary for
	// callers that render plans. Large trees should leave it off.
	CollectActions bool
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return services.Wrap(services.ErrValidation, "organize", "request", "source directory is required", nil)
	}
	if strings.TrimSpace(r.Output) == "" {
		return services.Wrap(services.ErrValidation, "organize", "request", "output directory is required", nil)
	}
	switch r.Mode {
	case ModeCopy, ModeMove:
	default:
		return services.Wrap(services.ErrValidation, "organize", "request", fmt.Sprintf("unsupported mode %q", string(r.Mode)), nil)
	}
	return nil
}

// Organizer applies the date-based layout to a source tree.
type Organizer struct {
	cfg    *config.Config
	reader MetadataReader
	cache  DateCache
	logger *slog.Logger
	rules  scan.Rules
}

// New constructs an Organizer. reader and cache may be nil, which disables
// metadata probing and memoization respectively.
func New(cfg *config.Config, reader MetadataReader, cache DateCache, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		cfg:    cfg,
		reader: reader,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "organize"),
		rules:  scan.NewRules(cfg.Filter.SupportedExtensions, cfg.Filter.ExcludedExtensions, cfg.Filter.ExcludedPrefixes),
	}
}

// Run scans the source tree and relocates, or plans relocations for, every
// eligible file. Dry runs touch nothing on disk.
func (o *Organizer) Run(ctx context.Context, req Request) (*Summary, error) {
	start := time.Now()
	if err := req.validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(req.Source)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "organize", "source", req.Source, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "organize", "source", req.Source+" is not a directory", nil)
	}

	logger := logging.WithContext(ctx, o.logger)

	files, err := scan.Walk(req.Source)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "organize", "walk source", req.Source, err)
	}

	logger.Info("scan started",
		logging.String("source", req.Source),
		logging.Int("files", len(files)),
		logging.Bool("dry_run", !req.Execute))

	if req.Execute {
		if err := os.MkdirAll(req.Output, 0o755); err != nil {
			return nil, services.Wrap(services.ErrTransient, "organize", "create output directory", req.Output, err)
		}
		if o.cfg.Safety.LockOutput {
			lock, lockErr := runlock.Acquire(req.Output)
			if lockErr != nil {
				return nil, services.Wrap(services.ErrTransient, "organize", "lock output", req.Output, lockErr)
			}
			defer func() {
				if releaseErr := lock.Release(); releaseErr != nil {
					logger.Warn("failed to release output lock", logging.Error(releaseErr))
				}
			}()
		}
		if o.cfg.Safety.CheckFreeSpace {
			o.checkFreeSpace(logger, req, files)
		}
	}

	summary := newSummary(!req.Execute)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := o.processFile(ctx, logger, req, path, summary); err != nil {
			return nil, err
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("scan finished",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Bool("dry_run", summary.DryRun))
	return summary, nil
}
