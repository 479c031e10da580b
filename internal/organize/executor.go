package organize

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"pigeonhole/internal/fileutil"
	"pigeonhole/internal/logging"
	"pigeonhole/internal/services"
	"pigeonhole/internal/textutil"
)

func (o *Organizer) processFile(ctx context.Context, logger *slog.Logger, req Request, path string, summary *Summary) error {
	name := filepath.Base(path)
	if reason := o.rules.Evaluate(name); reason != "" {
		logger.Debug("skip",
			logging.String(logging.FieldFile, path),
			logging.String(logging.FieldReason, string(reason)))
		summary.recordSkip(reason)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "organize", "inspect", path, err)
	}

	taken, source := o.resolveDate(ctx, logger, path, info)
	destDir := dayDir(req.Output, taken)
	destPath, err := uniquePath(filepath.Join(destDir, textutil.NormalizeFilename(name)))
	if err != nil {
		return services.Wrap(services.ErrTransient, "organize", "probe destination", path, err)
	}

	logger.Info("plan",
		logging.String("source", path),
		logging.String("destination", destPath),
		logging.String("date_source", source))
	summary.recordPlan(req.CollectActions, Action{
		Source:      path,
		Destination: destPath,
		DateSource:  source,
		Operation:   req.Mode,
		Size:        info.Size(),
	})

	if !req.Execute {
		return nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "organize", "create day directory", destDir, err)
	}

	// The backup must land before a move destroys the original.
	if req.Mode == ModeMove && req.BackupDir != "" {
		if err := o.backupOriginal(logger, req, path); err != nil {
			return err
		}
	}

	switch req.Mode {
	case ModeMove:
		if err := fileutil.MoveFile(path, destPath); err != nil {
			return services.Wrap(services.ErrTransient, "organize", "move", path, err)
		}
	default:
		if err := o.copyFile(path, destPath); err != nil {
			return services.Wrap(services.ErrTransient, "organize", "copy", path, err)
		}
	}

	summary.recordDone(info.Size())
	logger.Info("done", logging.String("destination", destPath))
	return nil
}

func (o *Organizer) copyFile(src, dst string) error {
	if o.cfg.Safety.VerifyCopies {
		return fileutil.CopyFileVerified(src, dst)
	}
	return fileutil.CopyFilePreserving(src, dst)
}

// backupOriginal copies the file into the backup tree at its source-relative
// path.
func (o *Organizer) backupOriginal(logger *slog.Logger, req Request, path string) error {
	rel, err := filepath.Rel(req.Source, path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "organize", "backup", path, err)
	}
	backupPath := filepath.Join(req.BackupDir, rel)
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "organize", "backup", backupPath, err)
	}
	if err := o.copyFile(path, backupPath); err != nil {
		return services.Wrap(services.ErrTransient, "organize", "backup", path, err)
	}
	logger.Info("backup", logging.String("destination", backupPath))
	return nil
}

// checkFreeSpace warns when the output volume looks too small for the
// eligible bytes. Moves within one filesystem need no extra space, so this
// never fails the run.
func (o *Organizer) checkFreeSpace(logger *slog.Logger, req Request, files []string) {
	var required uint64
	for _, path := range files {
		if o.rules.Evaluate(filepath.Base(path)) != "" {
			continue
		}
		if info, err := os.Stat(path); err == nil {
			required += uint64(info.Size())
		}
	}
	if required == 0 {
		return
	}
	free, err := fileutil.FreeBytes(req.Output)
	if err != nil {
		logger.Debug("free space probe failed", logging.Error(err))
		return
	}
	if free < required {
		logger.Warn("output volume may run out of space",
			logging.String("required", humanize.IBytes(required)),
			logging.String("available", humanize.IBytes(free)))
	}
}
