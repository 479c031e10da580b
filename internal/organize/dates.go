package organize

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"pigeonhole/internal/logging"
)

// SourceMtime marks dates taken from the filesystem modification time rather
// than embedded metadata.
const SourceMtime = "mtime"

// timestampLayouts covers the forms the metadata providers emit, with and
// without zone offsets.
var timestampLayouts = []string{
	"2006:01:02 15:04:05",
	"2006:01:02 15:04:05-0700",
	"2006:01:02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07:00",
}

// parseTimestamp interprets a raw metadata value. A trailing Z is rewritten
// to +0000 so zoned UTC values take the numeric-offset layouts.
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(raw, "Z") {
		raw = strings.TrimSuffix(raw, "Z") + "+0000"
	}
	for _, layout := range timestampLayouts {
		if when, err := time.Parse(layout, raw); err == nil {
			return when, true
		}
	}
	return time.Time{}, false
}

// resolveDate decides which calendar day a file belongs to. Metadata wins in
// field priority order; anything unreadable or unparseable falls back to the
// modification time. Cache failures degrade to a fresh probe.
func (o *Organizer) resolveDate(ctx context.Context, logger *slog.Logger, path string, info os.FileInfo) (time.Time, string) {
	size := info.Size()
	mtime := info.ModTime().Unix()

	if o.cache != nil {
		when, source, found, err := o.cache.Lookup(ctx, path, size, mtime)
		switch {
		case err != nil:
			logger.Debug("date cache lookup failed",
				logging.String(logging.FieldFile, path),
				logging.Error(err))
		case found:
			return when, source
		}
	}

	if o.reader != nil {
		dates, err := o.reader.ReadDates(ctx, path)
		if err != nil {
			logger.Debug("metadata probe failed",
				logging.String(logging.FieldFile, path),
				logging.Error(err))
		} else {
			for _, field := range dates.InPriorityOrder() {
				when, ok := parseTimestamp(field.Value)
				if !ok {
					continue
				}
				if o.cache != nil {
					if storeErr := o.cache.Store(ctx, path, size, mtime, when, field.Name); storeErr != nil {
						logger.Debug("date cache store failed",
							logging.String(logging.FieldFile, path),
							logging.Error(storeErr))
					}
				}
				return when, field.Name
			}
		}
	}

	return info.ModTime(), SourceMtime
}
