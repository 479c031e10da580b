package organize_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pigeonhole/internal/config"
	"pigeonhole/internal/datecache"
	"pigeonhole/internal/logging"
	"pigeonhole/internal/media"
	"pigeonhole/internal/organize"
	"pigeonhole/internal/runlock"
	"pigeonhole/internal/scan"
	"pigeonhole/internal/services"
	"pigeonhole/internal/testsupport"
)

type stubReader struct {
	dates map[string]media.Dates
	err   error
	calls int
}

func (s *stubReader) ReadDates(_ context.Context, path string) (media.Dates, error) {
	s.calls++
	if s.err != nil {
		return media.Dates{}, s.err
	}
	return s.dates[filepath.Base(path)], nil
}

func newRequest(t *testing.T) (organize.Request, string, string) {
	t.Helper()

	base := t.TempDir()
	source := filepath.Join(base, "incoming")
	output := filepath.Join(base, "library")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	return organize.Request{
		Source: source,
		Output: output,
		Mode:   organize.ModeCopy,
	}, source, output
}

func mustRun(t *testing.T, cfg *config.Config, reader organize.MetadataReader, req organize.Request) *organize.Summary {
	t.Helper()

	summary, err := organize.New(cfg, reader, nil, logging.NewNop()).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return summary
}

func TestRunSkipsIneligibleAndCountsExecuted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, output := newRequest(t)
	req.Execute = true

	mtime := time.Date(2023, 7, 14, 9, 30, 0, 0, time.Local)
	testsupport.WriteFileWithModTime(t, filepath.Join(source, "clip.mp4"), mtime)
	testsupport.WriteFile(t, filepath.Join(source, "thumb_clip.jpg"), 64)
	testsupport.WriteFile(t, filepath.Join(source, "draft.tmp"), 64)

	summary := mustRun(t, cfg, &stubReader{}, req)

	if summary.Processed != 1 || summary.Skipped != 2 {
		t.Fatalf("processed=%d skipped=%d, want 1/2", summary.Processed, summary.Skipped)
	}
	if summary.SkippedByReason[scan.ReasonExcludedPrefix] != 1 || summary.SkippedByReason[scan.ReasonExcludedExtension] != 1 {
		t.Fatalf("unexpected skip reasons: %+v", summary.SkippedByReason)
	}

	dest := filepath.Join(output, "2023", "07", "14", "clip.mp4")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	// Copy mode keeps the original in place.
	if _, err := os.Stat(filepath.Join(source, "clip.mp4")); err != nil {
		t.Fatalf("source should survive a copy: %v", err)
	}
	if summary.Bytes != 16 {
		t.Fatalf("unexpected byte count %d", summary.Bytes)
	}
}

func TestDryRunMutatesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, output := newRequest(t)
	req.CollectActions = true

	testsupport.WriteFileWithModTime(t, filepath.Join(source, "clip.mp4"), time.Date(2023, 7, 14, 9, 30, 0, 0, time.Local))

	first := mustRun(t, cfg, &stubReader{}, req)
	if first.Processed != 0 || first.Planned != 1 {
		t.Fatalf("dry run processed=%d planned=%d, want 0/1", first.Processed, first.Planned)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run must not create the output tree: %v", err)
	}

	// A second dry run sees the identical world and plans identically.
	second := mustRun(t, cfg, &stubReader{}, req)
	if len(first.Actions) != 1 || len(second.Actions) != 1 {
		t.Fatalf("expected one collected action per run, got %d and %d", len(first.Actions), len(second.Actions))
	}
	if first.Actions[0].Destination != second.Actions[0].Destination {
		t.Fatalf("dry runs disagree: %q vs %q", first.Actions[0].Destination, second.Actions[0].Destination)
	}
}

func TestExecuteCollisionAddsSuffixes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, output := newRequest(t)
	req.Execute = true

	reader := &stubReader{dates: map[string]media.Dates{
		"clip.mp4": {DateTimeOriginal: "2024:01:01 10:00:00"},
	}}

	testsupport.WriteFile(t, filepath.Join(source, "clip.mp4"), 32)
	dayDir := filepath.Join(output, "2024", "01", "01")
	testsupport.WriteFile(t, filepath.Join(dayDir, "clip.mp4"), 8)

	mustRun(t, cfg, reader, req)
	if _, err := os.Stat(filepath.Join(dayDir, "clip_001.mp4")); err != nil {
		t.Fatalf("first collision suffix missing: %v", err)
	}

	mustRun(t, cfg, reader, req)
	if _, err := os.Stat(filepath.Join(dayDir, "clip_002.mp4")); err != nil {
		t.Fatalf("second collision suffix missing: %v", err)
	}
}

func TestDateFieldPriority(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, _ := newRequest(t)
	req.CollectActions = true

	reader := &stubReader{dates: map[string]media.Dates{
		"both.mp4": {
			DateTimeOriginal: "2023:05:01 10:00:00",
			CreateDate:       "2023:06:01 10:00:00",
		},
	}}
	testsupport.WriteFile(t, filepath.Join(source, "both.mp4"), 16)

	summary := mustRun(t, cfg, reader, req)
	action := summary.Actions[0]
	if action.DateSource != media.FieldDateTimeOriginal {
		t.Fatalf("unexpected date source %q", action.DateSource)
	}
	if !strings.Contains(action.Destination, filepath.Join("2023", "05", "01")) {
		t.Fatalf("destination %q should use DateTimeOriginal", action.Destination)
	}
}

func TestUnparseableFieldFallsToNext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, _ := newRequest(t)
	req.CollectActions = true

	reader := &stubReader{dates: map[string]media.Dates{
		"clip.mp4": {
			DateTimeOriginal: "not a timestamp",
			CreateDate:       "2023-06-02T08:30:00+02:00",
		},
	}}
	testsupport.WriteFile(t, filepath.Join(source, "clip.mp4"), 16)

	summary := mustRun(t, cfg, reader, req)
	action := summary.Actions[0]
	if action.DateSource != media.FieldCreateDate {
		t.Fatalf("unexpected date source %q", action.DateSource)
	}
	if !strings.Contains(action.Destination, filepath.Join("2023", "06", "02")) {
		t.Fatalf("destination %q should use CreateDate", action.Destination)
	}
}

func TestReaderFailureFallsBackToModTime(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, _ := newRequest(t)
	req.CollectActions = true

	testsupport.WriteFileWithModTime(t, filepath.Join(source, "clip.mp4"), time.Date(2022, 12, 25, 8, 0, 0, 0, time.Local))

	summary := mustRun(t, cfg, &stubReader{err: errors.New("probe exploded")}, req)
	action := summary.Actions[0]
	if action.DateSource != organize.SourceMtime {
		t.Fatalf("unexpected date source %q", action.DateSource)
	}
	if !strings.Contains(action.Destination, filepath.Join("2022", "12", "25")) {
		t.Fatalf("destination %q should use the modification time", action.Destination)
	}
}

func TestMoveWithBackupKeepsOriginalCopy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, output := newRequest(t)
	req.Execute = true
	req.Mode = organize.ModeMove
	req.BackupDir = filepath.Join(filepath.Dir(source), "backup")

	nested := filepath.Join(source, "trip", "day1", "clip.mp4")
	testsupport.WriteFileWithModTime(t, nested, time.Date(2023, 7, 14, 9, 30, 0, 0, time.Local))

	summary := mustRun(t, cfg, &stubReader{}, req)
	if summary.Processed != 1 {
		t.Fatalf("processed=%d, want 1", summary.Processed)
	}

	if _, err := os.Stat(nested); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("move should remove the original: %v", err)
	}
	backup := filepath.Join(req.BackupDir, "trip", "day1", "clip.mp4")
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup missing at source-relative path: %v", err)
	}
	dest := filepath.Join(output, "2023", "07", "14", "clip.mp4")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
}

func TestCopyModeIgnoresBackupDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, _ := newRequest(t)
	req.Execute = true
	req.BackupDir = filepath.Join(filepath.Dir(source), "backup")

	testsupport.WriteFile(t, filepath.Join(source, "clip.mp4"), 16)

	mustRun(t, cfg, &stubReader{}, req)
	if _, err := os.Stat(req.BackupDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("copy mode must not write backups: %v", err)
	}
}

func TestRunRequestValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	organizer := organize.New(cfg, &stubReader{}, nil, logging.NewNop())
	ctx := context.Background()

	if _, err := organizer.Run(ctx, organize.Request{Output: "/tmp/out", Mode: organize.ModeCopy}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing source should be a validation error, got %v", err)
	}
	if _, err := organizer.Run(ctx, organize.Request{Source: "/tmp/in", Mode: organize.ModeCopy}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing output should be a validation error, got %v", err)
	}

	req, _, _ := newRequest(t)
	req.Mode = "shuffle"
	if _, err := organizer.Run(ctx, req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad mode should be a validation error, got %v", err)
	}

	missing := req
	missing.Mode = organize.ModeCopy
	missing.Source = filepath.Join(t.TempDir(), "nope")
	if _, err := organizer.Run(ctx, missing); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing source dir should be not-found, got %v", err)
	}
}

func TestRunUsesDateCache(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, _ := newRequest(t)

	cache, err := datecache.Open(cfg.Cache.Path)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	reader := &stubReader{dates: map[string]media.Dates{
		"clip.mp4": {DateTimeOriginal: "2023:05:01 10:00:00"},
	}}
	testsupport.WriteFile(t, filepath.Join(source, "clip.mp4"), 16)

	organizer := organize.New(cfg, reader, cache, logging.NewNop())
	if _, err := organizer.Run(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := organizer.Run(context.Background(), req); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if reader.calls != 1 {
		t.Fatalf("expected a single metadata probe across runs, got %d", reader.calls)
	}
}

func TestExecuteRefusesLockedOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, output := newRequest(t)
	req.Execute = true

	testsupport.WriteFile(t, filepath.Join(source, "clip.mp4"), 16)

	held, err := runlock.Acquire(output)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.Release()

	_, err = organize.New(cfg, &stubReader{}, nil, logging.NewNop()).Run(context.Background(), req)
	if !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected held-lock error, got %v", err)
	}
}

func TestRunWritesDecisionLog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	req, source, _ := newRequest(t)

	logPath := cfg.Organizer.LogFile
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	testsupport.WriteFile(t, filepath.Join(source, "clip.mp4"), 16)
	testsupport.WriteFile(t, filepath.Join(source, "draft.tmp"), 16)

	if _, err := organize.New(cfg, &stubReader{}, nil, logger).Run(context.Background(), req); err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(raw)
	for _, fragment := range []string{
		"scan started",
		"dry_run=true",
		"organize: plan",
		"date_source=mtime",
		"reason=excluded-extension",
		"scan finished",
	} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("log missing %q:\n%s", fragment, content)
		}
	}
}
