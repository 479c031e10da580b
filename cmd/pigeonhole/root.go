package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"pigeonhole/internal/config"
	"pigeonhole/internal/datecache"
	"pigeonhole/internal/deps"
	"pigeonhole/internal/logging"
	"pigeonhole/internal/media/exiftool"
	"pigeonhole/internal/media/native"
	"pigeonhole/internal/organize"
	"pigeonhole/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var sourceFlag string
	var outputFlag string
	var executeFlag bool
	var modeFlag string
	var logFileFlag string
	var backupDirFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "pigeonhole",
		Short: "Organize media files into date-based directories",
		Long: `Pigeonhole scans a source tree for media files, resolves when each one
was captured, and files it under OUTPUT/YYYY/MM/DD. Runs are dry by
default; pass --execute to touch the disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, ctx, organizeFlags{
				source:    sourceFlag,
				output:    outputFlag,
				execute:   executeFlag,
				mode:      modeFlag,
				logFile:   logFileFlag,
				backupDir: backupDirFlag,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringVar(&sourceFlag, "source", "", "Directory to scan for media files")
	rootCmd.Flags().StringVar(&outputFlag, "output", "", "Root of the organized date tree")
	rootCmd.Flags().BoolVar(&executeFlag, "execute", false, "Apply changes instead of the default dry run")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Transfer mode: copy or move (default from config)")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Decision log location (default from config)")
	rootCmd.Flags().StringVar(&backupDirFlag, "backup-dir", "", "Copy originals here before moving them")
	_ = rootCmd.MarkFlagRequired("source")
	_ = rootCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

type organizeFlags struct {
	source    string
	output    string
	execute   bool
	mode      string
	logFile   string
	backupDir string
}

func runOrganize(cmd *cobra.Command, cmdCtx *commandContext, flags organizeFlags) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	source, err := config.ExpandPath(flags.source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	output, err := config.ExpandPath(flags.output)
	if err != nil {
		return fmt.Errorf("resolve output: %w", err)
	}

	modeValue := flags.mode
	if modeValue == "" {
		modeValue = cfg.Organizer.Mode
	}
	mode, err := organize.ParseMode(modeValue)
	if err != nil {
		return err
	}

	logFile := flags.logFile
	if logFile == "" {
		logFile = cfg.Organizer.LogFile
	}
	if logFile, err = config.ExpandPath(logFile); err != nil {
		return fmt.Errorf("resolve log file: %w", err)
	}

	backupDir := flags.backupDir
	if backupDir == "" {
		backupDir = cfg.Organizer.BackupDir
	}
	if backupDir != "" {
		if backupDir, err = config.ExpandPath(backupDir); err != nil {
			return fmt.Errorf("resolve backup dir: %w", err)
		}
	}

	logger, err := logging.NewFromConfig(cfg, logFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx := services.WithRunID(cmd.Context(), services.NewRunID())
	reader := buildMetadataReader(cfg, logger)

	var cache organize.DateCache
	if cfg.Cache.Enabled {
		opened, cacheErr := datecache.Open(cfg.Cache.Path)
		if cacheErr != nil {
			logger.Warn("date cache unavailable", logging.Error(cacheErr))
		} else {
			defer opened.Close()
			cache = opened
		}
	}

	interactive := terminalWriter(cmd.OutOrStdout())
	req := organize.Request{
		Source:         source,
		Output:         output,
		Mode:           mode,
		Execute:        flags.execute,
		BackupDir:      backupDir,
		CollectActions: interactive && !flags.execute,
	}

	summary, err := organize.New(cfg, reader, cache, logger).Run(ctx, req)
	if err != nil {
		return err
	}

	if interactive {
		renderRun(cmd.OutOrStdout(), req, summary)
	}
	return nil
}

// buildMetadataReader selects the capture-date provider. A configured
// exiftool backend quietly downgrades to the native parser when the binary is
// not installed.
func buildMetadataReader(cfg *config.Config, logger *slog.Logger) organize.MetadataReader {
	switch cfg.Metadata.Backend {
	case config.MetadataBackendOff:
		return nil
	case config.MetadataBackendNative:
		return native.New()
	default:
		for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
			if status.Name == "exiftool" && !status.Available {
				logger.Warn("exiftool unavailable, falling back to native metadata parser",
					logging.String("detail", status.Detail))
				return native.New()
			}
		}
		return exiftool.New(cfg.Metadata.ExiftoolBinary, time.Duration(cfg.Metadata.TimeoutSeconds)*time.Second)
	}
}
