package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mt-loc-tools/internal/batch"
	"mt-loc-tools/internal/config"
	"mt-loc-tools/internal/texture"
)

var (
	configPath string
	verbose    bool
	flags      config.Flags

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mtloc",
	Short: "Localization tools for MT Framework 3DS games",
	Long: `mtloc converts the game's localization assets to editable files and back.

Supported formats:
  - GMD message scripts (unpack, repack, verify)
  - GFD font descriptors (dump, repack, generate, export)
  - TEX textures in LA4 (decode, encode, info)
  - character lists for font generation (count, from-csv, merge)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		cfg.Resolve(flags)
		if _, err := texture.ParseFormat(cfg.ImageFormat); err != nil {
			return err
		}
		logger.Debug("config resolved", "workers", cfg.Workers, "format", cfg.ImageFormat, "preview", cfg.Preview)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a YAML config file (default: $"+config.EnvVar+")")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	pf.IntVarP(&flags.Workers, "workers", "j", 0, "number of worker goroutines (default: NumCPU)")
	pf.StringVar(&flags.ImageFormat, "format", "", "image format for decoded output: png, tga or webp (default: png)")
	pf.BoolVar(&flags.Preview, "preview", false, "also write scaled preview images of generated atlas pages")
}

func batchConfig(in, out string) batch.Config {
	format, _ := texture.ParseFormat(cfg.ImageFormat)
	return batch.Config{
		InputDir:    in,
		OutputDir:   out,
		Workers:     cfg.Workers,
		Skip:        cfg.Skip,
		Format:      format,
		Preview:     cfg.Preview,
		PreviewSize: cfg.PreviewSize,
		Logger:      logger,
	}
}

func fontAdjust() image.Point {
	return image.Pt(cfg.Font.AdjustX, cfg.Font.AdjustY)
}

// finish reports a batch run, writes its manifest into outDir and fails
// if any job failed.
func finish(command, outDir string, start time.Time, results []batch.Result) error {
	failed := batch.Failed(results)
	logger.Info("done",
		"command", command,
		"succeeded", len(results)-len(failed),
		"total", len(results),
		"elapsed", time.Since(start).Round(time.Millisecond))

	limit := min(len(failed), 20)
	for _, r := range failed[:limit] {
		logger.Error("failed", "file", r.Name, "error", r.Error)
	}

	manifest := filepath.Join(outDir, "manifest.json")
	if err := batch.WriteManifest(manifest, command, results); err != nil {
		logger.Warn("manifest write failed", "error", err)
	} else {
		logger.Debug("manifest written", "path", manifest)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(failed), len(results))
	}
	return nil
}

// runBatch wraps a directory-level batch function as a cobra RunE taking
// <input dir> <output dir>.
func runBatch(command string, fn func(context.Context, batch.Config) ([]batch.Result, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		results, err := fn(cmd.Context(), batchConfig(args[0], args[1]))
		if errors.Is(err, batch.ErrNoInput) {
			logger.Warn("nothing to do", "error", err)
			return nil
		}
		if err != nil {
			return err
		}
		return finish(command, args[1], start, results)
	}
}
