package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	collider3d "github.com/flywave/go-3dcollider"
	"github.com/flywave/go-3dcollider/internal/config"
	"github.com/flywave/go-3dcollider/internal/fetch"
	"github.com/flywave/go-3dcollider/internal/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Default()
	flags, err := parseFlags(args, stderr, exportDefaults{
		MaterialName: cfg.MaterialName,
		OutputName:   cfg.OutputName,
		Precision:    cfg.Precision,
		LogLevel:     cfg.LogLevel,
	})
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *flags.Help {
		flags.usage()
		return 0
	}

	cfg.Input = *flags.Input
	cfg.MaterialName = *flags.MaterialName
	cfg.OutputName = *flags.OutputName
	cfg.ProjectDir = *flags.ProjectDir
	cfg.Precision = *flags.Precision
	cfg.UpAxis = *flags.UpAxis
	cfg.LogLevel = *flags.LogLevel

	if *flags.Config != "" {
		fromFile, err := config.Load(*flags.Config)
		if err != nil {
			fmt.Fprintf(stdout, "Export failed: %v\n", err)
			return 1
		}
		config.Merge(cfg, fromFile, flags.explicit())
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stdout, "Export failed: %v\n", err)
		return 1
	}
	defer log.Sync()

	res, err := export(ctx, cfg, log)
	if err != nil {
		log.Error("export failed", zap.Error(err))
		fmt.Fprintf(stdout, "Export failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Exported %d object(s)\n", res.Selected)
	return 0
}

func export(ctx context.Context, cfg *config.Config, log *zap.Logger) (*collider3d.Result, error) {
	axis, err := collider3d.ParseUpAxis(cfg.UpAxis)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "collider-export")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	path, err := fetch.Resolve(ctx, cfg.Input, workDir)
	if err != nil {
		return nil, err
	}
	log.Debug("scene resolved", zap.String("input", cfg.Input), zap.String("path", path))

	scene, err := collider3d.LoadScene(path, collider3d.LoaderOptions{UpAxis: axis})
	if err != nil {
		return nil, err
	}

	opts := cfg.ExportOptions()
	opts.Logger = log
	if opts.ProjectDir == "" && path == cfg.Input {
		opts.ProjectDir = filepath.Dir(path)
	}
	return collider3d.Export(scene, opts)
}
