package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/ocr-smoke/internal/config"
	"github.com/ironsheep/ocr-smoke/internal/logger"
	"github.com/ironsheep/ocr-smoke/internal/ocr"
	"github.com/ironsheep/ocr-smoke/internal/runner"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ocr-smoke %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			tess := &ocr.Tesseract{}
			fmt.Printf("  Tesseract:  %s\n", tess.Version())
			return
		case "--help", "-h", "help":
			fmt.Println("ocr-smoke - verify the OCR stack on this machine")
			fmt.Println()
			fmt.Println("Usage: ocr-smoke [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Printf("Recognizes %s and writes results to output/.\n", config.DefaultImagePath)
			fmt.Println("Settings are read from the environment and an optional .env file:")
			fmt.Println()
			fmt.Print(config.Usage())
			return
		}
	}

	// A bad setting must not stop the smoke test; report it and run on defaults.
	cfg, cfgErr := config.LoadOrDefault(".env")
	if cfgErr != nil {
		fmt.Printf("⚠️  Configuration problem, using defaults: %v\n", cfgErr)
	}

	log := logger.WithRun(logger.New(cfg.LogLevel, cfg.LogFormat))
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("config load failed")
	}
	log.WithField("version", Version).Debug("starting ocr-smoke")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome := runner.New(cfg, runner.WithLogger(log)).Run(ctx)
	log.WithField("outcome", outcome.String()).Debug("done")
}
