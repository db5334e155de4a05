// Command movetrace is the CLI entrypoint for the body-pose video analyzer.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or a single analysis job with retry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/movetrace/internal/check"
	"github.com/backmassage/movetrace/internal/config"
	"github.com/backmassage/movetrace/internal/display"
	"github.com/backmassage/movetrace/internal/logging"
	"github.com/backmassage/movetrace/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "movetrace: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "movetrace: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "movetrace: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== movetrace v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputPath)
	log.Info("Out: %s", cfg.OutputPath)
	log.Info("")

	// Fail fast if the landmark model for the selected complexity is missing.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM; the
	// frame loop checks for cancellation once per frame and releases its
	// handles on the way out.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping after current frame…")
		cancel()
	}()

	// Phase 4: Run one job with retry.
	proc := pipeline.New(&cfg, log)
	res, err := proc.ProcessWithRetry(ctx, cfg.InputPath, cfg.OutputPath, cfg.MaxRetries)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	printSummary(log, res)
	return 0
}

// printSummary logs the job result in a compact block.
func printSummary(log *logging.Logger, res *pipeline.Result) {
	log.Info("==============================")
	log.Success("Done: %s", res.OutputFile)
	log.Info("  Frames:      %d processed / %d total", res.ProcessedFrames, res.TotalFrames)
	log.Detect("  Detection:   %s (%d frames)", display.FormatPercent(res.DetectionRate), res.DetectedFrames)
	if res.FailedFrames > 0 {
		log.Warn("  Failed:      %s (%d frames)", display.FormatPercent(res.FailedRate), res.FailedFrames)
	}
	if res.AverageVis != nil {
		log.Info("  Visibility:  %.3f mean", *res.AverageVis)
	}
	log.Info("  Output size: %s", display.FormatBytes(int64(res.OutputSizeMB*1024*1024)))
	log.Info("  Took:        %s", display.FormatSeconds(res.ProcessingTime))
}
