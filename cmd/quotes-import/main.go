package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/app"
	"github.com/joseph-ayodele/quotes-importer/internal/async"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/export"
	"github.com/joseph-ayodele/quotes-importer/internal/ingest"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of quote snapshots/documents to import (required)")
		docs       = flag.Bool("docs", false, "also import .pdf and .txt quote documents")
		watch      = flag.Bool("watch", false, "keep running and import files as they appear")
		report     = flag.String("report", "", "write an XLSX import report to this path")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(2)
	}
	if st, err := os.Stat(*dir); err != nil || !st.IsDir() {
		printError("Error: --dir %q is not a directory\n", *dir)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	logger := app.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, true, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	exts := ingest.DefaultExts(*docs)

	var results []pipeline.UnitResult
	if *watch {
		results, err = runWatch(ctx, a, *dir, exts, *skipHidden, logger)
	} else {
		walker := ingest.NewFSWalker(exts, *skipHidden, logger)
		var stats ingest.DirStats
		results, stats, err = a.Processor.ImportDirectory(ctx, walker, *dir)
		logger.Info("directory import finished",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
		)
	}
	if err != nil {
		logger.Error("import stopped", "error", err)
	}

	summarize(results, logger)

	if *report != "" {
		if werr := export.NewService(logger).WriteImportReport(*report, results); werr != nil {
			logger.Error("failed to write report", "path", *report, "error", werr)
			os.Exit(1)
		}
		logger.Info("report written", "path", *report)
	}
	if err != nil {
		os.Exit(1)
	}
}

// runWatch imports existing files, then new ones as they appear, until ctx ends.
func runWatch(ctx context.Context, a *app.App, dir string, exts map[string]struct{}, skipHidden bool, logger *slog.Logger) ([]pipeline.UnitResult, error) {
	var (
		mu      sync.Mutex
		results []pipeline.UnitResult
	)
	q := async.NewProcessorQueue(a.Processor, logger, async.WithResultHandler(func(r pipeline.UnitResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}))

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		AllowedExts: exts,
		InitialScan: true,
		SkipHidden:  skipHidden,
		Debounce:    500 * time.Millisecond,
		Logger:      logger,
	})
	if err != nil {
		q.Shutdown(context.Background())
		return nil, err
	}
	logger.Info("watching for quotes", "dir", dir)

loop:
	for {
		select {
		case p, ok := <-paths:
			if !ok {
				break loop
			}
			if err := q.Enqueue(ctx, async.Job{Path: p}); err != nil {
				logger.Warn("enqueue failed", "path", p, "error", err)
			}
		case werr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher error", "error", werr)
		case <-ctx.Done():
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	q.Shutdown(shutdownCtx)

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

func summarize(results []pipeline.UnitResult, logger *slog.Logger) {
	counts := map[constants.UnitStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	logger.Info("import summary",
		"units", len(results),
		"imported", counts[constants.UnitImported],
		"partial", counts[constants.UnitPartial],
		"rejected", counts[constants.UnitRejected],
		"skipped", counts[constants.UnitSkipped],
	)
}
