package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/quotes-importer/internal/app"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
)

// quote-parse extracts one quote document and prints the assembled records as JSON.
func main() {
	showText := flag.Bool("text", false, "print the extracted text instead of the records")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: quote-parse [-text] <file.pdf|file.txt>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	// stdout carries the JSON output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.Build(ctx, cfg, false, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	bundle, res, err := a.Processor.ParseDocument(common.WithSource(ctx, path), path)
	if err != nil {
		logger.Error("parse failed", "file", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}
	logger.Info("parse OK",
		"file", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"products", len(bundle.Products),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if *showText {
		fmt.Println(res.Text)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		logger.Error("encode", "error", err)
		os.Exit(1)
	}
}
