package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorepeats/repeatscan/internal/manifest"
	"github.com/gorepeats/repeatscan/internal/repeats"
	"github.com/gorepeats/repeatscan/pkg/config"
	rerrors "github.com/gorepeats/repeatscan/pkg/errors"
	"github.com/gorepeats/repeatscan/pkg/health"
	"github.com/gorepeats/repeatscan/pkg/logger"
	"github.com/gorepeats/repeatscan/pkg/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("repeatscan", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file (optional)")
	if err := fs.Parse(args); err != nil {
		return rerrors.ExitCode(rerrors.New(rerrors.ErrArgument, 2, err.Error()))
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: repeatscan [-config path] <filelist>")
		return rerrors.ExitCode(rerrors.New(rerrors.ErrArgument, 2, "missing filelist argument"))
	}
	filelist := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return rerrors.ExitCode(rerrors.New(rerrors.ErrArgument, 2, err.Error()))
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := manifest.Load(filelist)
	if err != nil {
		slog.Error("failed to load manifest", "error", err)
		return rerrors.ExitCode(err)
	}

	if report := manifest.Preflight(ctx, docs, cfg.Repeats.Workers); report.Down() {
		for name, comp := range report.Components {
			if comp.Status == health.StatusDown {
				slog.Error("preflight check failed", "document", name, "message", comp.Message)
			}
		}
		return rerrors.ExitCode(rerrors.New(rerrors.ErrIO, 4, "one or more manifest documents are unreadable"))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	eng := repeats.New(cfg, m)
	if err := eng.Ingest(docs); err != nil {
		slog.Error("ingestion failed", "error", err)
		return rerrors.ExitCode(err)
	}

	start := time.Now()
	result, err := eng.Run(ctx)
	duration := time.Since(start)
	if err != nil {
		slog.Error("run failed", "error", err)
		return rerrors.ExitCode(err)
	}

	printReport(result, duration, cfg.Repeats.Verbosity, m)
	return 0
}

// printReport prints the summary line every repeatscan invocation ends
// with, plus extra detail (matched strings, metrics dump) at higher
// verbosity.
func printReport(result repeats.Result, duration time.Duration, verbosity int, m *metrics.Metrics) {
	fmt.Printf("converged=%v passes=%d longest_count=%d exact_count=%d duration=%f\n",
		result.Converged, result.PassCount, len(result.Longest), len(result.Exact), duration.Seconds())

	if verbosity >= 2 {
		fmt.Println("longest:", result.Longest)
		fmt.Println("exact:", result.Exact)
		if m != nil {
			if dump, err := m.Dump(); err == nil {
				fmt.Print(dump)
			}
		}
	}
}
