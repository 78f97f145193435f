// Command indexer runs one watermark-driven indexing pass over the EDLS file and the
// forces store, then exits. It shares configuration with the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ragsearch/internal/bootstrap"
	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/data/forcesStore"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

func main() {
	var all, edls, forces, reset bool
	flag.BoolVar(&all, "all", false, "index EDLS reports and forces elements")
	flag.BoolVar(&edls, "edls", false, "index EDLS reports only")
	flag.BoolVar(&forces, "forces", false, "index forces elements only")
	flag.BoolVar(&reset, "reset", false, "clear the watermark before indexing")
	flag.Parse()

	sources := selectedSources(all, edls, forces)
	if len(sources) == 0 && !reset {
		fmt.Fprintln(os.Stderr, "usage: indexer [-all | -edls | -forces] [-reset]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	env := config.Load()
	logger_i.Init(env.IsProd)
	logger := logger_i.NewLogger("indexer-cli")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := bootstrap.NewEngine(ctx, env)
	if err != nil {
		logger.Error("Engine failed to initialize", "error", err)
		os.Exit(1)
	}
	store, err := forcesStore.New(env.DataDir)
	if err != nil {
		logger.Error("Forces store failed to initialize", "error", err, "dir", env.DataDir)
		os.Exit(1)
	}
	ix := bootstrap.NewIndexer(ctx, env, engine, store)

	if reset {
		if err = ix.Reset(ctx); err != nil {
			logger.Error("Could not reset the watermark", "error", err)
			os.Exit(1)
		}
		logger.Info("Watermark reset")
	}
	if len(sources) == 0 {
		return
	}

	report, err := ix.Run(ctx, sources...)
	if err != nil {
		logger.Error("Indexing aborted", "error", err, "indexed", report.Total, "failed", report.Failed)
		os.Exit(1)
	}
	fmt.Printf("EDLS indexed:   %d\nForces indexed: %d\nTotal:          %d\nFailed:         %d\n",
		report.EDLSIndexed, report.ForcesIndexed, report.Total, report.Failed)
}

func selectedSources(all, edls, forces bool) []indexModel.Source {
	if all {
		return []indexModel.Source{indexModel.SourceEDLS, indexModel.SourceForces}
	}
	var sources []indexModel.Source
	if edls {
		sources = append(sources, indexModel.SourceEDLS)
	}
	if forces {
		sources = append(sources, indexModel.SourceForces)
	}
	return sources
}
