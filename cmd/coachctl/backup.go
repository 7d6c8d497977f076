package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/michela/coach/internal/backup"
	"github.com/michela/coach/internal/config"
	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/factory"
	"github.com/michela/coach/internal/logger"
)

func openStore(ctx context.Context) (docstore.Store, zerolog.Logger, error) {
	log := logger.NewWithWriter(os.Stderr, "coachctl", os.Getenv("COACH_SERVICE_LOG_LEVEL"))
	cfg, err := config.New()
	if err != nil {
		return nil, log, err
	}
	docs, err := factory.NewDocstore(ctx, cfg, log)
	return docs, log, err
}

func runBackup(ctx context.Context, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	docs, log, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer docs.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	stats, err := backup.Dump(ctx, docs, f, time.Now())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error().Stack().Err(err).Str("path", path).Msg("backup failed")
		return err
	}
	printStats(out, "backed up", stats)
	return nil
}

func runRestore(ctx context.Context, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	docs, log, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer docs.Close()

	stats, err := backup.Restore(ctx, docs, f)
	if err != nil {
		log.Error().Stack().Err(err).Str("path", path).Msg("restore failed")
		return err
	}
	printStats(out, "restored", stats)
	return nil
}

func printStats(out io.Writer, verb string, stats backup.Stats) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s %d %s\n", verb, stats[name], name)
	}
}
