package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/justinpbarnett/logtree/internal/config"
	"github.com/justinpbarnett/logtree/internal/display"
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/ingest"
	"github.com/justinpbarnett/logtree/internal/ui"
)

// shutdownGrace bounds how long quitting waits for ingestion. A read on
// piped stdin cannot be interrupted, so the process exits without it.
const shutdownGrace = 500 * time.Millisecond

func runTUI(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("logtree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	noFollow := fs.Bool("no-follow", false, "read the log once instead of tailing it")
	format := fs.String("format", cfg.View.Format, "value format: auto, raw or pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := display.ParseFormat(*format); err != nil {
		return err
	}
	cfg.View.Format = *format

	path, err := sourceArg(fs)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	follow := config.Enabled(cfg.Source.Follow) && !*noFollow
	interval := time.Duration(cfg.Source.PollIntervalMs) * time.Millisecond
	src, err := ingest.OpenSource(ctx, path, follow, interval)
	if err != nil {
		return err
	}
	defer src.Close()

	hub := feed.NewHub()
	app := ui.NewApp(hub, cfg)
	pipeline := ingest.New(hub, src, ingest.Options{
		BatchSize:      cfg.Source.BatchSize,
		ExpandFailures: config.Enabled(cfg.View.ExpandFailures),
	})
	log.Printf("viewing %s as run %s (follow=%t)", path, pipeline.RunID(), follow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := pipeline.Run(gctx); err != nil {
			app.ReportError(err)
		}
		return nil
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	app.Unmount()
	cancel()

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		log.Printf("ingest still blocked on input, exiting without it")
	}

	if runErr != nil {
		return fmt.Errorf("running ui: %w", runErr)
	}
	return nil
}

// setupLogging sends the log package to a file while the terminal belongs
// to the UI. Without LOGTREE_DEBUG logs are discarded.
func setupLogging() (func(), error) {
	path := os.Getenv("LOGTREE_DEBUG")
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if path == "1" || path == "true" {
		path = "logtree-debug.log"
	}
	f, err := tea.LogToFile(path, "logtree")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return func() { f.Close() }, nil
}
