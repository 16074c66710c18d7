package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/justinpbarnett/logtree/internal/config"
	"github.com/justinpbarnett/logtree/internal/display"
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/ingest"
	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/text"
)

func runDump(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", cfg.View.Format, "value format: auto, raw or pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := display.ParseFormat(*format)
	if err != nil {
		return err
	}
	path, err := sourceArg(fs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	src, err := ingest.OpenSource(ctx, path, false, 0)
	if err != nil {
		return err
	}
	defer src.Close()

	hub := feed.NewHub()
	pr := &printer{format: f}
	hub.RegisterEntries(pr.entries)
	hub.RegisterRunInfo(pr.runInfo)
	defer hub.Unregister()

	pipeline := ingest.New(hub, src, ingest.Options{BatchSize: cfg.Source.BatchSize})
	runErr := pipeline.Run(ctx)

	pr.print(stdout)
	return runErr
}

// printer is a plain-text consumer of the hub. It keeps the latest
// snapshot and writes it out once ingestion ends.
type printer struct {
	format  display.Format
	all     []logtree.Entry
	console []logtree.ConsoleEntry
	info    logtree.RunInfo
}

func (p *printer) entries(all []logtree.Entry, _ []string, console []logtree.ConsoleEntry, _ int) {
	p.all = all
	p.console = console
}

func (p *printer) runInfo(info logtree.RunInfo) {
	p.info = info
}

func (p *printer) print(w io.Writer) {
	desc := p.info.Description
	if desc == "" {
		desc = "(unnamed run)"
	}
	fmt.Fprintf(w, "%s  %s", desc, statusText(p.info.Status, !p.info.Finished))
	if p.info.Finished && p.info.EndDelta > 0 {
		fmt.Fprintf(w, "  %s", text.FormatDelta(p.info.EndDelta))
	}
	if p.info.Errors > 0 {
		fmt.Fprintf(w, "  %s", text.Count(p.info.Errors, "error", "errors"))
	}
	fmt.Fprintln(w)
	for _, m := range p.info.InfoMessages {
		fmt.Fprintf(w, "  info: %s\n", m)
	}

	for _, e := range p.all {
		p.printEntry(w, e)
	}

	if len(p.console) > 0 {
		fmt.Fprintln(w, "\nconsole:")
		for _, c := range p.console {
			fmt.Fprintf(w, "  %s: %s\n", c.Kind, c.Message)
		}
	}
}

func (p *printer) printEntry(w io.Writer, e logtree.Entry) {
	if e.Hidden {
		return
	}
	indent := strings.Repeat("  ", e.Depth+1)

	line := e.Label()
	if e.Kind != "" && e.Kind != "METHOD" {
		line = strings.ToLower(e.Kind) + " " + line
	} else if e.Type == logtree.EntryRun || e.Type == logtree.EntryTask {
		line = string(e.Type) + " " + line
	}
	if e.Status != logtree.StatusUnset || e.Open {
		line += " [" + statusText(e.Status, e.Open) + "]"
	}
	if !e.Open && e.EndDelta > e.StartDelta {
		line += " (" + text.FormatDelta(e.EndDelta-e.StartDelta) + ")"
	}
	fmt.Fprintln(w, indent+line)
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "%s    tags: %s\n", indent, strings.Join(e.Tags, ", "))
	}

	for _, a := range e.Args {
		fmt.Fprintf(w, "%s    %s = %s\n", indent, a.Name, indentLines(display.Render(p.format, a.Value), indent+"    "))
	}

	// Single-line values are already part of the label.
	if v := display.Render(p.format, e.Text()); strings.Contains(v, "\n") {
		fmt.Fprintf(w, "%s    %s\n", indent, indentLines(v, indent+"    "))
	}
}

func statusText(s logtree.Status, open bool) string {
	if open {
		return "RUNNING"
	}
	if s == logtree.StatusUnset {
		return "-"
	}
	return string(s)
}

// indentLines prefixes every line after the first.
func indentLines(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
