package main

import (
	"context"
	"fmt"
	"io"

	"github.com/justinpbarnett/logtree/internal/config"
	"github.com/justinpbarnett/logtree/internal/ui/panels"
	"github.com/justinpbarnett/logtree/internal/update"
)

func runVersion(cfg *config.Config, w io.Writer) error {
	fmt.Fprintf(w, "logtree version %s\n", panels.Version)

	checker := update.NewChecker(cfg.Update.Repo, panels.Version)
	if !checker.Available() || cfg.Update.Repo == "" {
		fmt.Fprintln(w, "Development build, update check skipped.")
		return nil
	}

	rel, err := checker.Check(context.Background())
	if err != nil {
		fmt.Fprintf(w, "Update check failed: %v\n", err)
		return nil
	}
	if rel != nil {
		fmt.Fprintln(w, update.Notice(panels.Version, rel))
	} else {
		fmt.Fprintln(w, "You are up to date.")
	}
	return nil
}

func runUpdate(cfg *config.Config, w io.Writer) error {
	if cfg.Update.Repo == "" {
		return fmt.Errorf("update.repo is not configured")
	}
	checker := update.NewChecker(cfg.Update.Repo, panels.Version)
	rel, err := checker.Apply(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Updated to logtree %s\n", rel.Version)
	return nil
}
