// Package update checks GitHub Releases for newer logtree builds and
// replaces the running binary on request.
package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	selfupdate "github.com/creativeprojects/go-selfupdate"
)

const (
	checkTimeout = 10 * time.Second
	applyTimeout = 2 * time.Minute
)

// ErrDevBuild is returned by Apply for builds without a release version.
var ErrDevBuild = errors.New("cannot update a development build, install from a release first")

// Release describes a published version.
type Release struct {
	Version      string
	URL          string
	ReleaseNotes string
}

// Checker talks to the releases of one repository.
type Checker struct {
	repo    string
	current string
}

// NewChecker returns a checker for repo ("owner/name") that compares
// against the running version.
func NewChecker(repo, current string) *Checker {
	return &Checker{repo: repo, current: current}
}

// Available reports whether the running version is a release build that
// can be compared and replaced.
func (c *Checker) Available() bool {
	if c.current == "" || c.current == "dev" {
		return false
	}
	_, err := parseSemver(c.current)
	return err == nil
}

// Check returns the latest release when it is newer than the running
// version, or nil when up to date or running a dev build.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	if !c.Available() {
		return nil, nil
	}
	current, _ := parseSemver(c.current)

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(c.repo))
	if err != nil {
		return nil, fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return nil, nil
	}

	latestVer, err := semver.NewVersion(latest.Version())
	if err != nil || !latestVer.GreaterThan(current) {
		return nil, nil
	}

	return &Release{
		Version:      latest.Version(),
		URL:          latest.URL,
		ReleaseNotes: latest.ReleaseNotes,
	}, nil
}

// Apply downloads the latest release and replaces the current executable.
func (c *Checker) Apply(ctx context.Context) (*Release, error) {
	if !c.Available() {
		return nil, ErrDevBuild
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	rel, err := updater.UpdateSelf(ctx, strings.TrimPrefix(c.current, "v"), selfupdate.ParseSlug(c.repo))
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	return &Release{
		Version:      rel.Version(),
		URL:          rel.URL,
		ReleaseNotes: rel.ReleaseNotes,
	}, nil
}

// Notice is the one-line message printed when a newer release exists.
func Notice(current string, rel *Release) string {
	if rel == nil {
		return ""
	}
	return fmt.Sprintf("logtree %s is available (running %s), run `logtree update` to install",
		rel.Version, strings.TrimPrefix(current, "v"))
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("create github source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}
	return updater, nil
}

// CompareVersions compares two semver strings.
// Returns -1 if current < latest, 0 if equal, 1 if current > latest.
// Unparseable versions sort below any valid version.
func CompareVersions(current, latest string) int {
	cv, errC := parseSemver(current)
	lv, errL := parseSemver(latest)

	if errC != nil && errL != nil {
		return 0
	}
	if errC != nil {
		return -1
	}
	if errL != nil {
		return 1
	}

	return cv.Compare(lv)
}

// parseSemver strips a leading "v". Git-describe suffixes such as
// "0.1.0-3-gabcdef" parse as prereleases of the base version.
func parseSemver(s string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(s, "v"))
}
