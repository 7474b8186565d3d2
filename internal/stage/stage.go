// Package stage discovers and stages changed paths for one commit cycle.
//
// Paths are staged one at a time so a single problem file (inside a
// submodule, ignored, or vanished) can be skipped without aborting the
// whole cycle.
package stage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/valksor/go-wachter/internal/log"
	"github.com/valksor/go-wachter/internal/vcs"
)

// Reason classifies a per-path staging failure.
type Reason string

const (
	ReasonSubmodule Reason = "submodule"
	ReasonIgnored   Reason = "ignored"
	ReasonNoMatch   Reason = "no-pathspec-match"
	ReasonOther     Reason = "other"
)

// Error is a per-path staging failure.
type Error struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Skippable reports whether the cycle may continue past this failure.
func (e *Error) Skippable() bool {
	return e.Reason != ReasonOther
}

// Result records one staging pass.
type Result struct {
	Changed   []string // every changed path in the working tree
	Matched   []string // subset matching the filter
	Staged    []string // successfully staged paths
	Skipped   []string // paths dropped by skippable failures
	PreStaged bool     // cycle runs against a pre-existing staged set
}

// Empty reports whether nothing is stageable for this cycle.
func (r *Result) Empty() bool {
	return !r.PreStaged && len(r.Staged) == 0
}

// Run enumerates changed paths, filters them, and stages the survivors.
//
// When changes are already staged the cycle proceeds directly against that
// set and nothing new is staged. Zero stageable files is a skipped cycle,
// reported through Result.Empty, not an error.
func Run(ctx context.Context, r vcs.Runner, pattern string) (*Result, error) {
	preStaged, err := vcs.HasStagedChanges(ctx, r)
	if err != nil {
		return nil, err
	}
	if preStaged {
		log.Debug("pre-staged changes present, staging pass skipped")
		return &Result{PreStaged: true}, nil
	}

	changed, err := vcs.ChangedPaths(ctx, r)
	if err != nil {
		return nil, err
	}

	res := &Result{Changed: changed}
	for _, path := range changed {
		if !Matches(pattern, path) {
			continue
		}
		res.Matched = append(res.Matched, path)
	}

	for _, path := range res.Matched {
		if err := vcs.Add(ctx, r, path); err != nil {
			serr := classify(path, err)
			if serr.Skippable() {
				log.Debug("skipping unstageable path", "path", path, "reason", string(serr.Reason))
				res.Skipped = append(res.Skipped, path)
				continue
			}
			return nil, serr
		}
		res.Staged = append(res.Staged, path)
	}

	return res, nil
}

// Matches reports whether a repository-relative path matches the filter.
// An empty pattern matches everything.
func Matches(pattern, path string) bool {
	if pattern == "" || pattern == "**/*" {
		return true
	}

	path = filepath.ToSlash(path)
	if ok, err := doublestar.Match(pattern, path); err == nil && ok {
		return true
	}
	// A bare-name pattern like "*.go" should also match in subdirectories.
	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(filepath.Base(path))); err == nil && ok {
			return true
		}
	}
	return false
}

// classify maps a git add failure onto the skippable taxonomy by its stderr.
func classify(path string, err error) *Error {
	reason := ReasonOther

	var gitErr *vcs.Error
	if errors.As(err, &gitErr) {
		stderr := strings.ToLower(gitErr.Stderr)
		switch {
		case strings.Contains(stderr, "in submodule"):
			reason = ReasonSubmodule
		case strings.Contains(stderr, "ignored by one of your .gitignore"):
			reason = ReasonIgnored
		case strings.Contains(stderr, "did not match any files"):
			reason = ReasonNoMatch
		}
	}

	return &Error{Path: path, Reason: reason, Err: err}
}
