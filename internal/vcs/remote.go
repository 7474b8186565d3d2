package vcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PushMode selects the flags used for a push.
type PushMode string

const (
	PushModePlain          PushMode = "push"
	PushModeForce          PushMode = "force-push"
	PushModeForceWithLease PushMode = "force-push-with-lease"
)

// DefaultRemote is the remote the engine bootstraps upstreams against.
const DefaultRemote = "origin"

// HasRemote reports whether any remote is configured.
func HasRemote(ctx context.Context, r Runner) (bool, error) {
	out, err := r.Run(ctx, "remote")
	if err != nil {
		return false, fmt.Errorf("list remotes: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// Upstream returns the upstream ref of the current branch, or "" when
// no upstream is configured. Any other failure of the query is an error,
// not a missing upstream.
func Upstream(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		// No upstream and detached HEAD are expected states, not failures.
		var ge *Error
		if errors.As(err, &ge) &&
			(strings.Contains(ge.Stderr, "no upstream") ||
				strings.Contains(ge.Stderr, "does not point to a branch")) {
			return "", nil
		}
		return "", fmt.Errorf("resolve upstream: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Push pushes the current branch. When no upstream is configured the push
// also sets one (-u origin <branch>); otherwise only the mode's flags apply.
func Push(ctx context.Context, r Runner, branch string, mode PushMode, hasUpstream bool) error {
	args := []string{"push"}

	switch mode {
	case PushModeForce:
		args = append(args, "--force")
	case PushModeForceWithLease:
		args = append(args, "--force-with-lease")
	}

	if !hasUpstream {
		args = append(args, "-u", DefaultRemote, branch)
	}

	if _, err := r.Run(ctx, args...); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

// PullRebase updates the current branch from its upstream with a rebase.
func PullRebase(ctx context.Context, r Runner) error {
	if _, err := r.Run(ctx, "pull", "--rebase"); err != nil {
		return fmt.Errorf("git pull --rebase: %w", err)
	}
	return nil
}
