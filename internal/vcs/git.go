// Package vcs provides the git gateway for the wachter auto-commit engine.
//
// The Git type wraps the fixed set of git operations the engine sequences:
//   - Change discovery (status, staged diff, numstat)
//   - Per-path staging and commit creation
//   - Remote queries and push/pull
//
// Thread safety:
//   - Git methods are safe for concurrent use as they don't maintain mutable state.
//   - The Git value itself should not be copied after creation.
//
// Usage:
//
//	g, err := vcs.New("/path/to/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	branch, _ := g.CurrentBranch(ctx)
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes a git command and returns its stdout.
// It exists so the engine and stager can be tested against a fake.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Error is a failed git invocation with its arguments and stderr.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Git provides git operations for a repository
type Git struct {
	repoRoot string
}

// New creates a Git instance for the given path
func New(path string) (*Git, error) {
	root, err := findRepoRoot(path)
	if err != nil {
		return nil, err
	}
	return &Git{repoRoot: root}, nil
}

// Root returns the repository root path
func (g *Git) Root() string {
	return g.repoRoot
}

// IsRepo checks if the path is inside a git repository
func IsRepo(path string) bool {
	_, err := findRepoRoot(path)
	return err == nil
}

// findRepoRoot locates the git repository root
func findRepoRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Repo discovery is a fast local operation
	out, err := runGitCommandContext(context.Background(), absPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	return strings.TrimSpace(out), nil
}

// Run executes a git command in the repo root.
func (g *Git) Run(ctx context.Context, args ...string) (string, error) {
	return runGitCommandContext(ctx, g.repoRoot, args...)
}

// runGitCommandContext executes a git command with context
func runGitCommandContext(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{Args: args, Stderr: stderr.String(), Err: err}
	}

	return stdout.String(), nil
}

// CurrentBranch returns the current branch name
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	return CurrentBranch(ctx, g)
}

// CurrentBranch returns the current branch name via a Runner.
func CurrentBranch(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Add stages a single path.
func Add(ctx context.Context, r Runner, path string) error {
	_, err := r.Run(ctx, "add", "--", path)
	return err
}

// Commit creates a commit from the staged set and returns its hash.
func Commit(ctx context.Context, r Runner, message string) (string, error) {
	if _, err := r.Run(ctx, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := r.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get commit hash: %w", err)
	}

	return strings.TrimSpace(out), nil
}

// StagedDiff returns the diff of the staged set.
func StagedDiff(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "diff", "--cached")
	if err != nil {
		return "", fmt.Errorf("staged diff: %w", err)
	}
	return out, nil
}

// StagedStats returns the file and line counts of the staged set.
func StagedStats(ctx context.Context, r Runner) (files, lines int, err error) {
	out, err := r.Run(ctx, "diff", "--cached", "--numstat")
	if err != nil {
		return 0, 0, fmt.Errorf("staged numstat: %w", err)
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files++
		// Format: added<TAB>deleted<TAB>path; binary files show "-".
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		lines += atoiSafe(parts[0]) + atoiSafe(parts[1])
	}

	return files, lines, nil
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
