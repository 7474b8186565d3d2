// Package locate resolves logical tool names ("claude", "codex") to runnable
// executables across heterogeneous shell and PATH environments.
//
// Editors and daemons often run with a minimal PATH that lacks the user's
// shell-managed install directories (homebrew, nvm, volta, ...). The locator
// compensates by probing a login shell's PATH once per process and by
// scanning well-known install and version-manager directories.
//
// Strategies are tried in order and short-circuit on the first hit:
//  1. invoke the bare command name directly
//  2. a `which`-style lookup via the shell
//  3. scan known install directories and version-manager bin directories
//
// Misses are never cached; a tool installed after a failed lookup is found
// on the next call.
package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/valksor/go-wachter/internal/log"
)

// Provenance records which strategy produced a resolution.
type Provenance string

const (
	ProvenanceDirect         Provenance = "direct"
	ProvenanceWhich          Provenance = "which"
	ProvenanceKnownDir       Provenance = "known-dir"
	ProvenanceVersionManager Provenance = "version-manager"
)

// ErrNotFound is returned when no strategy resolves the tool.
var ErrNotFound = errors.New("executable not found")

// Resolution maps a logical tool name to something invokable.
type Resolution struct {
	Name       string
	Path       string // absolute path, or the bare name for direct hits
	Provenance Provenance
}

// Locator resolves tool names. The zero value is not usable; use New.
type Locator struct {
	// probeShell overrides the login-shell PATH probe in tests.
	probeShell func() string
	// extraDirs are scanned before the built-in known directories.
	extraDirs []string

	pathOnce   sync.Once
	mergedPath string
}

// New creates a Locator.
func New() *Locator {
	return &Locator{}
}

// Option configures a Locator.
type Option func(*Locator)

// WithShellProbe overrides the login-shell PATH probe.
func WithShellProbe(probe func() string) Option {
	return func(l *Locator) { l.probeShell = probe }
}

// WithExtraDirs prepends directories to the known-directory scan.
func WithExtraDirs(dirs ...string) Option {
	return func(l *Locator) { l.extraDirs = append(l.extraDirs, dirs...) }
}

// NewWithOptions creates a configured Locator.
func NewWithOptions(opts ...Option) *Locator {
	l := New()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate resolves a tool name, trying strategies in order.
// Returns ErrNotFound when every strategy misses; never panics.
func (l *Locator) Locate(ctx context.Context, name string) (Resolution, error) {
	env := l.environ()

	if hit := l.tryDirect(ctx, name, env); hit {
		log.Debug("executable resolved", "tool", name, "provenance", ProvenanceDirect)
		return Resolution{Name: name, Path: name, Provenance: ProvenanceDirect}, nil
	}

	if path := l.tryWhich(ctx, name, env); path != "" {
		log.Debug("executable resolved", "tool", name, "provenance", ProvenanceWhich, "path", path)
		return Resolution{Name: name, Path: path, Provenance: ProvenanceWhich}, nil
	}

	if path, prov := l.tryDirScan(name); path != "" {
		log.Debug("executable resolved", "tool", name, "provenance", prov, "path", path)
		return Resolution{Name: name, Path: path, Provenance: prov}, nil
	}

	return Resolution{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// MergedPath returns the de-duplicated PATH used for strategy invocations:
// login-shell PATH, then the process PATH, then the known directories,
// preserving first-seen order.
func (l *Locator) MergedPath() string {
	l.pathOnce.Do(func() {
		var entries []string
		if shellPath := l.shellPath(); shellPath != "" {
			entries = append(entries, filepath.SplitList(shellPath)...)
		}
		entries = append(entries, filepath.SplitList(os.Getenv("PATH"))...)
		entries = append(entries, l.knownDirs()...)
		l.mergedPath = strings.Join(dedupe(entries), string(os.PathListSeparator))
	})
	return l.mergedPath
}

// knownDirs lists the scan directories: extras first, then the built-ins.
func (l *Locator) knownDirs() []string {
	return append(append([]string{}, l.extraDirs...), knownInstallDirs()...)
}

// environ is the process environment with PATH replaced by the merged PATH.
func (l *Locator) environ() []string {
	env := os.Environ()
	merged := l.MergedPath()
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + merged
			return env
		}
	}
	return append(env, "PATH="+merged)
}

// tryDirect invokes the bare command. "File not found" is a miss; any other
// failure (e.g. an old binary without a --version flag) still proves the
// tool is invokable and counts as a hit.
func (l *Locator) tryDirect(ctx context.Context, name string, env []string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, "--version")
	cmd.Env = env
	err := cmd.Run()
	if err == nil {
		return true
	}
	if errors.Is(err, exec.ErrNotFound) || isNotFound(err) {
		return false
	}
	return true
}

// tryWhich asks the shell to resolve the name. Skipped on Windows, which
// has no POSIX `command -v`.
func (l *Locator) tryWhich(ctx context.Context, name string, env []string) string {
	if runtime.GOOS == "windows" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", "command -v "+shellQuote(name))
	cmd.Env = env
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// tryDirScan looks for the filename (with platform variants) in the known
// install directories and in version-manager bin directories.
func (l *Locator) tryDirScan(name string) (string, Provenance) {
	for _, dir := range l.knownDirs() {
		if path := findInDir(dir, name); path != "" {
			return path, ProvenanceKnownDir
		}
	}

	for _, dir := range versionManagerDirs() {
		if path := findInDir(dir, name); path != "" {
			return path, ProvenanceVersionManager
		}
	}

	return "", ""
}

// shellPath probes an interactive (non-login-flagged) shell for its PATH.
// The result is memoized through MergedPath's sync.Once.
func (l *Locator) shellPath() string {
	if l.probeShell != nil {
		return l.probeShell()
	}
	return probeLoginShellPath()
}

func probeLoginShellPath() string {
	if runtime.GOOS == "windows" {
		return ""
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, shell, "-i", "-c", `echo "$PATH"`)
	out, err := cmd.Output()
	if err != nil {
		log.Debug("shell PATH probe failed", "shell", shell, log.Err(err))
		return ""
	}

	// Interactive shells may print rc-file noise; the PATH is the last
	// non-empty line.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// findInDir returns the first executable filename variant present in dir.
func findInDir(dir, name string) string {
	for _, variant := range filenameVariants(name) {
		path := filepath.Join(dir, variant)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return path
	}
	return ""
}

// filenameVariants lists platform-specific executable names for a tool.
func filenameVariants(name string) []string {
	if runtime.GOOS == "windows" {
		return []string{name + ".exe", name + ".cmd", name + ".bat", name}
	}
	return []string{name}
}

// knownInstallDirs lists common locations CLI tools install into that may
// not be on a daemon's default PATH.
func knownInstallDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	dirs := []string{
		"/usr/local/bin",
		"/opt/homebrew/bin",
	}
	if home != "" {
		dirs = append(dirs,
			filepath.Join(home, ".local", "bin"),
			filepath.Join(home, "bin"),
			filepath.Join(home, ".claude", "local"),
			filepath.Join(home, ".codex", "bin"),
			filepath.Join(home, ".volta", "bin"),
			filepath.Join(home, ".asdf", "shims"),
		)
	}
	return dirs
}

// versionManagerDirs enumerates per-version bin directories of node version
// managers, newest directory names last so callers scanning in order prefer
// stable locations first.
func versionManagerDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var dirs []string
	for _, pattern := range []string{
		filepath.Join(home, ".nvm", "versions", "node", "*", "bin"),
		filepath.Join(home, ".local", "share", "fnm", "node-versions", "*", "installation", "bin"),
		filepath.Join(home, ".fnm", "node-versions", "*", "installation", "bin"),
		filepath.Join(home, ".asdf", "installs", "nodejs", "*", "bin"),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		dirs = append(dirs, matches...)
	}
	return dirs
}

// dedupe removes duplicate entries preserving first-seen order.
func dedupe(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// isNotFound matches "file not found" failures from the OS that exec does
// not wrap as exec.ErrNotFound (e.g. ENOENT on a stale absolute path).
func isNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "no such file or directory")
}

// shellQuote wraps a value in single quotes for safe interpolation.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
