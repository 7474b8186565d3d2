// Package engine orchestrates save-triggered commits and remote sync.
//
// A save event passes the qualification gates and arms the debounce timer;
// the timer fire runs one commit cycle: stage matching paths, generate a
// message from the staged diff, commit, then optionally push and pull.
// Commit, push, and pull are each guarded by an at-most-one-in-flight flag.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/events"
	"github.com/valksor/go-wachter/internal/log"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/stage"
	"github.com/valksor/go-wachter/internal/vcs"
)

// Repo is the engine's view of one repository.
type Repo interface {
	vcs.Runner
	Root() string
}

// RepoOpener resolves the repository containing a path.
type RepoOpener func(path string) (Repo, error)

// Diagnoser reports editor diagnostics for a saved document. The engine
// itself has no diagnostics source; hosts plug one in.
type Diagnoser interface {
	// Check returns the number of error- and warning-severity diagnostics.
	Check(ctx context.Context, path string) (errors, warnings int, err error)
}

// Engine is the save-triggered commit orchestrator.
type Engine struct {
	cfg   atomic.Pointer[config.Config]
	state *State
	bus   *events.Bus
	gen   *provider.Generator
	sync  *Syncer

	openRepo RepoOpener
	diag     Diagnoser // nil when validation is not wired

	mu        sync.Mutex
	repos     map[string]Repo // cache keyed by root
	preferred Repo            // last-write-wins preferred repository
	status    events.Status
}

// New creates an Engine.
func New(cfg *config.Config, bus *events.Bus, gen *provider.Generator, opts ...EngineOption) *Engine {
	e := &Engine{
		state:    NewState(),
		bus:      bus,
		gen:      gen,
		repos:    make(map[string]Repo),
		status:   events.StatusDisabled,
		openRepo: defaultOpenRepo,
	}
	e.cfg.Store(cfg)
	e.sync = NewSyncer(e.state, bus)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRepoOpener overrides repository resolution (used by tests).
func WithRepoOpener(open RepoOpener) EngineOption {
	return func(e *Engine) { e.openRepo = open }
}

// WithDiagnoser wires a diagnostics source for the validation gate.
func WithDiagnoser(d Diagnoser) EngineOption {
	return func(e *Engine) { e.diag = d }
}

func defaultOpenRepo(path string) (Repo, error) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	return vcs.New(dir)
}

// State exposes the in-flight flags, mainly for status reporting.
func (e *Engine) State() *State {
	return e.state
}

// Enable turns the engine on: status transition, optional pull-on-open,
// and interval timers for after-delay sync modes.
func (e *Engine) Enable(ctx context.Context) {
	if e.state.Enabled() {
		return
	}
	e.state.SetEnabled(true)
	e.setStatus(events.StatusEnabled, "enabled")

	cfg := e.config()
	if cfg.PullOnOpen {
		if repo := e.preferredRepo(); repo != nil {
			if err := e.sync.Pull(ctx, repo, cfg); err != nil {
				log.Warn("pull on open failed", log.Err(err))
			}
		}
	}

	e.startIntervalTimers(ctx)
}

// Disable turns the engine off: pending timers cleared, interval timers
// torn down, optional final commit cycle. In-flight operations are not
// cancelled; their results are discarded against the disabled state.
func (e *Engine) Disable(ctx context.Context) {
	if !e.state.Enabled() {
		return
	}

	if e.config().CommitOnClose {
		if repo := e.preferredRepo(); repo != nil {
			e.CommitCycle(ctx, repo)
		}
	}

	e.state.Disarm()
	e.state.StopTimers()
	e.state.SetEnabled(false)
	e.setStatus(events.StatusDisabled, "disabled")
}

// Reconfigure swaps the configuration and recreates interval timers.
func (e *Engine) Reconfigure(ctx context.Context, cfg *config.Config) {
	e.cfg.Store(cfg)

	if e.state.Enabled() {
		e.state.StopTimers()
		e.startIntervalTimers(ctx)
	}
}

// config returns the current configuration snapshot. Cycles read one
// snapshot for their whole run; a concurrent Reconfigure applies to the
// next cycle.
func (e *Engine) config() *config.Config {
	return e.cfg.Load()
}

// OnSave handles one save event, evaluating the qualification gates in
// order and (re)arming the debounce timer when all pass. Failure to
// resolve a repository is absorbed silently.
func (e *Engine) OnSave(ctx context.Context, path string) {
	if !e.state.Enabled() {
		return
	}
	cfg := e.config()

	repo, err := e.repoFor(path)
	if err != nil {
		log.Debug("save outside any repository", "path", path)
		return
	}
	e.setPreferred(repo)

	rel, err := filepath.Rel(repo.Root(), path)
	if err != nil {
		rel = path
	}
	if !stage.Matches(cfg.FilePattern, rel) {
		return
	}

	branch, err := vcs.CurrentBranch(ctx, repo)
	if err != nil {
		log.Debug("branch resolution failed", log.Err(err))
		return
	}
	if branchExcluded(cfg, branch) {
		log.Debug("branch excluded from auto-commit", log.Branch(branch))
		return
	}

	if !e.passesValidation(ctx, cfg, path) {
		log.Debug("diagnostics block auto-commit", "path", path)
		return
	}

	e.state.Arm(cfg.CommitDelay(), func() {
		e.CommitCycle(context.Background(), repo)
	})
}

func branchExcluded(cfg *config.Config, branch string) bool {
	for _, excluded := range cfg.ExcludeBranches {
		if branch == excluded {
			return true
		}
	}
	return false
}

func (e *Engine) passesValidation(ctx context.Context, cfg *config.Config, path string) bool {
	if e.diag == nil || cfg.ValidationLevel == config.ValidationNone {
		return true
	}

	errs, warns, err := e.diag.Check(ctx, path)
	if err != nil {
		// A broken diagnostics source never blocks commits.
		log.Debug("diagnostics check failed", log.Err(err))
		return true
	}

	switch cfg.ValidationLevel {
	case config.ValidationError:
		return errs == 0
	case config.ValidationWarning:
		return errs == 0 && warns == 0
	}
	return true
}

func (e *Engine) repoFor(path string) (Repo, error) {
	repo, err := e.openRepo(path)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.repos[repo.Root()]; ok {
		return cached, nil
	}
	e.repos[repo.Root()] = repo
	return repo, nil
}

func (e *Engine) setPreferred(repo Repo) {
	e.mu.Lock()
	e.preferred = repo
	e.mu.Unlock()
}

func (e *Engine) preferredRepo() Repo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preferred
}

func (e *Engine) setStatus(to events.Status, reason string) {
	e.mu.Lock()
	from := e.status
	e.status = to
	e.mu.Unlock()

	if from == to {
		return
	}
	if e.bus != nil {
		e.bus.Publish(events.StatusChangedEvent{From: from, To: to, Reason: reason})
	}
}

// Status returns the current engine status.
func (e *Engine) Status() events.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}
