package engine

import (
	"context"
	"time"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/events"
	"github.com/valksor/go-wachter/internal/log"
	"github.com/valksor/go-wachter/internal/vcs"
)

// Syncer sequences push and pull, each independently guarded so a pull
// chained off a push never collides with a periodic pull timer: whichever
// invocation observes the set flag is dropped.
type Syncer struct {
	state *State
	bus   *events.Bus
}

// NewSyncer creates a Syncer sharing the engine's state flags.
func NewSyncer(state *State, bus *events.Bus) *Syncer {
	return &Syncer{state: state, bus: bus}
}

// Push pushes the current branch. No remote configured is a no-op. A branch
// without an upstream gets one bootstrapped (-u origin <branch>); otherwise
// only the configured mode's flags are used. Concurrent calls are dropped.
func (s *Syncer) Push(ctx context.Context, repo Repo, cfg *config.Config) error {
	if !s.state.TryBeginPush() {
		log.Debug("push already in flight, dropping")
		return nil
	}
	defer s.state.EndPush()

	hasRemote, err := vcs.HasRemote(ctx, repo)
	if err != nil {
		return s.fail("push", err)
	}
	if !hasRemote {
		log.Debug("no remote configured, push skipped")
		return nil
	}

	branch, err := vcs.CurrentBranch(ctx, repo)
	if err != nil {
		return s.fail("push", err)
	}

	upstream, err := vcs.Upstream(ctx, repo)
	if err != nil {
		return s.fail("push", err)
	}

	if err := vcs.Push(ctx, repo, branch, vcs.PushMode(cfg.Push.Style), upstream != ""); err != nil {
		return s.fail("push", err)
	}
	log.Info("pushed", log.Branch(branch))

	if cfg.Push.PullOnPush || cfg.Pull.Mode == config.SyncOnTrigger {
		if err := s.Pull(ctx, repo, cfg); err != nil {
			log.Warn("pull after push failed", log.Err(err))
		}
	}

	return nil
}

// Pull rebases the current branch onto its upstream. No remote or no
// upstream is a no-op. Concurrent calls are dropped.
func (s *Syncer) Pull(ctx context.Context, repo Repo, cfg *config.Config) error {
	if !s.state.TryBeginPull() {
		log.Debug("pull already in flight, dropping")
		return nil
	}
	defer s.state.EndPull()

	hasRemote, err := vcs.HasRemote(ctx, repo)
	if err != nil {
		return s.fail("pull", err)
	}
	if !hasRemote {
		log.Debug("no remote configured, pull skipped")
		return nil
	}

	upstream, err := vcs.Upstream(ctx, repo)
	if err != nil {
		return s.fail("pull", err)
	}
	if upstream == "" {
		log.Debug("no upstream configured, pull skipped")
		return nil
	}

	if err := vcs.PullRebase(ctx, repo); err != nil {
		return s.fail("pull", err)
	}
	log.Info("pulled", "upstream", upstream)
	return nil
}

func (s *Syncer) fail(op string, err error) error {
	if s.bus != nil {
		s.bus.Publish(events.SyncFailedEvent{Operation: op, Error: err})
	}
	return err
}

// startIntervalTimers launches push/pull tickers for after-delay modes.
// They stop when the state's timer stop channel closes (disable or
// reconfigure).
func (e *Engine) startIntervalTimers(ctx context.Context) {
	stop := e.state.TimerStop()
	cfg := e.config()

	if cfg.Push.Mode == config.SyncAfterDelay && cfg.PushDelay() > 0 {
		go e.runInterval(ctx, stop, cfg.PushDelay(), func(ctx context.Context, repo Repo) {
			e.setStatus(events.StatusSyncing, "pushing")
			if err := e.sync.Push(ctx, repo, cfg); err != nil {
				e.setStatus(events.StatusError, "push failed")
				return
			}
			// A good attempt clears a previous interval failure.
			e.setStatus(events.StatusEnabled, "pushed")
		})
	}

	if cfg.Pull.Mode == config.SyncAfterDelay && cfg.PullDelay() > 0 {
		go e.runInterval(ctx, stop, cfg.PullDelay(), func(ctx context.Context, repo Repo) {
			e.setStatus(events.StatusSyncing, "pulling")
			if err := e.sync.Pull(ctx, repo, cfg); err != nil {
				e.setStatus(events.StatusError, "pull failed")
				return
			}
			e.setStatus(events.StatusEnabled, "pulled")
		})
	}
}

func (e *Engine) runInterval(ctx context.Context, stop <-chan struct{}, every time.Duration, op func(context.Context, Repo)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			repo := e.preferredRepo()
			if repo == nil || !e.state.Enabled() {
				continue
			}
			op(ctx, repo)
		}
	}
}
