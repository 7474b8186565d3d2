package engine

import (
	"context"
	"time"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/events"
	"github.com/valksor/go-wachter/internal/log"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/stage"
	"github.com/valksor/go-wachter/internal/vcs"
)

// Outcome classifies one commit cycle.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeAborted   Outcome = "aborted"
	OutcomeDropped   Outcome = "dropped" // another commit was in flight
)

// Attempt records one commit cycle.
type Attempt struct {
	Outcome Outcome
	Hash    string
	Message string
	Staging *stage.Result
	Err     error
}

// CommitCycle runs one commit attempt against a repository: stage, message,
// commit, then push per the configured mode. Guarded by the committing flag;
// a concurrent call is dropped without side effects.
func (e *Engine) CommitCycle(ctx context.Context, repo Repo) Attempt {
	if !e.state.TryBeginCommit() {
		log.Debug("commit already in flight, dropping")
		return Attempt{Outcome: OutcomeDropped}
	}
	defer e.state.EndCommit()

	e.setStatus(events.StatusSyncing, "committing")

	attempt := e.runCycle(ctx, repo)
	switch attempt.Outcome {
	case OutcomeCommitted, OutcomeSkipped:
		e.setStatus(events.StatusEnabled, string(attempt.Outcome))
	case OutcomeAborted:
		// The engine stays enabled; error clears on the next good cycle.
		e.setStatus(events.StatusError, "commit failed")
	}
	return attempt
}

func (e *Engine) runCycle(ctx context.Context, repo Repo) Attempt {
	cfg := e.config()

	res, err := stage.Run(ctx, repo, cfg.FilePattern)
	if err != nil {
		log.Error("staging failed", log.Repo(repo.Root()), log.Err(err))
		return Attempt{Outcome: OutcomeAborted, Err: err}
	}

	if res.Empty() {
		log.Debug("nothing to commit", log.Repo(repo.Root()))
		e.publish(events.CycleSkippedEvent{Reason: "no stageable changes"})
		return Attempt{Outcome: OutcomeSkipped, Staging: res}
	}

	if !meetsThresholds(ctx, cfg, repo, res) {
		e.publish(events.CycleSkippedEvent{Reason: "below change thresholds"})
		return Attempt{Outcome: OutcomeSkipped, Staging: res}
	}

	msg, err := e.buildMessage(ctx, cfg, repo)
	if err != nil {
		return Attempt{Outcome: OutcomeAborted, Staging: res, Err: err}
	}

	hash, err := vcs.Commit(ctx, repo, msg)
	if err != nil {
		log.Error("commit failed", log.Repo(repo.Root()), log.Err(err))
		return Attempt{Outcome: OutcomeAborted, Staging: res, Err: err}
	}

	log.Info("commit created", log.Repo(repo.Root()), "hash", hash, "message", msg)
	e.publish(events.CommitCreatedEvent{Hash: hash, Message: msg, Files: len(res.Staged)})

	if cfg.Push.Mode == config.SyncOnTrigger {
		if err := e.sync.Push(ctx, repo, cfg); err != nil {
			// Sync failures never abort a completed commit.
			log.Warn("push after commit failed", log.Err(err))
		}
	} else if cfg.Pull.Mode == config.SyncOnTrigger {
		// Without an on-trigger push the pull chains off the commit itself.
		if err := e.sync.Pull(ctx, repo, cfg); err != nil {
			log.Warn("pull after commit failed", log.Err(err))
		}
	}

	return Attempt{Outcome: OutcomeCommitted, Hash: hash, Message: msg, Staging: res}
}

// meetsThresholds checks min-files/min-lines. Pre-staged sets bypass the
// thresholds unless enforcement is configured.
func meetsThresholds(ctx context.Context, cfg *config.Config, repo Repo, res *stage.Result) bool {
	t := cfg.Thresholds
	if t.MinFiles <= 0 && t.MinLines <= 0 {
		return true
	}
	if res.PreStaged && !t.EnforceForPrestaged {
		return true
	}

	files, lines, err := vcs.StagedStats(ctx, repo)
	if err != nil {
		log.Debug("staged stats failed", log.Err(err))
		return true
	}
	if t.MinFiles > 0 && files < t.MinFiles {
		return false
	}
	if t.MinLines > 0 && lines < t.MinLines {
		return false
	}
	return true
}

// buildMessage produces the commit message: AI when enabled, otherwise the
// timestamp fallback. A failing staged diff aborts an AI cycle outright.
func (e *Engine) buildMessage(ctx context.Context, cfg *config.Config, repo Repo) (string, error) {
	if !cfg.AI.Enabled {
		return provider.FallbackMessage(time.Now()), nil
	}

	diff, err := vcs.StagedDiff(ctx, repo)
	if err != nil {
		log.Error("staged diff failed", log.Err(err))
		return "", err
	}

	msg, err := e.gen.Generate(ctx, diff, &cfg.AI)
	if err != nil {
		log.Error("message generation failed", log.Err(err))
		return "", err
	}
	return msg, nil
}

func (e *Engine) publish(ev events.Eventer) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
