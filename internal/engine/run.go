package engine

import (
	"context"

	"github.com/valksor/go-wachter/internal/log"
	"github.com/valksor/go-wachter/internal/watcher"
)

// Run enables the engine against the repository containing root and feeds
// it save events until the context is cancelled. Disable (with its
// commit-on-close hook) runs on the way out.
func (e *Engine) Run(ctx context.Context, root string) error {
	repo, err := e.openRepo(root)
	if err != nil {
		return err
	}
	e.setPreferred(repo)

	w, err := watcher.New(repo.Root())
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Debug("watcher close", log.Err(err))
		}
	}()

	e.Enable(ctx)
	defer e.Disable(context.Background())

	log.Info("watching", log.Repo(repo.Root()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			e.OnSave(ctx, ev.Path)
		}
	}
}
