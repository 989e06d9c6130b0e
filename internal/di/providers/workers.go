package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/tagandtake/tagandtake-server/internal/config"
	"github.com/tagandtake/tagandtake-server/internal/logger"
	"github.com/tagandtake/tagandtake-server/internal/watch"
)

// WatchPaths lists the input files to re-render when they change.
type WatchPaths []string

// WatcherHandle wraps the file watcher with shutdown capability.
type WatcherHandle struct {
	*watch.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WatcherHandle) Shutdown() error {
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideWatcher provides a started watcher over the registered WatchPaths.
func ProvideWatcher(i do.Injector) (*WatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	paths := do.MustInvoke[WatchPaths](i)

	w, err := watch.New(log.Logger, watch.Options{Debounce: cfg.Watch.Debounce})
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := w.Add(path); err != nil {
			_ = w.Stop()
			return nil, err
		}
		log.Info("Watching listing file", "path", path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	return &WatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
