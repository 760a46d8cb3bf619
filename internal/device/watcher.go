package device

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// InputDir is the directory the hotplug watcher observes.
const InputDir = "/dev/input"

// Watcher notifies listeners when a new input device node appears.
// Notifications are coalesced: a burst of created nodes produces at
// least one signal, not necessarily one per node.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *slog.Logger

	// C receives a signal whenever a new event node shows up.
	C chan struct{}
}

// NewWatcher starts watching dir (normally InputDir) for new event
// nodes.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		fsw:    fsw,
		logger: logger,
		C:      make(chan struct{}, 1),
	}, nil
}

// Run processes filesystem events until the context is cancelled or
// the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), "event") {
				continue
			}
			w.logger.Debug("input device node appeared", "path", ev.Name)
			select {
			case w.C <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("device watcher error", "error", err)
		}
	}
}

// Close stops the watcher. Run returns once the underlying event
// channel drains.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
