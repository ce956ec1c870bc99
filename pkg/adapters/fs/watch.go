package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/docstore/pkg/core"
)

const debounceDelay = 50 * time.Millisecond

// Watch reports document changes under the root until ctx is cancelled.
// Bursts on the same document are coalesced into the last event.
func (a *Adapter) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(a.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", a.root, err)
	}
	entries, err := os.ReadDir(a.root)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("list %s: %w", a.root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := watcher.Add(filepath.Join(a.root, entry.Name())); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", entry.Name(), err)
		}
	}

	events := make(chan core.Event)
	a.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return a.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		a.config.Logger.Error("watcher stopped", "error", err)
		if a.config.ErrorHandler != nil {
			a.config.ErrorHandler(err)
		}
	}))

	return events, nil
}

func (a *Adapter) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan core.Event) (err error) {
	d := newDebouncer(debounceDelay)
	// done releases callbacks blocked on events; events closes only after
	// every callback has returned.
	done := make(chan struct{})
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			a.config.Logger.Debug("watcher panic", "stack", string(debug.Stack()))
		}
		_ = watcher.Close()
		close(done)
		d.stop()
		close(events)
		a.setWatcherActive(false)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case fsEvent, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			a.handleFSEvent(watcher, d, fsEvent, events, done)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			a.config.Logger.Error("fsnotify error", "error", wErr)
			if a.config.ErrorHandler != nil {
				a.config.ErrorHandler(wErr)
			}
		}
	}
}

func (a *Adapter) handleFSEvent(watcher *fsnotify.Watcher, d *debouncer, fsEvent fsnotify.Event, events chan<- core.Event, done <-chan struct{}) {
	a.config.Logger.Debug("event received", "name", fsEvent.Name, "op", fsEvent.Op.String())

	rel, err := filepath.Rel(a.root, fsEvent.Name)
	if err != nil {
		return
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	// a new collection directory
	if len(parts) == 1 {
		if fsEvent.Has(fsnotify.Create) && !strings.HasPrefix(parts[0], ".") {
			if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
				if err := watcher.Add(fsEvent.Name); err != nil {
					a.config.Logger.Debug("watch collection failed", "path", fsEvent.Name, "error", err)
				}
			}
		}
		return
	}
	if len(parts) != 2 {
		return
	}

	collection, err := a.config.Normalizer.Denormalize(parts[0])
	if err != nil {
		return
	}
	id, ok := a.documentID(parts[1])
	if !ok {
		return
	}

	var eventType core.EventType
	switch {
	case fsEvent.Has(fsnotify.Create):
		eventType = core.EventCreate
	case fsEvent.Has(fsnotify.Write):
		eventType = core.EventModify
	case fsEvent.Has(fsnotify.Remove), fsEvent.Has(fsnotify.Rename):
		eventType = core.EventDelete
	default:
		return
	}

	event := core.Event{
		Type:       eventType,
		Collection: collection,
		ID:         id,
		Timestamp:  time.Now().Unix(),
	}
	a.recordEvent()
	d.add(collection+"/"+id, event, func(e core.Event) {
		select {
		case events <- e:
		case <-done:
		}
	})
}
