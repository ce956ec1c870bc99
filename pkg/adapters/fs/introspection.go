package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// AdapterState exposes internal state for observability.
type AdapterState struct {
	Path          string     `json:"path"`
	Codec         string     `json:"codec"`
	Extension     string     `json:"extension"`
	WatcherActive bool       `json:"watcher_active"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (a *Adapter) State() any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return AdapterState{
		Path:          a.root,
		Codec:         a.config.Codec.Name(),
		Extension:     a.config.Codec.Extension(),
		WatcherActive: a.watcherActive,
		LastEvent:     a.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Adapter)(nil)
var _ introspection.Component = (*Adapter)(nil)

func (a *Adapter) setWatcherActive(active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watcherActive = active
}

func (a *Adapter) recordEvent() {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	a.lastEvent = &now
}
