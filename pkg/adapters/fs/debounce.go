package fs

import (
	"sync"
	"time"

	"github.com/aretw0/docstore/pkg/core"
)

// debouncer delivers only the latest event per key once the key has been
// quiet for delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

func (d *debouncer) add(key string, event core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending[key] = event
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		e, ok := d.pending[key]
		delete(d.pending, key)
		if d.timers[key] == timer {
			delete(d.timers, key)
		}
		d.mu.Unlock()

		if ok {
			fire(e)
		}
	})
	d.timers[key] = timer
}

// stop drops pending events and waits for callbacks already running. Callers
// must make sure a running callback cannot block forever.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	clear(d.pending)
	d.mu.Unlock()

	d.wg.Wait()
}
