package watch

import (
	"sort"
	"sync"
	"time"
)

// eventDebouncer batches file events so a burst of writes triggers one search
type eventDebouncer struct {
	mu       sync.Mutex
	events   map[string]struct{}
	debounce time.Duration
	timer    *time.Timer
	stopped  bool

	out  chan []string
	done chan struct{}
}

func newEventDebouncer(debounce time.Duration) *eventDebouncer {
	return &eventDebouncer{
		events:   make(map[string]struct{}),
		debounce: debounce,
		out:      make(chan []string),
		done:     make(chan struct{}),
	}
}

// addEvent records path and restarts the quiet period
func (d *eventDebouncer) addEvent(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.events[path] = struct{}{}

	// Reset the timer
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

// flush hands the accumulated paths to the consumer, or drops them once
// the debouncer is stopped
func (d *eventDebouncer) flush() {
	d.mu.Lock()
	if len(d.events) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.events))
	for p := range d.events {
		paths = append(paths, p)
	}
	d.events = make(map[string]struct{})
	d.mu.Unlock()

	sort.Strings(paths)
	select {
	case d.out <- paths:
	case <-d.done:
	}
}

// stop cancels any pending flush and releases blocked ones
func (d *eventDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.done)
}
