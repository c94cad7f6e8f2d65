package filter

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the filter waits after the last keystroke
// before re-filtering.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer holds at most one pending callback. Each Trigger replaces the
// pending callback and restarts the wait.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a Debouncer. A duration of zero or less disables
// debouncing; callers that want the usual delay pass DefaultDebounce.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration < 0 {
		duration = 0
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback to run once the debounce duration elapses
// without another Trigger or Cancel. The callback runs on a timer goroutine.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		shouldRun := func() bool {
			d.mu.Lock()
			defer d.mu.Unlock()
			// A superseded timer may fire after Stop lost the race.
			if seq != d.seq {
				return false
			}
			d.timer = nil
			return true
		}()
		if shouldRun {
			callback()
		}
	})
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
