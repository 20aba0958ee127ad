package shortcut

import (
	"sync"
	"time"
)

// debouncer groups bursts of calls into one callback after a quiet period.
// The callback never runs concurrently with itself.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64 // invalidates timers that were superseded or cancelled
	callback func()
	running  sync.Mutex
}

func newDebouncer(delay time.Duration, callback func()) *debouncer {
	return &debouncer{delay: delay, callback: callback}
}

// Call schedules the callback, restarting the quiet period.
func (d *debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	current := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stale := d.seq != current
		d.mu.Unlock()
		if stale {
			return
		}
		d.running.Lock()
		defer d.running.Unlock()
		d.callback()
	})
}

// Cancel drops any scheduled callback.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
