package funcs

import (
	"sync"
	"time"
)

// Timers tracks countdown timers. Each runs on its own goroutine and only
// calls the say/chime callbacks when it fires; it never touches loop
// state. Cancellation is LIFO: "cancel the timer" means the most recently
// set one that is still running.
type Timers struct {
	say   func(string)
	chime func()

	mu      sync.Mutex
	entries []*timerEntry
}

type timerEntry struct {
	label string
	stop  chan struct{}
	done  bool
}

func NewTimers(say func(string), chime func()) *Timers {
	if say == nil {
		say = func(string) {}
	}
	if chime == nil {
		chime = func() {}
	}
	return &Timers{say: say, chime: chime}
}

// Start schedules a timer that chimes and announces its label when it
// fires.
func (t *Timers) Start(d time.Duration, label string) {
	e := &timerEntry{label: label, stop: make(chan struct{})}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()

	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			if t.finish(e) {
				t.chime()
				t.say("Timer done: " + label)
			}
		case <-e.stop:
		}
	}()
}

// finish removes the entry and reports whether it was still live; a timer
// cancelled in the same instant it fires stays silent.
func (t *Timers) finish(e *timerEntry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e.done {
		return false
	}
	e.done = true
	t.remove(e)
	return true
}

// remove must be called with the lock held.
func (t *Timers) remove(e *timerEntry) {
	for i, cur := range t.entries {
		if cur == e {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// CancelLast cancels the most recently started live timer and returns its
// label.
func (t *Timers) CancelLast() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return "", false
	}
	e := t.entries[len(t.entries)-1]
	e.done = true
	close(e.stop)
	t.entries = t.entries[:len(t.entries)-1]
	return e.label, true
}

// CancelAll cancels every live timer and returns how many there were.
func (t *Timers) CancelAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.entries)
	for _, e := range t.entries {
		e.done = true
		close(e.stop)
	}
	t.entries = nil
	return n
}

// Active reports how many timers are currently running.
func (t *Timers) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
