package schedule

import (
	"sync"
	"time"
)

// Scheduler holds at most one periodic task.
type Scheduler interface {
	// Arm cancels any armed task and starts calling fn every interval.
	Arm(interval time.Duration, fn func())
	// Cancel stops the armed task. It never blocks, so fn may call it.
	Cancel()
	Active() bool
}

// Ticker runs the armed task on its own goroutine driven by a time.Ticker.
type Ticker struct {
	mu   sync.Mutex
	stop chan struct{}
}

func NewTicker() *Ticker {
	return &Ticker{}
}

func (t *Ticker) Arm(interval time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	stop := make(chan struct{})
	t.stop = stop
	go run(interval, fn, stop)
}

func (t *Ticker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Ticker) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func run(interval time.Duration, fn func(), stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// a tick may race with Cancel; the stop check keeps a cancelled
			// handle from firing once more
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}
}
