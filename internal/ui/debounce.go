// AngelaMos | 2026
// debounce.go

package ui

import (
	"sync"
	"time"
)

// Debounce delays fn until wait has passed without another call. cancel
// drops a pending run.
func Debounce(fn func(), wait time.Duration) (call func(), cancel func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	call = func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, fn)
	}

	cancel = func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}

	return call, cancel
}

// Coalescer keeps one debounced call per key. A burst of Call for the same
// key runs only the last fn, wait after the burst ends.
type Coalescer struct {
	mu      sync.Mutex
	wait    time.Duration
	calls   map[string]*coalesced
	stopped bool
}

type coalesced struct {
	call   func()
	cancel func()
	fn     func()
}

func NewCoalescer(wait time.Duration) *Coalescer {
	return &Coalescer{wait: wait, calls: make(map[string]*coalesced)}
}

func (c *Coalescer) Call(key string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	e, ok := c.calls[key]
	if !ok {
		e = &coalesced{}
		e.call, e.cancel = Debounce(func() { c.fire(key, e) }, c.wait)
		c.calls[key] = e
	}
	e.fn = fn
	e.call()
}

func (c *Coalescer) fire(key string, e *coalesced) {
	c.mu.Lock()
	run := e.fn
	e.fn = nil
	if c.calls[key] == e {
		delete(c.calls, key)
	}
	c.mu.Unlock()

	if run != nil {
		run()
	}
}

// Pending reports how many keys have a call waiting.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// Stop cancels every waiting call. Later calls are ignored.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.calls {
		e.cancel()
		delete(c.calls, key)
	}
	c.stopped = true
}
