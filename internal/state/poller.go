package state

import (
	"context"
	"sync"
	"time"
)

// DefaultStatsInterval is the refresh cadence of the statistics feeds.
const DefaultStatsInterval = 5 * time.Second

// Poller runs a function immediately and then at a fixed interval until
// stopped. At most one loop runs per Poller; Start replaces a running loop.
type Poller struct {
	interval time.Duration
	fn       func(context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns a stopped Poller. A non-positive interval uses
// DefaultStatsInterval.
func NewPoller(interval time.Duration, fn func(context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	return &Poller{interval: interval, fn: fn}
}

// Start stops any running loop, then launches a new one bound to ctx. The
// first tick runs right away in the loop goroutine.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.fn(loopCtx)
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the running loop and waits for it to exit. It is safe to
// call on a stopped Poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

// Running reports whether a loop is active. A loop whose parent context
// was cancelled still counts until Stop is called.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
