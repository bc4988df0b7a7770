package reflex

import "sync"

// Timeline is a counting wait primitive modeled on a timeline semaphore:
// a monotonically increasing value that waiters block on until it reaches
// their target. Signal and Wait are safe from any thread.
type Timeline struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value uint64
}

// NewTimeline creates a timeline with value 0.
func NewTimeline() *Timeline {
	tl := &Timeline{}
	tl.cond = sync.NewCond(&tl.mu)
	return tl
}

// Signal raises the timeline to v and wakes waiters. The value never
// decreases; signaling a lower value is a no-op.
func (tl *Timeline) Signal(v uint64) {
	tl.mu.Lock()
	if v > tl.value {
		tl.value = v
		tl.cond.Broadcast()
	}
	tl.mu.Unlock()
}

// Wait blocks until the timeline value reaches at least v.
func (tl *Timeline) Wait(v uint64) {
	tl.mu.Lock()
	for tl.value < v {
		tl.cond.Wait()
	}
	tl.mu.Unlock()
}

// Value returns the current timeline value.
func (tl *Timeline) Value() uint64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.value
}
