package speech

import (
	"context"
	"sync"
)

// Gate is a pause latch shared by the engine and its worker. A paused gate
// holds an open channel that Resume closes, so waiters block without polling.
// A nil *Gate is never paused.
type Gate struct {
	mu     sync.Mutex
	resume chan struct{} // non-nil while paused
}

// NewGate returns an open gate.
func NewGate() *Gate { return &Gate{} }

// Pause closes the gate. It reports whether the gate was open.
func (g *Gate) Pause() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resume != nil {
		return false
	}
	g.resume = make(chan struct{})
	return true
}

// Resume opens the gate and wakes every waiter. It reports whether the
// gate was paused.
func (g *Gate) Resume() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resume == nil {
		return false
	}
	close(g.resume)
	g.resume = nil
	return true
}

// Paused reports whether the gate is closed.
func (g *Gate) Paused() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resume != nil
}

// Wait blocks while the gate is paused. It returns false if ctx ended first.
func (g *Gate) Wait(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			return false
		}
		if g == nil {
			return true
		}
		g.mu.Lock()
		ch := g.resume
		g.mu.Unlock()
		if ch == nil {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ch:
		}
	}
}
