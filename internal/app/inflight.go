package app

import "sync"

// inflightGuard tracks mutation targets with a request still pending. A second
// mutation for the same target is refused instead of queued, so double key
// presses cannot race each other to the server.
type inflightGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{pending: map[string]struct{}{}}
}

// acquire reserves a target id. It reports false when the target already has a
// mutation pending.
func (g *inflightGuard) acquire(targetID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[targetID]; busy {
		return false
	}
	g.pending[targetID] = struct{}{}
	return true
}

func (g *inflightGuard) release(targetID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, targetID)
}
