package screen

import (
	"context"
	"sync"
)

// Ticket identifies one fetch of a screen resource. Only the most recent
// ticket for a resource may apply its response.
type Ticket struct {
	resource string
	seq      uint64
}

// Scope is the lifetime of one mounted screen. Its context is cancelled
// when the screen is unmounted; every gateway call the screen makes runs
// under it.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	seq map[string]uint64
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel, seq: make(map[string]uint64)}
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

// Begin issues a new ticket for resource, superseding any ticket issued
// before it.
func (s *Scope) Begin(resource string) (context.Context, Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[resource]++
	return s.ctx, Ticket{resource: resource, seq: s.seq[resource]}
}

// Latest reports whether t is still the newest ticket for its resource and
// the scope is still open.
func (s *Scope) Latest(t Ticket) bool {
	if s.ctx.Err() != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[t.resource] == t.seq
}

// Close cancels every in-flight call started under the scope.
func (s *Scope) Close() {
	s.cancel()
}

func (s *Scope) Closed() bool {
	return s.ctx.Err() != nil
}
