package shell

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/screen"
)

// Registry holds every live workspace.
type Registry struct {
	factories map[string]Factory
	idle      time.Duration
	now       func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(factories map[string]Factory, idle time.Duration) *Registry {
	return &Registry{
		factories:  factories,
		idle:       idle,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Open returns the workspace for id, creating it when id is empty or
// unknown. The returned workspace's ID may differ from id.
func (r *Registry) Open(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.workspaces[id]; ok {
		w.Touch()
		return w
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w := &Workspace{
		ID:        id,
		factories: r.factories,
		notices:   &screen.Notices{},
		now:       r.now,
		lastSeen:  r.now(),
	}
	r.workspaces[id] = w
	zap.L().Debug("workspace opened", zap.String("namespace", "shell"), zap.String("workspace", id))
	return w
}

func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[id]
	return w, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Reap unmounts and forgets workspaces idle for longer than the
// configured idle time.
func (r *Registry) Reap() int {
	deadline := r.now().Add(-r.idle)
	var expired []*Workspace
	r.mu.Lock()
	for id, w := range r.workspaces {
		if w.idleSince().Before(deadline) {
			expired = append(expired, w)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, w := range expired {
		w.Unmount()
	}
	if len(expired) > 0 {
		zap.L().Info("idle workspaces reaped",
			zap.String("namespace", "shell"),
			zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Close unmounts every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, w := range all {
		w.Unmount()
	}
}
