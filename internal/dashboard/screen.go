package dashboard

import (
	"context"
	"sync"

	"github.com/talkincode/pharmadesk/internal/screen"
)

const resourceSnapshot = "dashboard:snapshot"

// Snapshotter is satisfied by *Board.
type Snapshotter interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Screen is the dashboard as mounted in one workspace.
type Screen struct {
	board   Snapshotter
	scope   *screen.Scope
	notices *screen.Notices

	mu   sync.Mutex
	snap Snapshot
}

func NewScreen(board Snapshotter, scope *screen.Scope, notices *screen.Notices) *Screen {
	return &Screen{board: board, scope: scope, notices: notices}
}

func (s *Screen) Name() string {
	return "dashboard"
}

func (s *Screen) Close() {
	s.scope.Close()
}

func (s *Screen) Refresh() error {
	ctx, ticket := s.scope.Begin(resourceSnapshot)
	snap, err := s.board.Snapshot(ctx)
	if err != nil {
		if s.scope.Latest(ticket) {
			s.notices.Fail(err, "Failed to load dashboard")
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scope.Latest(ticket) {
		s.snap = snap
	}
	return nil
}

func (s *Screen) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
