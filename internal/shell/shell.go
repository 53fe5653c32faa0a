package shell

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/screen"
)

const (
	ScreenDashboard = "dashboard"
	ScreenMedicines = "medicines"
	ScreenSale      = "sale"
	ScreenInventory = "inventory"
	ScreenSettings  = "settings"
)

var ErrUnknownScreen = screen.Reject("Unknown screen")

// Screen is one top-level console screen. Refresh is its fetch-on-mount;
// Close cancels everything it still has in flight.
type Screen interface {
	Name() string
	Refresh() error
	Close()
}

// Factory builds a screen bound to scope.
type Factory func(scope *screen.Scope, notices *screen.Notices) Screen

type NavItem struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

var navigation = []NavItem{
	{Key: ScreenDashboard, Label: "Dashboard"},
	{Key: ScreenMedicines, Label: "Medicines"},
	{Key: ScreenSale, Label: "Sale"},
	{Key: ScreenInventory, Label: "Inventory"},
	{Key: ScreenSettings, Label: "Settings"},
}

// Workspace is one browser session. Exactly one screen is mounted at a
// time.
type Workspace struct {
	ID string

	factories map[string]Factory
	notices   *screen.Notices
	now       func() time.Time

	// mounting serialises Mount and Ensure
	mounting sync.Mutex

	mu       sync.Mutex
	active   Screen
	lastSeen time.Time
}

func (w *Workspace) Notices() *screen.Notices {
	return w.notices
}

// Touch records activity for idle reaping.
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = w.now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) Active() Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Mount replaces the active screen with a freshly built one and runs its
// initial fetch. The previous screen is closed first.
func (w *Workspace) Mount(name string) (Screen, error) {
	w.mounting.Lock()
	defer w.mounting.Unlock()
	return w.mount(name)
}

func (w *Workspace) mount(name string) (Screen, error) {
	factory, ok := w.factories[name]
	if !ok {
		w.notices.Fail(ErrUnknownScreen, "")
		return nil, ErrUnknownScreen
	}
	s := factory(screen.NewScope(context.Background()), w.notices)

	w.mu.Lock()
	prev := w.active
	w.active = s
	w.lastSeen = w.now()
	w.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	zap.L().Debug("screen mounted",
		zap.String("namespace", "shell"),
		zap.String("workspace", w.ID),
		zap.String("screen", name))
	_ = s.Refresh()
	return s, nil
}

// Unmount closes the active screen, if any.
func (w *Workspace) Unmount() {
	w.mu.Lock()
	prev := w.active
	w.active = nil
	w.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

// Nav lists the navigation items with the active one flagged.
func (w *Workspace) Nav() []NavItem {
	active := ""
	if s := w.Active(); s != nil {
		active = s.Name()
	}
	items := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if _, ok := w.factories[item.Key]; !ok {
			continue
		}
		item.Active = item.Key == active
		items = append(items, item)
	}
	return items
}

// Ensure returns the active screen as T, mounting name first when another
// screen is active.
func Ensure[T Screen](w *Workspace, name string) (T, error) {
	w.mounting.Lock()
	defer w.mounting.Unlock()
	if s, ok := w.Active().(T); ok && s.Name() == name {
		return s, nil
	}
	s, err := w.mount(name)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := s.(T)
	if !ok {
		var zero T
		return zero, ErrUnknownScreen
	}
	return t, nil
}
