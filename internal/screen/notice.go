package screen

import "sync"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient toast raised by a screen operation.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notices queues toasts until the next response drains them.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

func (n *Notices) push(level Level, msg string) {
	n.mu.Lock()
	n.items = append(n.items, Notice{Level: level, Message: msg})
	n.mu.Unlock()
}

func (n *Notices) Success(msg string) { n.push(LevelSuccess, msg) }
func (n *Notices) Info(msg string)    { n.push(LevelInfo, msg) }
func (n *Notices) Warning(msg string) { n.push(LevelWarning, msg) }
func (n *Notices) Error(msg string)   { n.push(LevelError, msg) }

// Fail raises an error toast with the display string of err.
func (n *Notices) Fail(err error, fallback string) {
	n.push(LevelError, Flatten(err, fallback))
}

// Drain returns the queued notices and empties the queue. It never
// returns nil so the JSON rendering is always an array.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
