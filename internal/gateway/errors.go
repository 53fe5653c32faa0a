package gateway

import (
	"fmt"
	"net/http"
)

// Error is returned for every failed gateway call: transport failure,
// timeout, cancellation or a non-2xx response.
type Error struct {
	Op     string
	Method string
	Path   string
	Status int    // 0 when no response was received
	Detail string // gateway supplied reason, if any
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("gateway %s %s %s: %v", e.Op, e.Method, e.Path, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("gateway %s %s %s: %d %s", e.Op, e.Method, e.Path, e.Status, e.Detail)
	default:
		return fmt.Sprintf("gateway %s %s %s: %d %s", e.Op, e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a 404 from the gateway.
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}
