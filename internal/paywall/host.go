package paywall

import (
	"context"
	"fmt"
	"sync"
)

// WindowID identifies a window created by a WindowHost.
type WindowID int

// WindowHost is the UI environment the controller drives.
type WindowHost interface {
	// OpenModal opens a popup window showing url and returns its id.
	OpenModal(ctx context.Context, url string, g Geometry) (WindowID, error)
	// OnWindowClosed registers fn for every window closure and returns the
	// function that removes it.
	OnWindowClosed(fn func(WindowID)) (remove func())
}

// Window is a window opened on a LocalHost.
type Window struct {
	ID       WindowID
	URL      string
	Geometry Geometry
}

// LocalHost is an in-process WindowHost. Windows are records; closing one
// notifies the registered observers. OnOpen, when set, is called for every
// new window.
type LocalHost struct {
	OnOpen func(Window)

	mu        sync.Mutex
	nextID    WindowID
	nextLis   int
	windows   map[WindowID]Window
	listeners map[int]func(WindowID)
}

// NewLocalHost returns a host with no windows; ids start at 1.
func NewLocalHost() *LocalHost {
	return &LocalHost{
		nextID:    1,
		windows:   make(map[WindowID]Window),
		listeners: make(map[int]func(WindowID)),
	}
}

// OpenModal records a new window and reports it to OnOpen.
func (h *LocalHost) OpenModal(ctx context.Context, url string, g Geometry) (WindowID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	h.mu.Lock()
	w := Window{ID: h.nextID, URL: url, Geometry: g}
	h.nextID++
	h.windows[w.ID] = w
	onOpen := h.OnOpen
	h.mu.Unlock()

	if onOpen != nil {
		onOpen(w)
	}
	return w.ID, nil
}

// OnWindowClosed registers fn until the returned function is called.
func (h *LocalHost) OnWindowClosed(fn func(WindowID)) func() {
	h.mu.Lock()
	id := h.nextLis
	h.nextLis++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Close removes the window and notifies observers outside the lock.
func (h *LocalHost) Close(id WindowID) error {
	h.mu.Lock()
	if _, ok := h.windows[id]; !ok {
		h.mu.Unlock()
		return fmt.Errorf("window %d is not open", id)
	}
	delete(h.windows, id)
	fns := make([]func(WindowID), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
	return nil
}

// Windows returns the open windows.
func (h *LocalHost) Windows() []Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Window, 0, len(h.windows))
	for _, w := range h.windows {
		out = append(out, w)
	}
	return out
}

// ListenerCount reports how many close observers are registered.
func (h *LocalHost) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
