package paywall

import "sync"

// Subscription waits for one specific window to close.
//
// It registers on the host before the window id is known, so a closure that
// races with OpenModal is not lost. The host observer is removed exactly
// once, on the matching closure or on Cancel, whichever comes first.
type Subscription struct {
	done chan struct{}
	once sync.Once

	mu        sync.Mutex
	target    WindowID
	hasTarget bool
	seen      map[WindowID]struct{}
	removed   bool
	remove    func()
}

// Watch starts observing window closures on host. Call Target once the id
// of the window of interest is known.
func Watch(host WindowHost) *Subscription {
	s := &Subscription{
		done: make(chan struct{}),
		seen: make(map[WindowID]struct{}),
	}
	remove := host.OnWindowClosed(s.observe)

	s.mu.Lock()
	if s.removed {
		s.mu.Unlock()
		remove()
		return s
	}
	s.remove = remove
	s.mu.Unlock()
	return s
}

// Target sets the window to wait for.
func (s *Subscription) Target(id WindowID) {
	s.mu.Lock()
	s.target, s.hasTarget = id, true
	_, closed := s.seen[id]
	s.seen = nil
	s.mu.Unlock()

	if closed {
		s.fire()
	}
}

// Done is closed when the target window closes.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Cancel stops observing. Done will not be closed afterwards unless the
// target already closed.
func (s *Subscription) Cancel() {
	s.once.Do(s.release)
}

func (s *Subscription) observe(id WindowID) {
	s.mu.Lock()
	if !s.hasTarget {
		if s.seen != nil {
			s.seen[id] = struct{}{}
		}
		s.mu.Unlock()
		return
	}
	match := s.target == id
	s.mu.Unlock()

	if match {
		s.fire()
	}
}

func (s *Subscription) fire() {
	s.once.Do(func() {
		s.release()
		close(s.done)
	})
}

func (s *Subscription) release() {
	s.mu.Lock()
	s.removed = true
	remove := s.remove
	s.remove = nil
	s.mu.Unlock()

	if remove != nil {
		remove()
	}
}
