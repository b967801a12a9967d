// ABOUTME: Reposition scheduler: resize and capture-phase scroll invalidate the position
// ABOUTME: Coalesces invalidations to at most one host frame; stop cancels synchronously

package overlay

import "sync"

// scheduler owns the reposition listeners of one session.
type scheduler struct {
	host    Host
	onFrame func()

	mu          sync.Mutex
	pending     bool
	stopped     bool
	cancelFrame func()
	removers    []func()
}

func newScheduler(host Host, onFrame func()) *scheduler {
	return &scheduler{host: host, onFrame: onFrame}
}

// start subscribes to window resize and to scroll events from the window and
// every nested scroll container.
func (s *scheduler) start() {
	resize := s.host.Listen(EventResize, false, s.invalidate)
	scroll := s.host.Listen(EventScroll, true, s.invalidate)

	s.mu.Lock()
	stopped := s.stopped
	if !stopped {
		s.removers = append(s.removers, resize, scroll)
	}
	s.mu.Unlock()

	if stopped {
		resize()
		scroll()
	}
}

func (s *scheduler) invalidate(Event) {
	s.request()
}

// request schedules a measurement pass on the next frame unless one is
// already pending.
func (s *scheduler) request() {
	s.mu.Lock()
	if s.stopped || s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	cancel := s.host.RequestFrame(s.run)

	s.mu.Lock()
	switch {
	case s.stopped:
		s.mu.Unlock()
		cancel()
		return
	case s.pending:
		s.cancelFrame = cancel
	}
	s.mu.Unlock()
}

func (s *scheduler) run() {
	s.mu.Lock()
	if s.stopped || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.cancelFrame = nil
	s.mu.Unlock()

	s.onFrame()
}

// stop removes every listener and cancels a pending frame. Nothing scheduled
// by this scheduler runs after stop returns.
func (s *scheduler) stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.pending = false
	cancel := s.cancelFrame
	s.cancelFrame = nil
	removers := s.removers
	s.removers = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, remove := range removers {
		remove()
	}
}
