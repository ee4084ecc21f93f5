package tracking

import (
	"log/slog"
	"sync"
)

// ModeListener is invoked after every successful mode transition.
type ModeListener func(prev, next Mode)

// Session holds the mode, the last selected detection and the published
// overlay position. Only the transitions of the mode table are exported; the
// loop feeds observations through package-internal methods.
//
// It is safe for concurrent use: the tracker cycle and UI handlers run on
// different goroutines.
type Session struct {
	mu        sync.Mutex
	mode      Mode
	epoch     uint64
	detection *Detection
	position  *Rect
	logger    *slog.Logger
	listeners []ModeListener
}

// NewSession returns a session in ModeIdle.
func NewSession(logger *slog.Logger) *Session {
	return &Session{mode: ModeIdle, logger: logger}
}

// AddListener registers l for mode transitions.
func (s *Session) AddListener(l ModeListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Detection returns the retained detection, if any.
func (s *Session) Detection() (Detection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detection == nil {
		return Detection{}, false
	}
	return *s.detection, true
}

// Position returns the published overlay position, if any.
func (s *Session) Position() (Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position == nil {
		return Rect{}, false
	}
	return *s.position, true
}

// Start moves Idle to Scanning and clears retained state.
func (s *Session) Start() bool {
	return s.fire("start", func() (Mode, bool) {
		if s.mode != ModeIdle {
			return s.mode, false
		}
		s.clear()
		return ModeScanning, true
	})
}

// Toggle locks onto the current detection when one exists; otherwise it stops
// scanning. It returns the resulting mode and whether a transition happened.
func (s *Session) Toggle() (Mode, bool) {
	ok := s.fire("toggle", func() (Mode, bool) {
		if s.mode != ModeScanning {
			return s.mode, false
		}
		if s.detection != nil {
			return ModeLocked, true
		}
		s.clear()
		return ModeIdle, true
	})
	return s.Mode(), ok
}

// Exit leaves Locked for Idle, clearing detection and position.
func (s *Session) Exit() bool {
	return s.fire("exit", func() (Mode, bool) {
		if s.mode != ModeLocked {
			return s.mode, false
		}
		s.clear()
		return ModeIdle, true
	})
}

// fire evaluates a guarded transition under the lock and notifies listeners
// after releasing it.
func (s *Session) fire(event string, guard func() (Mode, bool)) bool {
	s.mu.Lock()
	prev := s.mode
	next, ok := guard()
	if !ok {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Debug("mode event ignored", "event", event, "mode", prev.String())
		}
		return false
	}
	s.mode = next
	s.epoch++
	listeners := append([]ModeListener(nil), s.listeners...)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("mode transition", "event", event, "from", prev.String(), "to", next.String())
	}
	for _, l := range listeners {
		l(prev, next)
	}
	return true
}

func (s *Session) clear() {
	s.detection = nil
	s.position = nil
}

// phase identifies one stretch of a mode. Every transition starts a new
// phase, so a cycle that straddles Stop and Start is told apart from the
// session it began in.
type phase struct {
	mode  Mode
	epoch uint64
}

func (s *Session) phase() phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return phase{mode: s.mode, epoch: s.epoch}
}

func (s *Session) currentLocked(ph phase) bool {
	return s.mode == ph.mode && s.epoch == ph.epoch && ph.mode.Active()
}

// observe records a selected detection for a cycle that started in ph.
// It reports false when a transition happened while the detector was
// running, in which case the observation is stale and dropped.
func (s *Session) observe(ph phase, d Detection, pos Rect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(ph) {
		return false
	}
	s.detection = &d
	s.position = &pos
	return true
}

// lose handles a cycle without a qualifying detection. In scanning the target
// is dropped. In locked the position is kept when retain is set. It returns
// the position that remains published.
func (s *Session) lose(ph phase, retain bool) (*Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(ph) {
		return nil, false
	}
	if ph.mode == ModeLocked && retain {
		if s.position == nil {
			return nil, true
		}
		p := *s.position
		return &p, true
	}
	s.clear()
	return nil, true
}
