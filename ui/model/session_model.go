package model

import (
	"time"
)

// SessionModel tracks how long the current AR session has been scanning or
// locked and the accumulated active time. Presenters poll Values() and update
// views. The zero value is ready to use.
type SessionModel struct {
	active      bool
	start       time.Time
	lastSession time.Duration
	accumulated time.Duration
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the tracking mode's activity at now.
func (m *SessionModel) OnTick(active bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case active && !m.active:
		m.active = true
		m.start = now
		m.lastSession = 0
	case active:
		m.lastSession = now.Sub(m.start)
	case m.active:
		m.lastSession = now.Sub(m.start)
		m.accumulated += m.lastSession
		m.active = false
	}
}

// Active reports whether a session is running.
func (m *SessionModel) Active() bool { return m != nil && m.active }

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSession
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}
