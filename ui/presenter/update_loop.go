package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick/ProcessFrame on the sub-presenters and invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	Mode     *ModePresenter
	Capture  *CapturePresenter
	Tracking *TrackingPresenter
	Schedule func()
	Now      func() time.Time
}

func NewLoop(sess *SessionPresenter, mode *ModePresenter, capture *CapturePresenter, tracking *TrackingPresenter, schedule func()) *Loop {
	return &Loop{Session: sess, Mode: mode, Capture: capture, Tracking: tracking, Schedule: schedule, Now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	// Apply a finished camera switch before anything reads the source.
	if l.Capture != nil {
		l.Capture.Tick()
	}
	if l.Mode != nil {
		l.Mode.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Tracking != nil {
		l.Tracking.ProcessFrame()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
