package presenter

import (
	"time"

	"github.com/soocke/car-ar-go/ui/model"
)

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter advances the AR session timer while the mode is active and
// pushes the durations to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	mode ModeReader
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, mode ModeReader, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, mode: mode, view: view}
}

// Tick updates the presenter: advance the session model and push values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.mode == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.mode.Mode().Active(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
