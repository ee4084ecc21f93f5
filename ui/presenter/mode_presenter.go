package presenter

import (
	"sync"
	"time"

	"github.com/soocke/car-ar-go/domain/tracking"
)

// ModeView reflects the tracking mode in the view.
type ModeView interface {
	SetStateLabel(string)
	SetControls(tracking.Mode)
}

// ModePresenter receives mode transitions and updates the view on the next tick.
type ModePresenter struct {
	view ModeView

	mu      sync.Mutex // OnMode may run on the tracker goroutine
	pending []tracking.Mode

	latest  tracking.Mode
	applied bool
}

func NewModePresenter(view ModeView) *ModePresenter {
	return &ModePresenter{view: view}
}

// OnMode queues a transitioned mode; it matches tracking.ModeListener.
//
// The latest queued mode will be reflected on the next Tick.
func (p *ModePresenter) OnMode(prev, next tracking.Mode) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick processes queued modes and updates the view with the most recent one.
// The first tick always paints the initial Idle state.
func (p *ModePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	next, have := p.latest, false
	if len(p.pending) > 0 {
		next, have = p.pending[len(p.pending)-1], true
		p.pending = p.pending[:0]
	}
	p.mu.Unlock()
	if p.applied && (!have || next == p.latest) {
		return
	}
	p.applied = true
	p.latest = next
	p.view.SetStateLabel("Mode: " + next.String())
	p.view.SetControls(next)
}
