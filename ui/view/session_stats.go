package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows how long the current AR session and all sessions in this
// run have been active.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	// last rendered whole seconds, to skip redundant Configure calls
	lastSession, lastTotal int
}

// NewSessionStats grids the two labels inside parent at (row, startCol) and
// (row, startCol+1).
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{
		sessionLbl:  Label(Width(16), Anchor("w")),
		totalLbl:    Label(Width(16), Anchor("w")),
		lastSession: -1,
		lastTotal:   -1,
	}
	for i, lbl := range []*LabelWidget{s.sessionLbl, s.totalLbl} {
		if parent != nil {
			Grid(lbl, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(lbl, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetSession(0)
	s.SetTotal(0)
	return s
}

func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	if sec := int(d.Seconds()); sec != s.lastSession {
		s.lastSession = sec
		s.sessionLbl.Configure(Txt("Session: " + formatClock(d)))
	}
}

func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	if sec := int(d.Seconds()); sec != s.lastTotal {
		s.lastTotal = sec
		s.totalLbl.Configure(Txt("Total: " + formatClock(d)))
	}
}

// formatClock renders d as MM:SS, or H:MM:SS from one hour on.
func formatClock(d time.Duration) string {
	seconds := int(d.Seconds())
	h, m, sec := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
