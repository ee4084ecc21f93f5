package tracking

import (
	"log/slog"
	"sync"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type transitionRecorder struct {
	mu  sync.Mutex
	seq []Mode
}

func (r *transitionRecorder) listener(prev, next Mode) {
	r.mu.Lock()
	r.seq = append(r.seq, next)
	r.mu.Unlock()
}

func TestSession_StartFromIdle(t *testing.T) {
	s := NewSession(discardLogger)
	if !s.Start() {
		t.Fatalf("start from idle should transition")
	}
	if s.Mode() != ModeScanning {
		t.Fatalf("expected scanning, got %v", s.Mode())
	}
	if s.Start() {
		t.Fatalf("start while scanning must be ignored")
	}
}

func TestSession_ToggleWithoutDetectionStops(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	mode, ok := s.Toggle()
	if !ok || mode != ModeIdle {
		t.Fatalf("expected idle after toggle without detection, got %v ok=%v", mode, ok)
	}
}

func TestSession_ToggleWithDetectionLocks(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	pos := Rect{X: 1, Y: 2, W: 3, H: 4}
	if !s.observe(s.phase(), det("car", 0.8), pos) {
		t.Fatalf("observe rejected")
	}
	mode, ok := s.Toggle()
	if !ok || mode != ModeLocked {
		t.Fatalf("expected locked, got %v ok=%v", mode, ok)
	}
	if _, ok := s.Detection(); !ok {
		t.Fatalf("lock must keep the detection")
	}
	if got, ok := s.Position(); !ok || got != pos {
		t.Fatalf("lock must keep the position, got %+v ok=%v", got, ok)
	}
}

func TestSession_ExitClearsState(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	s.observe(s.phase(), det("car", 0.8), Rect{W: 1, H: 1})
	s.Toggle()
	if !s.Exit() {
		t.Fatalf("exit from locked should transition")
	}
	if s.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %v", s.Mode())
	}
	if _, ok := s.Detection(); ok {
		t.Fatalf("exit must clear detection")
	}
	if _, ok := s.Position(); ok {
		t.Fatalf("exit must clear position")
	}
}

func TestSession_StartClearsRetainedDetection(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	s.observe(s.phase(), det("car", 0.8), Rect{W: 1, H: 1})
	s.Toggle()
	s.Exit()
	s.Start()
	if _, ok := s.Detection(); ok {
		t.Fatalf("start must begin with no detection")
	}
}

func TestSession_InvalidEventsIgnored(t *testing.T) {
	s := NewSession(discardLogger)
	r := &transitionRecorder{}
	s.AddListener(r.listener)
	if _, ok := s.Toggle(); ok {
		t.Fatalf("toggle from idle must be ignored")
	}
	if s.Exit() {
		t.Fatalf("exit from idle must be ignored")
	}
	s.Start()
	if s.Exit() {
		t.Fatalf("exit from scanning must be ignored")
	}
	if len(r.seq) != 1 || r.seq[0] != ModeScanning {
		t.Fatalf("unexpected transitions %v", r.seq)
	}
}

func TestSession_ObserveRejectsStaleMode(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	ph := s.phase()
	s.Toggle() // back to idle, no detection
	if s.observe(ph, det("car", 0.9), Rect{W: 1, H: 1}) {
		t.Fatalf("observation for a stale mode must be dropped")
	}
}

func TestSession_ObserveRejectsPreviousScanningPhase(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	ph := s.phase()
	s.Toggle()
	s.Start()
	if s.observe(ph, det("car", 0.9), Rect{W: 1, H: 1}) {
		t.Fatalf("observation from before the restart must be dropped")
	}
	if _, ok := s.lose(ph, true); ok {
		t.Fatalf("loss from before the restart must be dropped")
	}
	if _, ok := s.Detection(); ok {
		t.Fatalf("restarted session must stay empty")
	}
}

func TestSession_LoseInLocked(t *testing.T) {
	for _, retain := range []bool{true, false} {
		s := NewSession(discardLogger)
		s.Start()
		pos := Rect{X: 5, Y: 5, W: 10, H: 10}
		s.observe(s.phase(), det("car", 0.9), pos)
		s.Toggle()
		got, ok := s.lose(s.phase(), retain)
		if !ok {
			t.Fatalf("retain=%v: lose rejected", retain)
		}
		_, has := s.Position()
		if retain && (got == nil || *got != pos || !has) {
			t.Fatalf("retain=true must keep position, got %+v has=%v", got, has)
		}
		if !retain && (got != nil || has) {
			t.Fatalf("retain=false must clear position, got %+v has=%v", got, has)
		}
		if s.Mode() != ModeLocked {
			t.Fatalf("loss must not change mode, got %v", s.Mode())
		}
	}
}

func TestSession_LoseInScanningClears(t *testing.T) {
	s := NewSession(discardLogger)
	s.Start()
	s.observe(s.phase(), det("car", 0.9), Rect{W: 1, H: 1})
	s.lose(s.phase(), true)
	if _, ok := s.Detection(); ok {
		t.Fatalf("scanning loss must clear detection")
	}
}

func TestSession_ListenerMayQuerySession(t *testing.T) {
	s := NewSession(discardLogger)
	var seen Mode
	s.AddListener(func(prev, next Mode) { seen = s.Mode() })
	s.Start()
	if seen != ModeScanning {
		t.Fatalf("listener observed %v", seen)
	}
}
