package model

import (
	"testing"
	"time"
)

func TestSessionModel_BasicLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	// Scanning starts at t0 and runs for 5s.
	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	session, total := m.Values()
	if session != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s session & total; got session=%v total=%v", session, total)
	}
	if !m.Active() {
		t.Fatalf("model should be active while scanning")
	}

	// Exit to idle at 5s.
	m.OnTick(false, base.Add(5*time.Second))
	session, total = m.Values()
	if session != 5*time.Second || total != 5*time.Second {
		t.Fatalf("after exit expected persisted 5s; got session=%v total=%v", session, total)
	}

	// Idle 2s (no change expected).
	m.OnTick(false, base.Add(7*time.Second))
	session2, total2 := m.Values()
	if session2 != session || total2 != total {
		t.Fatalf("idle tick should not change durations: before session=%v total=%v after session=%v total=%v", session, total, session2, total2)
	}

	// Second session at 10s lasting 3s.
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	s3, t3 := m.Values()
	if s3 != 3*time.Second || t3 != 8*time.Second {
		t.Fatalf("expected 3s session and 8s total, got %v %v", s3, t3)
	}

	m.OnTick(false, base.Add(13*time.Second))
	if _, tFinal := m.Values(); tFinal != 8*time.Second {
		t.Fatalf("final total expected 8s, got %v", tFinal)
	}
}

func TestSessionModel_NilSafe(t *testing.T) {
	var m *SessionModel
	m.OnTick(true, time.Now())
	if s, tot := m.Values(); s != 0 || tot != 0 || m.Active() {
		t.Fatalf("nil model should report zero values")
	}
}
