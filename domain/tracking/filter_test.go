package tracking

import (
	"testing"
)

func det(label string, score float64) Detection {
	return Detection{Label: label, Confidence: score, Box: Rect{X: 1, Y: 1, W: 10, H: 10}}
}

func TestSelect_FirstMatchWins(t *testing.T) {
	in := []Detection{det("person", 0.9), det("car", 0.4), det("truck", 0.6)}
	filter := Chain(NewLabelFilter(DefaultAllowedLabels), NewScoreFilter(0.35))
	got, ok := Select(filter(in), SelectFirst)
	if !ok {
		t.Fatalf("expected a selection")
	}
	if got.Label != "car" || got.Confidence != 0.4 {
		t.Fatalf("expected car@0.4, got %s@%v", got.Label, got.Confidence)
	}
}

func TestSelect_HighestConfidenceDeviation(t *testing.T) {
	in := []Detection{det("person", 0.9), det("car", 0.4), det("truck", 0.6), det("bus", 0.6)}
	filter := Chain(NewLabelFilter(DefaultAllowedLabels), NewScoreFilter(0.35))
	got, ok := Select(filter(in), SelectHighestConfidence)
	if !ok || got.Label != "truck" {
		t.Fatalf("expected truck (earliest of tied best), got %+v ok=%v", got, ok)
	}
}

func TestScoreFilter_InclusiveThreshold(t *testing.T) {
	out := NewScoreFilter(0.5)([]Detection{det("car", 0.5), det("car", 0.49)})
	if len(out) != 1 || out[0].Confidence != 0.5 {
		t.Fatalf("expected only the 0.5 entry, got %+v", out)
	}
}

func TestLabelFilter_DropsNonVehicles(t *testing.T) {
	in := []Detection{det("person", 0.99), det("bicycle", 0.99), det("motorcycle", 0.2), det("bus", 0.8)}
	out := NewLabelFilter(DefaultAllowedLabels)(in)
	if len(out) != 2 || out[0].Label != "motorcycle" || out[1].Label != "bus" {
		t.Fatalf("unexpected filter output %+v", out)
	}
}

func TestSelect_EmptyInput(t *testing.T) {
	if _, ok := Select(nil, SelectFirst); ok {
		t.Fatalf("expected no selection for empty input")
	}
}

func TestParseSelectionPolicy(t *testing.T) {
	if ParseSelectionPolicy("highest") != SelectHighestConfidence {
		t.Fatalf("highest not parsed")
	}
	if ParseSelectionPolicy("bogus") != SelectFirst {
		t.Fatalf("unknown policy should fall back to first")
	}
}

func TestNewDetection_Narrowing(t *testing.T) {
	d, err := NewDetection("  Car ", 0.87, Rect{W: 5, H: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Label != "car" {
		t.Fatalf("label not normalised: %q", d.Label)
	}
	if d.Caption() != "CAR 87%" {
		t.Fatalf("unexpected caption %q", d.Caption())
	}
	if _, err := NewDetection("car", 1.2, Rect{W: 5, H: 5}); err == nil {
		t.Fatalf("expected out of range confidence error")
	}
	if _, err := NewDetection("", 0.5, Rect{W: 5, H: 5}); err == nil {
		t.Fatalf("expected empty label error")
	}
	if _, err := NewDetection("car", 0.5, Rect{W: 0, H: 5}); err == nil {
		t.Fatalf("expected empty box error")
	}
}
