package tracking

// DefaultAllowedLabels are the classes treated as vehicles.
var DefaultAllowedLabels = []string{"car", "truck", "bus", "motorcycle"}

// SelectionPolicy decides which qualifying detection wins a cycle.
type SelectionPolicy int

const (
	// SelectFirst keeps the detector's native order: first match wins.
	SelectFirst SelectionPolicy = iota
	// SelectHighestConfidence picks the most confident match; ties keep the earlier one.
	SelectHighestConfidence
)

func (p SelectionPolicy) String() string {
	switch p {
	case SelectFirst:
		return "first"
	case SelectHighestConfidence:
		return "highest"
	default:
		return "unknown"
	}
}

// ParseSelectionPolicy maps a config string to a policy. Unknown values fall
// back to SelectFirst.
func ParseSelectionPolicy(s string) SelectionPolicy {
	if s == "highest" || s == "highest_confidence" {
		return SelectHighestConfidence
	}
	return SelectFirst
}

// Postprocessor filters or modifies a cycle's detections.
type Postprocessor func([]Detection) []Detection

// NewScoreFilter drops detections below conf.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Confidence >= conf {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewLabelFilter keeps only detections whose label is in labels.
func NewLabelFilter(labels []string) Postprocessor {
	allowed := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		allowed[l] = struct{}{}
	}
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if _, ok := allowed[d.Label]; ok {
				out = append(out, d)
			}
		}
		return out
	}
}

// Chain composes postprocessors left to right.
func Chain(ps ...Postprocessor) Postprocessor {
	return func(in []Detection) []Detection {
		for _, p := range ps {
			if p != nil {
				in = p(in)
			}
		}
		return in
	}
}

// Select returns the winning detection under policy, or false when none qualify.
func Select(in []Detection, policy SelectionPolicy) (Detection, bool) {
	if len(in) == 0 {
		return Detection{}, false
	}
	if policy != SelectHighestConfidence {
		return in[0], true
	}
	best := in[0]
	for _, d := range in[1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return best, true
}
