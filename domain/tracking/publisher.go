package tracking

// Publisher turns per-cycle target positions into the published overlay
// position, optionally easing toward the target to damp detector jitter.
// It is owned by the tracker cycle and is not safe for concurrent use.
type Publisher struct {
	alpha float64
	last  *Rect
}

// NewPublisher returns a publisher with smoothing factor alpha. Values outside
// (0,1) publish targets unchanged.
func NewPublisher(alpha float64) *Publisher {
	return &Publisher{alpha: alpha}
}

// Next returns the position to publish for target.
func (p *Publisher) Next(target Rect) Rect {
	if p.last == nil || p.alpha <= 0 || p.alpha >= 1 {
		p.last = &target
		return target
	}
	prev := *p.last
	out := Rect{
		X: lerp(prev.X, target.X, p.alpha),
		Y: lerp(prev.Y, target.Y, p.alpha),
		W: lerp(prev.W, target.W, p.alpha),
		H: lerp(prev.H, target.H, p.alpha),
	}
	p.last = &out
	return out
}

// Reset forgets the previous position so the next target is published as is.
func (p *Publisher) Reset() { p.last = nil }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
