package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	defaultInterval       = 33 * time.Millisecond
	trackerStatsLogPeriod = 5 * time.Second
)

// Options configures the per-cycle pipeline.
type Options struct {
	MinConfidence         float64
	AllowedLabels         []string
	Policy                SelectionPolicy
	Transform             TransformOptions
	RetainLastKnownOnLoss bool
	Smoothing             float64
	Brackets              bool
	Interval              time.Duration
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		MinConfidence:         0.35,
		AllowedLabels:         append([]string(nil), DefaultAllowedLabels...),
		Policy:                SelectFirst,
		Transform:             TransformOptions{Scale: 1},
		RetainLastKnownOnLoss: true,
		Brackets:              true,
		Interval:              defaultInterval,
	}
}

// Tracker runs the detect, filter, transform and publish cycle while the
// session is scanning or locked. Each cycle schedules the next one only after
// its detector call has returned, so at most one call is in flight.
type Tracker struct {
	session  *Session
	source   FrameSource
	detector Detector
	display  Display
	pipeline atomic.Pointer[pipeline]
	clock    clock.Clock
	logger   *slog.Logger
	results  chan CycleResult

	mu        sync.Mutex
	started   bool
	stopped   bool
	scheduled bool
	running   bool
	timer     *clock.Timer
	ctx       context.Context
	cancel    context.CancelFunc
	lastLog   time.Time

	seq         atomic.Uint64
	cycles      atomic.Uint64
	detections  atomic.Uint64
	errors      atomic.Uint64
	notReady    atomic.Uint64
	detectNanos atomic.Uint64
	lastCycle   atomic.Int64
}

// pipeline is the per-cycle configuration. A cycle loads it once, so
// SetOptions never changes the rules halfway through a cycle.
type pipeline struct {
	opts      Options
	filter    Postprocessor
	publisher *Publisher
}

func newPipeline(opts Options) *pipeline {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if len(opts.AllowedLabels) == 0 {
		opts.AllowedLabels = append([]string(nil), DefaultAllowedLabels...)
	}
	return &pipeline{
		opts:      opts,
		filter:    Chain(NewLabelFilter(opts.AllowedLabels), NewScoreFilter(opts.MinConfidence)),
		publisher: NewPublisher(opts.Smoothing),
	}
}

// NewTracker wires a tracker to session. A nil clk uses the wall clock.
func NewTracker(session *Session, source FrameSource, detector Detector, display Display, opts Options, clk clock.Clock, logger *slog.Logger) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		session:  session,
		source:   source,
		detector: detector,
		display:  display,
		clock:    clk,
		logger:   logger,
		results:  make(chan CycleResult, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	t.pipeline.Store(newPipeline(opts))
	session.AddListener(func(prev, next Mode) {
		if next.Active() {
			t.kick()
		}
	})
	return t
}

// SetOptions replaces the pipeline configuration from the next cycle on.
// Smoothing restarts from the next published position.
func (t *Tracker) SetOptions(opts Options) {
	t.pipeline.Store(newPipeline(opts))
}

// Options returns the active configuration.
func (t *Tracker) Options() Options { return t.pipeline.Load().opts }

// Results delivers the latest cycle result. Stale results are dropped when the
// consumer falls behind.
func (t *Tracker) Results() <-chan CycleResult { return t.results }

// Session returns the session the tracker feeds.
func (t *Tracker) Session() *Session { return t.session }

// Start enables scheduling. Cycles run only while the session is active.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.stopped || t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()
	if t.session.Mode().Active() {
		t.kick()
	}
}

// Stop tears the tracker down. A detector call already in flight is left to
// finish and its result is discarded. Safe to call more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.scheduled = false
	t.cancel()
}

func (t *Tracker) alive() bool { return t.started && !t.stopped }

// kick schedules an immediate cycle unless one is pending or running.
func (t *Tracker) kick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.alive() || t.scheduled || t.running {
		return
	}
	t.scheduleLocked(0)
}

func (t *Tracker) scheduleLocked(d time.Duration) {
	t.scheduled = true
	// cycle takes t.mu, so it never runs on the timer's calling goroutine.
	t.timer = t.clock.AfterFunc(d, func() { go t.cycle() })
}

func (t *Tracker) cycle() {
	t.mu.Lock()
	t.scheduled = false
	if !t.alive() {
		t.mu.Unlock()
		return
	}
	ph := t.session.phase()
	mode := ph.mode
	if !mode.Active() {
		t.mu.Unlock()
		return
	}
	t.running = true
	ctx := t.ctx
	t.mu.Unlock()

	defer t.finish()

	frame, ok := t.source.CurrentFrame()
	if !ok || !frame.Ready() {
		t.notReady.Add(1)
		return
	}

	start := t.clock.Now()
	dets, err := t.detect(ctx, frame)
	dur := t.clock.Since(start)
	t.detectNanos.Add(uint64(dur.Nanoseconds()))
	t.cycles.Add(1)
	t.lastCycle.Store(t.clock.Now().UnixNano())

	t.mu.Lock()
	dead := !t.alive()
	t.mu.Unlock()
	if dead {
		return
	}

	p := t.pipeline.Load()
	res := CycleResult{Sequence: t.seq.Add(1), Mode: mode, Frame: frame, Duration: dur}
	if err != nil {
		t.errors.Add(1)
		if t.logger != nil {
			t.logger.Warn("detect", "error", err, "mode", mode.String())
		}
		res.Err = err
		t.publish(res)
		return
	}
	if !t.process(p, ph, frame, dets, &res) {
		return
	}
	t.publish(res)
}

// process applies filter, selection, transform and loss policy. It reports
// false when the session moved on while the detector ran.
func (t *Tracker) process(p *pipeline, ph phase, frame Frame, dets []Detection, res *CycleResult) bool {
	sel, found := Select(p.filter(dets), p.opts.Policy)
	if !found {
		pos, ok := t.session.lose(ph, p.opts.RetainLastKnownOnLoss)
		if !ok {
			return false
		}
		if pos == nil {
			p.publisher.Reset()
		}
		res.Position = pos
		return true
	}

	b := frame.Image.Bounds()
	dw, dh := t.display.DisplaySize()
	target, err := Place(sel.Box, float64(b.Dx()), float64(b.Dy()), dw, dh, p.opts.Transform)
	if err != nil {
		t.errors.Add(1)
		if t.logger != nil {
			t.logger.Warn("overlay transform", "error", err)
		}
		res.Err = err
		return true
	}
	if _, had := t.session.Position(); !had {
		// Transitions clear the position; start easing from scratch.
		p.publisher.Reset()
	}
	pos := p.publisher.Next(target)
	if !t.session.observe(ph, sel, pos) {
		return false
	}
	t.detections.Add(1)
	res.Detection = &sel
	res.Position = &pos
	if ph.mode == ModeScanning {
		res.Annotation = &Annotation{Box: pos, Caption: sel.Caption(), Brackets: p.opts.Brackets}
	}
	return true
}

func (t *Tracker) detect(ctx context.Context, frame Frame) (dets []Detection, err error) {
	defer func() {
		if r := recover(); r != nil {
			if t.logger != nil {
				t.logger.Error("detector panic", "error", r, "stack", string(debug.Stack()))
			}
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return t.detector.Detect(ctx, frame.Image)
}

// finish ends a cycle and schedules the next one while the session stays active.
func (t *Tracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if !t.alive() || t.scheduled {
		return
	}
	if !t.session.Mode().Active() {
		return
	}
	t.scheduleLocked(t.pipeline.Load().opts.Interval)
	t.maybeLogStatsLocked()
}

func (t *Tracker) publish(res CycleResult) {
	select {
	case t.results <- res:
	default:
		select {
		case <-t.results:
		default:
		}
		select {
		case t.results <- res:
		default:
		}
	}
}

// Stats returns a snapshot of the loop counters.
func (t *Tracker) Stats() Stats {
	cycles := t.cycles.Load()
	var avg time.Duration
	if cycles > 0 {
		avg = time.Duration(t.detectNanos.Load() / cycles)
	}
	var last time.Time
	if n := t.lastCycle.Load(); n != 0 {
		last = time.Unix(0, n)
	}
	return Stats{
		Cycles:      cycles,
		Detections:  t.detections.Load(),
		Errors:      t.errors.Load(),
		NotReady:    t.notReady.Load(),
		AvgDetect:   avg,
		LastCycleAt: last,
	}
}

func (t *Tracker) maybeLogStatsLocked() {
	if t.logger == nil {
		return
	}
	now := t.clock.Now()
	if !t.lastLog.IsZero() && now.Sub(t.lastLog) < trackerStatsLogPeriod {
		return
	}
	if t.lastLog.IsZero() {
		t.lastLog = now
		return
	}
	t.lastLog = now
	st := t.Stats()
	t.logger.Debug("tracker.stats",
		"cycles", st.Cycles,
		"detections", st.Detections,
		"errors", st.Errors,
		"not_ready", st.NotReady,
		"avg_detect", st.AvgDetect,
	)
}
