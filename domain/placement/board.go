package placement

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the fixed set of colors new objects are drawn from.
var DefaultPalette = []string{"#e63946", "#f4a261", "#2a9d8f", "#457b9d", "#8e44ad"}

const (
	DefaultFloorFraction = 0.5
	DefaultObjectSize    = 48.0
)

// Object is a user-placed overlay instance in display coordinates.
type Object struct {
	ID        uuid.UUID
	Position  mgl64.Vec2
	Rotation  float64 // radians
	Color     colorful.Color
	Size      float64
	CreatedAt time.Time
}

// Corners returns the rotated square outline, clockwise from top-left.
func (o Object) Corners() [4]mgl64.Vec2 {
	h := o.Size / 2
	rot := mgl64.Rotate2D(o.Rotation)
	local := [4]mgl64.Vec2{{-h, -h}, {h, -h}, {h, h}, {-h, h}}
	var out [4]mgl64.Vec2
	for i, p := range local {
		out[i] = o.Position.Add(rot.Mul2x1(p))
	}
	return out
}

// Contains reports whether pt lies inside the rotated outline.
func (o Object) Contains(pt mgl64.Vec2) bool {
	local := mgl64.Rotate2D(-o.Rotation).Mul2x1(pt.Sub(o.Position))
	h := o.Size / 2
	return local.X() >= -h && local.X() <= h && local.Y() >= -h && local.Y() <= h
}

// Options configures a Board.
type Options struct {
	FloorFraction float64
	Palette       []string
	ObjectSize    float64
}

// Board holds placed objects and the placement sub-mode flag.
type Board struct {
	mu      sync.Mutex
	placing bool
	objects []Object
	palette []colorful.Color
	floor   float64
	size    float64
	rng     *rand.Rand
	clock   clock.Clock
	logger  *slog.Logger
}

// NewBoard parses the palette and applies defaults. A nil rng is seeded from
// the clock; a nil clk uses the wall clock.
func NewBoard(opts Options, rng *rand.Rand, clk clock.Clock, logger *slog.Logger) (*Board, error) {
	if clk == nil {
		clk = clock.New()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clk.Now().UnixNano()))
	}
	hexes := opts.Palette
	if len(hexes) == 0 {
		hexes = DefaultPalette
	}
	palette := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette color %q: %w", h, err)
		}
		palette = append(palette, c)
	}
	floor := opts.FloorFraction
	if floor < 0 || floor > 1 {
		floor = DefaultFloorFraction
	}
	size := opts.ObjectSize
	if size <= 0 {
		size = DefaultObjectSize
	}
	return &Board{palette: palette, floor: floor, size: size, rng: rng, clock: clk, logger: logger}, nil
}

func (b *Board) SetPlacing(on bool) {
	b.mu.Lock()
	b.placing = on
	b.mu.Unlock()
}

func (b *Board) Placing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.placing
}

// Tap creates an object at pt when placing and pt is on or below the floor
// line of a displayW x displayH surface.
func (b *Board) Tap(pt mgl64.Vec2, displayW, displayH float64) (Object, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.placing || displayW <= 0 || displayH <= 0 {
		return Object{}, false
	}
	if pt.X() < 0 || pt.X() > displayW || pt.Y() > displayH {
		return Object{}, false
	}
	if pt.Y() < b.floor*displayH {
		return Object{}, false
	}
	o := Object{
		ID:        uuid.New(),
		Position:  pt,
		Color:     b.palette[b.rng.Intn(len(b.palette))],
		Size:      b.size,
		CreatedAt: b.clock.Now(),
	}
	b.objects = append(b.objects, o)
	if b.logger != nil {
		b.logger.Debug("object placed", "id", o.ID.String(), "x", pt.X(), "y", pt.Y(), "color", o.Color.Hex())
	}
	return o, true
}

func (b *Board) Remove(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.objects {
		if o.ID == id {
			b.objects = append(b.objects[:i], b.objects[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAt removes the most recently placed object under pt.
func (b *Board) RemoveAt(pt mgl64.Vec2) (uuid.UUID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.objects) - 1; i >= 0; i-- {
		if b.objects[i].Contains(pt) {
			id := b.objects[i].ID
			b.objects = append(b.objects[:i], b.objects[i+1:]...)
			return id, true
		}
	}
	return uuid.Nil, false
}

// Rotate adds delta radians to the object's rotation.
func (b *Board) Rotate(id uuid.UUID, delta float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.objects {
		if b.objects[i].ID == id {
			b.objects[i].Rotation += delta
			return true
		}
	}
	return false
}

// Clear removes every object and returns how many were removed.
func (b *Board) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.objects)
	b.objects = nil
	return n
}

// Objects returns a copy in creation order.
func (b *Board) Objects() []Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Object(nil), b.objects...)
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
