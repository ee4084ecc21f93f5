package presenter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/soocke/car-ar-go/domain/placement"
)

// rotateStep is the rotation applied per rotate gesture.
const rotateStep = math.Pi / 12

// Board is the placement surface driven by the presenter.
type Board interface {
	SetPlacing(bool)
	Placing() bool
	Tap(pt mgl64.Vec2, displayW, displayH float64) (placement.Object, bool)
	RemoveAt(pt mgl64.Vec2) (uuid.UUID, bool)
	Rotate(id uuid.UUID, delta float64) bool
	Objects() []placement.Object
	Clear() int
}

// PlacementView reflects the placement sub-mode and object count.
type PlacementView interface {
	SetPlacing(bool)
	SetObjectCount(int)
}

// PlacementPresenter maps pointer gestures on the preview to board operations.
// Coordinates are in preview (display) pixels.
type PlacementPresenter struct {
	board         Board
	view          PlacementView
	width, height float64
}

func NewPlacementPresenter(board Board, view PlacementView, width, height int) *PlacementPresenter {
	return &PlacementPresenter{board: board, view: view, width: float64(width), height: float64(height)}
}

// TogglePlacing switches the placement sub-mode.
func (p *PlacementPresenter) TogglePlacing() {
	if p == nil || p.board == nil || p.view == nil {
		return
	}
	on := !p.board.Placing()
	p.board.SetPlacing(on)
	p.view.SetPlacing(on)
}

// Tap places an object at (x, y).
func (p *PlacementPresenter) Tap(x, y int) {
	if p == nil || p.board == nil || p.view == nil {
		return
	}
	if _, ok := p.board.Tap(mgl64.Vec2{float64(x), float64(y)}, p.width, p.height); ok {
		p.view.SetObjectCount(len(p.board.Objects()))
	}
}

// RemoveAt deletes the topmost object under (x, y).
func (p *PlacementPresenter) RemoveAt(x, y int) {
	if p == nil || p.board == nil || p.view == nil {
		return
	}
	if _, ok := p.board.RemoveAt(mgl64.Vec2{float64(x), float64(y)}); ok {
		p.view.SetObjectCount(len(p.board.Objects()))
	}
}

// RotateAt turns the topmost object under (x, y) by steps increments.
func (p *PlacementPresenter) RotateAt(x, y, steps int) {
	if p == nil || p.board == nil {
		return
	}
	pt := mgl64.Vec2{float64(x), float64(y)}
	objs := p.board.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		if objs[i].Contains(pt) {
			p.board.Rotate(objs[i].ID, float64(steps)*rotateStep)
			return
		}
	}
}

// Clear removes all placed objects.
func (p *PlacementPresenter) Clear() {
	if p == nil || p.board == nil || p.view == nil {
		return
	}
	p.board.Clear()
	p.view.SetObjectCount(0)
}
