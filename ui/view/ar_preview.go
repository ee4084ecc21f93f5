package view

import (
	"image"

	"github.com/soocke/car-ar-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ARPreview shows the composed AR surface and the crop of the current
// detection. Pointer gestures on the surface are forwarded in surface pixels.
type ARPreview interface {
	UpdatePreview(img image.Image)
	UpdateCrop(img image.Image)
	Reset()
}

// PointerHandlers receive gestures on the preview surface.
type PointerHandlers struct {
	Tap    func(x, y int)
	Remove func(x, y int)
	Rotate func(x, y, steps int)
}

const (
	defaultSurfaceW  = 960
	defaultSurfaceH  = 540
	cropPlaceholderW = 160
	cropPlaceholderH = 120
)

type arPreview struct {
	surfaceLabel *LabelWidget
	cropLabel    *LabelWidget
	width        int
	height       int
	// last Tk photo per label, deleted before it is replaced
	surfacePhoto *Img
	cropPhoto    *Img
}

// NewARPreview creates the surface and crop labels at row and binds the
// pointer gestures. The surface is not rescaled so event coordinates equal
// surface coordinates.
func NewARPreview(row, width, height int, ptr PointerHandlers) ARPreview {
	if width <= 0 || height <= 0 {
		width, height = defaultSurfaceW, defaultSurfaceH
	}
	v := &arPreview{width: width, height: height}
	v.surfacePhoto = NewPhoto(Data(placeholder(width, height)))
	v.cropPhoto = NewPhoto(Data(placeholder(cropPlaceholderW, cropPlaceholderH)))
	v.surfaceLabel = Label(Image(v.surfacePhoto), Borderwidth(0))
	v.cropLabel = Label(Image(v.cropPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.surfaceLabel, Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.cropLabel, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))

	if ptr.Tap != nil {
		Bind(v.surfaceLabel, "<Button-1>", Command(func(e *Event) { ptr.Tap(eventPoint(e)) }))
	}
	if ptr.Remove != nil {
		Bind(v.surfaceLabel, "<Button-3>", Command(func(e *Event) { ptr.Remove(eventPoint(e)) }))
	}
	if ptr.Rotate != nil {
		Bind(v.surfaceLabel, "<Button-2>", Command(func(e *Event) {
			x, y := eventPoint(e)
			ptr.Rotate(x, y, 1)
		}))
		Bind(v.surfaceLabel, "<Shift-Button-1>", Command(func(e *Event) {
			x, y := eventPoint(e)
			ptr.Rotate(x, y, -1)
		}))
	}
	return v
}

// eventPoint returns the pointer position relative to the bound widget.
func eventPoint(e *Event) (int, int) {
	if e == nil {
		return -1, -1
	}
	return e.X, e.Y
}

func placeholder(w, h int) []byte {
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func (v *arPreview) UpdatePreview(img image.Image) {
	if v.surfaceLabel == nil || img == nil {
		return
	}
	// The renderer already draws at surface size; Stretch is a no-op then.
	pngBytes := images.EncodePNG(images.Stretch(img, v.width, v.height))
	if v.surfacePhoto != nil {
		v.surfacePhoto.Delete()
	}
	v.surfacePhoto = NewPhoto(Data(pngBytes))
	v.surfaceLabel.Configure(Image(v.surfacePhoto))
}

func (v *arPreview) UpdateCrop(img image.Image) {
	if v.cropLabel == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if v.cropPhoto != nil {
		v.cropPhoto.Delete()
	}
	v.cropPhoto = NewPhoto(Data(pngBytes))
	v.cropLabel.Configure(Image(v.cropPhoto))
}

func (v *arPreview) Reset() {
	if v.surfaceLabel != nil {
		if v.surfacePhoto != nil {
			v.surfacePhoto.Delete()
		}
		v.surfacePhoto = NewPhoto(Data(placeholder(v.width, v.height)))
		v.surfaceLabel.Configure(Image(v.surfacePhoto))
	}
	if v.cropLabel != nil {
		if v.cropPhoto != nil {
			v.cropPhoto.Delete()
		}
		v.cropPhoto = NewPhoto(Data(placeholder(cropPlaceholderW, cropPlaceholderH)))
		v.cropLabel.Configure(Image(v.cropPhoto))
	}
}
