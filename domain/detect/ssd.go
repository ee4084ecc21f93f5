package detect

import (
	"errors"
	"fmt"
	"math"

	"github.com/soocke/car-ar-go/domain/tracking"
)

// ErrModelLoad reports that the detector model could not be loaded.
var ErrModelLoad = errors.New("detector model load failed")

// RowSize is the number of values per SSD output row:
// image id, class id, score, left, top, right, bottom.
const RowSize = 7

// Row is one raw SSD detection with box edges normalised to [0,1].
type Row [RowSize]float32

// SplitRows cuts a flat SSD output blob into rows.
func SplitRows(flat []float32) ([]Row, error) {
	if len(flat)%RowSize != 0 {
		return nil, fmt.Errorf("ssd output: %d values is not a multiple of %d", len(flat), RowSize)
	}
	rows := make([]Row, len(flat)/RowSize)
	for i := range rows {
		copy(rows[i][:], flat[i*RowSize:(i+1)*RowSize])
	}
	return rows, nil
}

// Decoder narrows raw SSD rows into detections in frame pixels.
type Decoder struct {
	Labels Labels
	// Floor drops rows below this score before they reach the tracker.
	Floor float32
}

// NewDecoder returns a decoder over the embedded COCO labels.
func NewDecoder(floor float32) Decoder {
	return Decoder{Labels: COCO(), Floor: floor}
}

// Decode keeps the model's native row order. Rows with unknown classes,
// out-of-range scores or degenerate boxes are skipped.
func (d Decoder) Decode(rows []Row, frameW, frameH int) []tracking.Detection {
	if frameW <= 0 || frameH <= 0 {
		return nil
	}
	out := make([]tracking.Detection, 0, len(rows))
	for _, r := range rows {
		if det, ok := d.decodeRow(r, float64(frameW), float64(frameH)); ok {
			out = append(out, det)
		}
	}
	return out
}

func (d Decoder) decodeRow(r Row, fw, fh float64) (tracking.Detection, bool) {
	score := r[2]
	if score < d.Floor || math.IsNaN(float64(score)) {
		return tracking.Detection{}, false
	}
	name, ok := d.Labels.Name(int(r[1]))
	if !ok {
		return tracking.Detection{}, false
	}
	left := unit(r[3]) * fw
	top := unit(r[4]) * fh
	right := unit(r[5]) * fw
	bottom := unit(r[6]) * fh
	box := tracking.Rect{X: left, Y: top, W: right - left, H: bottom - top}
	det, err := tracking.NewDetection(name, float64(score), box)
	if err != nil {
		return tracking.Detection{}, false
	}
	return det, true
}

func unit(v float32) float64 {
	f := float64(v)
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
