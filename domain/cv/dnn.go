package cv

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/soocke/car-ar-go/domain/detect"
	"github.com/soocke/car-ar-go/domain/tracking"
)

// DNNOptions configures an SSD detector loaded through OpenCV's dnn module.
type DNNOptions struct {
	ModelPath  string
	ConfigPath string
	InputSize  int
	Scale      float64
	Mean       float64
	SwapRB     bool
	// ScoreFloor drops raw rows before they are narrowed into detections.
	ScoreFloor float32
}

// DefaultDNNOptions matches MobileNet SSD v2 trained on COCO.
func DefaultDNNOptions() DNNOptions {
	return DNNOptions{
		InputSize:  300,
		Scale:      1.0 / 127.5,
		Mean:       127.5,
		SwapRB:     true,
		ScoreFloor: 0.05,
	}
}

// DNNDetector implements tracking.Detector. Calls are serialised because a
// gocv.Net must not be used from several goroutines at once.
type DNNDetector struct {
	mu      sync.Mutex
	net     gocv.Net
	opts    DNNOptions
	decoder detect.Decoder
}

// NewDNNDetector reads the model. Failures wrap detect.ErrModelLoad.
func NewDNNDetector(opts DNNOptions) (*DNNDetector, error) {
	def := DefaultDNNOptions()
	if opts.InputSize <= 0 {
		opts.InputSize = def.InputSize
	}
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %w", detect.ErrModelLoad, err)
	}
	net := gocv.ReadNet(opts.ModelPath, opts.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: could not read %s", detect.ErrModelLoad, opts.ModelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: backend: %w", detect.ErrModelLoad, err)
	}
	return &DNNDetector{net: net, opts: opts, decoder: detect.NewDecoder(opts.ScoreFloor)}, nil
}

func (d *DNNDetector) Detect(ctx context.Context, img image.Image) ([]tracking.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("detect: convert frame: %w", err)
	}
	defer mat.Close()

	size := image.Pt(d.opts.InputSize, d.opts.InputSize)
	m := d.opts.Mean
	blob := gocv.BlobFromImage(mat, d.opts.Scale, size, gocv.NewScalar(m, m, m, 0), d.opts.SwapRB, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	rows, err := readRows(&out)
	if err != nil {
		return nil, err
	}
	return d.decoder.Decode(rows, b.Dx(), b.Dy()), nil
}

// readRows copies the [1,1,N,7] SSD output blob out of the network's memory.
func readRows(out *gocv.Mat) ([]detect.Row, error) {
	flat, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("detect: read output: %w", err)
	}
	return detect.SplitRows(flat)
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
