package cv

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	"github.com/soocke/car-ar-go/domain/capture"
)

// CameraGrabber reads frames from an OpenCV video device. It implements
// capture.Grabber.
type CameraGrabber struct {
	FrontDevice int
	BackDevice  int

	deviceID int
	webcam   *gocv.VideoCapture
	mat      gocv.Mat
}

// NewCameraGrabber maps facings to device ids.
func NewCameraGrabber(front, back int) *CameraGrabber {
	return &CameraGrabber{FrontDevice: front, BackDevice: back}
}

// DeviceFor returns the device id opened for facing.
func (c *CameraGrabber) DeviceFor(f capture.Facing) int {
	if f == capture.FacingFront {
		return c.FrontDevice
	}
	return c.BackDevice
}

func (c *CameraGrabber) Open(f capture.Facing) error {
	if c.webcam != nil {
		return errors.New("camera already open")
	}
	id := c.DeviceFor(f)
	webcam, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return fmt.Errorf("open device %d: %w", id, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return fmt.Errorf("device %d did not open", id)
	}
	c.deviceID = id
	c.webcam = webcam
	c.mat = gocv.NewMat()
	return nil
}

func (c *CameraGrabber) Grab() (*image.RGBA, error) {
	if c.webcam == nil {
		return nil, capture.ErrNotReady
	}
	if ok := c.webcam.Read(&c.mat); !ok {
		return nil, fmt.Errorf("cannot read webcam device: %d", c.deviceID)
	}
	if c.mat.Empty() {
		return nil, capture.ErrNotReady
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return toRGBA(img), nil
}

func (c *CameraGrabber) Close() error {
	if c.webcam == nil {
		return nil
	}
	c.mat.Close()
	err := c.webcam.Close()
	c.webcam = nil
	return err
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
