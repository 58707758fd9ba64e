// Package video reads frames from cameras and video files and turns them
// into grayscale surfaces sized for asciification.
package video

import (
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/wbrown/asciify"
	"gocv.io/x/gocv"
)

// Capture is an open frame source.
type Capture struct {
	source  string
	vc      *gocv.VideoCapture
	frame   gocv.Mat
	gray    gocv.Mat
	resized gocv.Mat
	pix     []uint8
	frames  int
}

// Open opens source. A number selects a camera device, anything else is
// passed to OpenCV as a file name or stream URL.
func Open(source string) (*Capture, error) {
	var device interface{} = source
	if id, err := strconv.Atoi(source); err == nil {
		device = id
	}
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %s: %w", source, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("could not open video source %s", source)
	}
	asciify.Logger().Debug("video source opened", "source", source,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight))
	return &Capture{
		source:  source,
		vc:      vc,
		frame:   gocv.NewMat(),
		gray:    gocv.NewMat(),
		resized: gocv.NewMat(),
	}, nil
}

// FrameSize returns the native frame size reported by the source, or zero
// values when it is unknown.
func (c *Capture) FrameSize() (width, height int) {
	return int(c.vc.Get(gocv.VideoCaptureFrameWidth)), int(c.vc.Get(gocv.VideoCaptureFrameHeight))
}

// Next reads the next frame, converts it to grayscale and resizes it to
// width x height. The returned surface is only valid until the following
// call. At the end of the stream Next returns io.EOF.
func (c *Capture) Next(width, height int) (asciify.Surface, error) {
	if ok := c.vc.Read(&c.frame); !ok || c.frame.Empty() {
		asciify.Logger().Debug("video source exhausted", "source", c.source, "frames", c.frames)
		return asciify.Surface{}, io.EOF
	}
	c.frames++

	switch c.frame.Channels() {
	case 1:
		c.frame.CopyTo(&c.gray)
	case 4:
		gocv.CvtColor(c.frame, &c.gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(c.frame, &c.gray, gocv.ColorBGRToGray)
	}
	gocv.Resize(c.gray, &c.resized, image.Pt(width, height), 0, 0, gocv.InterpolationArea)

	data, err := c.resized.DataPtrUint8()
	if err != nil {
		return asciify.Surface{}, fmt.Errorf("failed to read frame %d: %w", c.frames, err)
	}
	step := c.resized.Step()
	if cap(c.pix) < step*height {
		c.pix = make([]uint8, step*height)
	}
	c.pix = c.pix[:step*height]
	copy(c.pix, data)
	return asciify.NewSurface(width, height, c.pix, step), nil
}

// Frames returns the number of frames read so far.
func (c *Capture) Frames() int {
	return c.frames
}

// Close releases the source and its frame buffers.
func (c *Capture) Close() error {
	c.frame.Close()
	c.gray.Close()
	c.resized.Close()
	if err := c.vc.Close(); err != nil {
		asciify.Logger().Warn("failed to close video source", "source", c.source, "error", err)
		return fmt.Errorf("failed to close video source %s: %w", c.source, err)
	}
	return nil
}
