package boothfx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// DefaultJPEGQuality is the still encoding quality.
const DefaultJPEGQuality = 92

// DefaultReduction scales the orientation's export width down to the
// captured still's width.
const DefaultReduction = 0.5

// CropRegion is the source rectangle, in native frame pixels, that fills a
// target box with cover semantics.
type CropRegion struct {
	X, Y, Width, Height float64
}

// Aspect returns Width/Height.
func (c CropRegion) Aspect() float64 {
	if c.Height == 0 {
		return 0
	}
	return c.Width / c.Height
}

// ComputeCrop returns the centered region of a native frame whose aspect
// ratio equals targetAspect. The overflowing axis is cropped symmetrically;
// the other axis is kept whole. Reports false when the native size is not
// known yet or targetAspect is not positive.
func ComputeCrop(native Size, targetAspect float64) (CropRegion, bool) {
	if !native.Known() || targetAspect <= 0 {
		return CropRegion{}, false
	}
	videoAspect := native.W / native.H
	if videoAspect > targetAspect {
		w := native.H * targetAspect
		return CropRegion{X: (native.W - w) / 2, Y: 0, Width: w, Height: native.H}, true
	}
	h := native.W / targetAspect
	return CropRegion{X: 0, Y: (native.H - h) / 2, Width: native.W, Height: h}, true
}

// OutputSize returns the still size for an orientation: its export width
// scaled by reduction, and the height that gives targetAspect. A
// non-positive targetAspect uses the orientation's own aspect; a
// non-positive reduction means 1.
func OutputSize(o Orientation, targetAspect, reduction float64) Size {
	if reduction <= 0 {
		reduction = 1
	}
	if targetAspect <= 0 {
		targetAspect = o.Aspect()
	}
	w := math.Round(float64(o.Width) * reduction)
	if targetAspect <= 0 {
		return Size{W: w}
	}
	return Size{W: w, H: math.Round(w / targetAspect)}
}

// Still is an encoded capture.
type Still struct {
	DataURL string
	Width   int
	Height  int
	// JPEG holds the encoded bytes behind DataURL.
	JPEG []byte
}

// Compositor turns a live frame into a mirrored, cropped JPEG still. It only
// reads from its source and writes to its own raster.
type Compositor struct {
	quality int
	mirror  bool
	raster  *image.RGBA
	buf     bytes.Buffer
}

// NewCompositor creates a compositor. A quality outside 1..100 selects
// DefaultJPEGQuality.
func NewCompositor(quality int) *Compositor {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Compositor{quality: quality, mirror: true}
}

// SetMirror turns selfie mirroring on or off. On by default.
func (c *Compositor) SetMirror(on bool) { c.mirror = on }

// Raster returns the offscreen raster holding the last still, or nil.
func (c *Compositor) Raster() *image.RGBA { return c.raster }

// Capture crops src to targetAspect and renders it at out. Returns
// ErrNoSession for a nil source and ErrNoFrame while the source's native size
// is unknown.
func (c *Compositor) Capture(src FrameSource, targetAspect float64, out Size) (Still, error) {
	if s, ok := src.(*CaptureSession); src == nil || (ok && s == nil) {
		return Still{}, ErrNoSession
	}
	crop, ok := ComputeCrop(src.NativeSize(), targetAspect)
	if !ok {
		return Still{}, ErrNoFrame
	}
	return c.CaptureStill(src, crop, out)
}

// CaptureStill scales crop of the current frame into an out-sized raster,
// mirrored horizontally when mirroring is on, and encodes it as JPEG.
func (c *Compositor) CaptureStill(src FrameSource, crop CropRegion, out Size) (Still, error) {
	frame, ok := src.Frame()
	if !ok || frame == nil {
		return Still{}, ErrNoFrame
	}
	w, h := int(math.Round(out.W)), int(math.Round(out.H))
	if w <= 0 || h <= 0 {
		return Still{}, fmt.Errorf("capture still: invalid output size %vx%v", out.W, out.H)
	}
	if crop.Width <= 0 || crop.Height <= 0 {
		return Still{}, fmt.Errorf("capture still: empty crop region")
	}

	if c.raster == nil || c.raster.Bounds().Dx() != w || c.raster.Bounds().Dy() != h {
		c.raster = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	dst := c.raster
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	b := frame.Bounds()
	sx := float64(w) / crop.Width
	sy := float64(h) / crop.Height
	ox := float64(b.Min.X) + crop.X
	oy := float64(b.Min.Y) + crop.Y
	// s2d maps source pixels to raster pixels.
	s2d := f64.Aff3{
		sx, 0, -ox * sx,
		0, sy, -oy * sy,
	}
	if c.mirror {
		s2d[0] = -sx
		s2d[2] = float64(w) + ox*sx
	}
	sr := image.Rect(
		int(math.Floor(ox)), int(math.Floor(oy)),
		int(math.Ceil(ox+crop.Width)), int(math.Ceil(oy+crop.Height)),
	).Intersect(b)
	draw.BiLinear.Transform(dst, s2d, frame, sr, draw.Src, nil)

	c.buf.Reset()
	if err := jpeg.Encode(&c.buf, dst, &jpeg.Options{Quality: c.quality}); err != nil {
		return Still{}, fmt.Errorf("capture still: encode: %w", err)
	}
	data := bytes.Clone(c.buf.Bytes())
	return Still{
		DataURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		Width:   w,
		Height:  h,
		JPEG:    data,
	}, nil
}
