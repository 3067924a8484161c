package boothfx

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strings"

	// Register decoders for image.Decode.
	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/gg"
	"golang.org/x/sync/errgroup"
)

// ImageLoader produces one shot for composition.
type ImageLoader func(ctx context.Context) (image.Image, error)

// ParseDataURL returns the media type and payload of a base64 data URL.
func ParseDataURL(s string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New("data url: missing data: prefix")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data url: missing comma")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data url: %q is not base64", meta)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data url: %w", err)
	}
	return mediaType, data, nil
}

func decodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// DataURLLoader decodes a base64 data URL.
func DataURLLoader(url string) ImageLoader {
	return func(context.Context) (image.Image, error) {
		_, data, err := ParseDataURL(url)
		if err != nil {
			return nil, err
		}
		return decodeBytes(data)
	}
}

// StillLoader decodes a captured still.
func StillLoader(s Still) ImageLoader {
	if len(s.JPEG) == 0 {
		return DataURLLoader(s.DataURL)
	}
	return func(context.Context) (image.Image, error) {
		return decodeBytes(s.JPEG)
	}
}

// FileLoader decodes an image file.
func FileLoader(path string) ImageLoader {
	return func(context.Context) (image.Image, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return img, nil
	}
}

// ImageValue wraps an already decoded image.
func ImageValue(img image.Image) ImageLoader {
	return func(context.Context) (image.Image, error) { return img, nil }
}

// StripOptions controls composite styling.
type StripOptions struct {
	Padding      float64 `yaml:"padding"`
	CornerRadius float64 `yaml:"corner_radius"`
	Background   Color   `yaml:"background"`
	Placeholder  Color   `yaml:"placeholder"`
	// Concurrency bounds parallel image loads; 0 means unbounded.
	Concurrency int `yaml:"concurrency"`
}

// DefaultStripOptions returns the stock styling.
func DefaultStripOptions() StripOptions {
	return StripOptions{
		Padding:      24,
		CornerRadius: 12,
		Background:   Color{R: 1, G: 1, B: 1, A: 1},
		Placeholder:  Color{R: 0.86, G: 0.87, B: 0.9, A: 1},
		Concurrency:  4,
	}
}

// StripComposer arranges shots into a layout's grid.
type StripComposer struct {
	opts StripOptions
}

// NewStripComposer creates a composer.
func NewStripComposer(opts StripOptions) *StripComposer {
	return &StripComposer{opts: opts}
}

// LoadAll runs every loader concurrently and returns the images in loader
// order regardless of completion order. A failed load leaves a nil entry and
// its index in failed; only ctx cancellation aborts the whole load.
func (c *StripComposer) LoadAll(ctx context.Context, loaders []ImageLoader) (imgs []image.Image, failed []int, err error) {
	imgs = make([]image.Image, len(loaders))
	errs := make([]error, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	if c.opts.Concurrency > 0 {
		g.SetLimit(c.opts.Concurrency)
	}
	for i, load := range loaders {
		if load == nil {
			errs[i] = errors.New("no loader")
			continue
		}
		g.Go(func() error {
			img, err := load(gctx)
			if err == nil && img == nil {
				err = errors.New("loader returned no image")
			}
			imgs[i], errs[i] = img, err
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	for i, e := range errs {
		if e != nil {
			imgs[i] = nil
			failed = append(failed, i)
			Logger().Warn("strip shot replaced with placeholder", "index", i, "error", e)
		}
	}
	return imgs, failed, nil
}

// Strip is a finished composite.
type Strip struct {
	Layout      string
	Orientation string
	// Failed lists the shot indices drawn as placeholders.
	Failed []int

	dc *gg.Context
}

// Image returns the composite.
func (s *Strip) Image() image.Image { return s.dc.Image() }

// Width returns the composite width.
func (s *Strip) Width() int { return s.dc.Width() }

// Height returns the composite height.
func (s *Strip) Height() int { return s.dc.Height() }

// EncodePNG writes the composite as PNG.
func (s *Strip) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// EncodeJPEG writes the composite as JPEG.
func (s *Strip) EncodeJPEG(w io.Writer, quality int) error { return s.dc.EncodeJPEG(w, quality) }

// Close releases the drawing context.
func (s *Strip) Close() error { return s.dc.Close() }

// CellRects returns the cell rectangles of a grid laid out on an orientation
// canvas, row-major.
func CellRects(g Grid, o Orientation, padding float64) []Rect {
	if g.Rows <= 0 || g.Cols <= 0 {
		return nil
	}
	W, H := float64(o.Width), float64(o.Height)
	cw := (W - padding*float64(g.Cols+1)) / float64(g.Cols)
	ch := (H - padding*float64(g.Rows+1)) / float64(g.Rows)
	out := make([]Rect, 0, g.Cells())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			out = append(out, Rect{
				X:      padding + float64(c)*(cw+padding),
				Y:      padding + float64(r)*(ch+padding),
				Width:  cw,
				Height: ch,
			})
		}
	}
	return out
}

// Compose loads every shot and draws it cover-cropped into its cell. Shots
// beyond the grid are ignored; missing or failed shots become placeholders.
func (c *StripComposer) Compose(ctx context.Context, layout *Layout, o Orientation, loaders []ImageLoader) (*Strip, error) {
	if !layout.Allows(o.Name) {
		return nil, fmt.Errorf("compose: layout %q does not support orientation %q", layout.Name, o.Name)
	}
	cells := CellRects(layout.GridFor(o.Name), o, c.opts.Padding)
	if len(loaders) > len(cells) {
		loaders = loaders[:len(cells)]
	}
	imgs, failed, err := c.LoadAll(ctx, loaders)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	for i := len(imgs); i < len(cells); i++ {
		failed = append(failed, i)
	}

	dc := gg.NewContext(o.Width, o.Height)
	bg := c.opts.Background
	dc.SetRGBA(bg.R, bg.G, bg.B, bg.A)
	dc.DrawRectangle(0, 0, float64(o.Width), float64(o.Height))
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("compose: background: %w", err)
	}

	for i, cell := range cells {
		var img image.Image
		if i < len(imgs) {
			img = imgs[i]
		}
		if img == nil {
			ph := c.opts.Placeholder
			dc.SetRGBA(ph.R, ph.G, ph.B, ph.A)
			dc.DrawRoundedRectangle(cell.X, cell.Y, cell.Width, cell.Height, c.opts.CornerRadius)
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("compose: placeholder %d: %w", i, err)
			}
			continue
		}
		drawCover(dc, img, cell)
	}
	return &Strip{Layout: layout.Name, Orientation: o.Name, Failed: failed, dc: dc}, nil
}

// drawCover draws img into cell with cover semantics.
func drawCover(dc *gg.Context, img image.Image, cell Rect) {
	b := img.Bounds()
	crop, ok := ComputeCrop(Size{W: float64(b.Dx()), H: float64(b.Dy())}, cell.Width/cell.Height)
	if !ok {
		return
	}
	// ImageBuf is zero-based regardless of img's bounds.
	src := image.Rect(
		int(math.Round(crop.X)), int(math.Round(crop.Y)),
		int(math.Round(crop.X+crop.Width)), int(math.Round(crop.Y+crop.Height)),
	)
	dc.ClipRect(cell.X, cell.Y, cell.Width, cell.Height)
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         cell.X,
		Y:         cell.Y,
		DstWidth:  cell.Width,
		DstHeight: cell.Height,
		SrcRect:   &src,
		Opacity:   1,
	})
	dc.ResetClip()
}
