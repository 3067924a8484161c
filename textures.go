package boothfx

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// Procedural layer artwork. Everything is drawn white so the layer tint and
// opacity decide the final color.

// blobLobes is the number of control points around a blob outline.
const blobLobes = 7

// BlobImage draws a soft amorphous shape of the given pixel size. seed picks
// the outline; equal seeds give identical images.
func BlobImage(size int, seed float64) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	s := float64(size)
	cx, cy := s/2, s/2
	base := s * 0.36

	var px, py [blobLobes]float64
	for i := 0; i < blobLobes; i++ {
		a := 2 * math.Pi * float64(i) / blobLobes
		r := base * (1 + 0.18*math.Sin(seed*3.1+float64(i)*2.3) + 0.08*math.Cos(seed*1.7+float64(i)*4.1))
		px[i] = cx + r*math.Cos(a)
		py[i] = cy + r*math.Sin(a)
	}
	// Closed Catmull-Rom through the control points, as cubic segments.
	dc.MoveTo(px[0], py[0])
	for i := 0; i < blobLobes; i++ {
		p0, p1 := (i+blobLobes-1)%blobLobes, i
		p2, p3 := (i+1)%blobLobes, (i+2)%blobLobes
		c1x := px[p1] + (px[p2]-px[p0])/6
		c1y := py[p1] + (py[p2]-py[p0])/6
		c2x := px[p2] - (px[p3]-px[p1])/6
		c2y := py[p2] - (py[p3]-py[p1])/6
		dc.CubicTo(c1x, c1y, c2x, c2y, px[p2], py[p2])
	}
	dc.ClosePath()

	brush := gg.NewRadialGradientBrush(cx, cy, 0, base*1.3).
		AddColorStop(0, gg.RGBA2(1, 1, 1, 1)).
		AddColorStop(0.7, gg.RGBA2(1, 1, 1, 0.75)).
		AddColorStop(1, gg.RGBA2(1, 1, 1, 0))
	dc.SetFillBrush(brush)
	_ = dc.Fill()
	return dc.Image()
}

// GridImage draws a square ornament of dots, or of small crosses when cross
// is true, on a cells × cells lattice.
func GridImage(size, cells int, cross bool) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()
	if cells < 1 {
		cells = 1
	}
	step := float64(size) / float64(cells)
	dc.SetRGBA(1, 1, 1, 1)
	for r := 0; r < cells; r++ {
		for c := 0; c < cells; c++ {
			x := (float64(c) + 0.5) * step
			y := (float64(r) + 0.5) * step
			if cross {
				arm := step * 0.22
				dc.SetLineWidth(math.Max(1, step*0.08))
				dc.DrawLine(x-arm, y, x+arm, y)
				dc.DrawLine(x, y-arm, x, y+arm)
				continue
			}
			dc.DrawCircle(x, y, math.Max(1, step*0.12))
		}
	}
	if cross {
		_ = dc.Stroke()
	} else {
		_ = dc.Fill()
	}
	return dc.Image()
}

// DefaultArtwork returns procedural images for every built-in layer source.
func DefaultArtwork(size int) map[string]image.Image {
	return map[string]image.Image{
		"blob-a":     BlobImage(size, 0.3),
		"blob-b":     BlobImage(size, 1.9),
		"blob-c":     BlobImage(size, 4.2),
		"grid-dots":  GridImage(size/2, 6, false),
		"grid-cross": GridImage(size/2, 5, true),
	}
}
