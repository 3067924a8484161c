package boothfx

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"time"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestLoadAllKeepsOrder(t *testing.T) {
	c := NewStripComposer(DefaultStripOptions())
	delayed := func(d time.Duration, img image.Image) ImageLoader {
		return func(ctx context.Context) (image.Image, error) {
			select {
			case <-time.After(d):
				return img, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	a, b, cc := solid(1, 1, color.RGBA{R: 1, A: 255}), solid(1, 1, color.RGBA{R: 2, A: 255}), solid(1, 1, color.RGBA{R: 3, A: 255})
	imgs, failed, err := c.LoadAll(context.Background(), []ImageLoader{
		delayed(30*time.Millisecond, a),
		delayed(0, b),
		delayed(10*time.Millisecond, cc),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 0 {
		t.Errorf("failed = %v, want none", failed)
	}
	if imgs[0] != image.Image(a) || imgs[1] != image.Image(b) || imgs[2] != image.Image(cc) {
		t.Error("images returned out of loader order")
	}
}

func TestLoadAllFailureBecomesNil(t *testing.T) {
	c := NewStripComposer(DefaultStripOptions())
	bad := func(context.Context) (image.Image, error) { return nil, errors.New("corrupt") }
	imgs, failed, err := c.LoadAll(context.Background(), []ImageLoader{
		ImageValue(solid(2, 2, color.RGBA{A: 255})), bad, nil, DataURLLoader("not a url"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if imgs[0] == nil {
		t.Error("good image lost")
	}
	want := []int{1, 2, 3}
	if len(failed) != len(want) {
		t.Fatalf("failed = %v, want %v", failed, want)
	}
	for i := range want {
		if failed[i] != want[i] || imgs[want[i]] != nil {
			t.Errorf("index %d should be a nil placeholder", want[i])
		}
	}
}

func TestLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewStripComposer(DefaultStripOptions())
	if _, _, err := c.LoadAll(ctx, []ImageLoader{ImageValue(solid(1, 1, color.RGBA{}))}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestCellRects(t *testing.T) {
	o := Orientation{Name: "portrait", Width: 1080, Height: 1920}
	cells := CellRects(Grid{Rows: 4, Cols: 1}, o, 24)
	if len(cells) != 4 {
		t.Fatalf("cells = %d, want 4", len(cells))
	}
	wantH := (1920 - 24*5) / 4.0
	for i, c := range cells {
		if c.X != 24 || c.Width != 1080-48 {
			t.Errorf("cell %d x/width = %v/%v", i, c.X, c.Width)
		}
		if math.Abs(c.Height-wantH) > epsilon {
			t.Errorf("cell %d height = %v, want %v", i, c.Height, wantH)
		}
		wantY := 24 + float64(i)*(wantH+24)
		if math.Abs(c.Y-wantY) > epsilon {
			t.Errorf("cell %d y = %v, want %v", i, c.Y, wantY)
		}
	}
	last := cells[3]
	if math.Abs(last.Y+last.Height+24-1920) > epsilon {
		t.Error("last cell should end one padding above the bottom")
	}
	if CellRects(Grid{}, o, 0) != nil {
		t.Error("empty grid should have no cells")
	}
}

func TestComposeStrip(t *testing.T) {
	opts := DefaultStripOptions()
	opts.Padding = 10
	opts.CornerRadius = 0
	c := NewStripComposer(opts)
	layout, _ := LookupLayout("duo")
	o := Orientation{Name: "landscape", Width: 200, Height: 100}

	red := solid(50, 50, color.RGBA{R: 255, A: 255})
	s, err := c.Compose(context.Background(), layout, o, []ImageLoader{ImageValue(red)})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Width() != 200 || s.Height() != 100 {
		t.Errorf("strip size = %dx%d", s.Width(), s.Height())
	}
	if len(s.Failed) != 1 || s.Failed[0] != 1 {
		t.Errorf("Failed = %v, want [1]", s.Failed)
	}

	img := s.Image()
	// Cells on a 1x2 grid span x 10..95 and 105..190.
	if r, g, _, _ := img.At(50, 50).RGBA(); r>>8 < 200 || g>>8 > 60 {
		t.Errorf("first cell pixel = %v, want red", img.At(50, 50))
	}
	ph := opts.Placeholder
	if r, _, _, _ := img.At(150, 50).RGBA(); math.Abs(float64(r>>8)-ph.R*255) > 4 {
		t.Errorf("second cell pixel = %v, want placeholder", img.At(150, 50))
	}
	if r, g, b, _ := img.At(2, 2).RGBA(); r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Errorf("padding pixel = %v, want white background", img.At(2, 2))
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("encoded strip does not decode: %v", err)
	}
}

func TestComposeRejectsOrientation(t *testing.T) {
	layout, _ := LookupLayout("strip")
	sq, _ := LookupOrientation("square")
	if _, err := NewStripComposer(DefaultStripOptions()).Compose(context.Background(), layout, sq, nil); err == nil {
		t.Error("strip layout should reject square")
	}
}

func TestParseDataURL(t *testing.T) {
	mt, data, err := ParseDataURL("data:text/plain;base64,aGk=")
	if err != nil || mt != "text/plain" || string(data) != "hi" {
		t.Errorf("ParseDataURL = %q, %q, %v", mt, data, err)
	}
	for _, bad := range []string{"http://x", "data:text/plain", "data:text/plain,hi", "data:;base64,!!"} {
		if _, _, err := ParseDataURL(bad); err == nil {
			t.Errorf("ParseDataURL(%q) should fail", bad)
		}
	}
}
