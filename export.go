package boothfx

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot to be captured at the end of the
// current frame's Draw call. The resulting PNG is written to ScreenshotDir
// with a timestamped filename. Safe to call from Update or Draw.
func (b *Backdrop) Screenshot(label string) {
	b.screenshotQueue = append(b.screenshotQueue, label)
}

// flushScreenshots captures the rendered frame for every queued label and
// writes each as a PNG file. Called at the end of Backdrop.Draw.
func (b *Backdrop) flushScreenshots(screen *ebiten.Image) {
	if len(b.screenshotQueue) == 0 {
		return
	}
	defer func() { b.screenshotQueue = b.screenshotQueue[:0] }()

	img := screenNRGBA(screen)
	for _, label := range b.screenshotQueue {
		path, err := SaveImagePNG(b.ScreenshotDir, label, img)
		if err != nil {
			Logger().Warn("screenshot failed", "label", label, "error", err)
			continue
		}
		Logger().Info("screenshot saved", "path", path)
	}
}

// screenNRGBA reads back a rendered image as straight-alpha NRGBA.
func screenNRGBA(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	unpremultiply(img.Pix, pixels)
	return img
}

// unpremultiply converts premultiplied RGBA bytes in src to straight alpha
// in dst.
func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		dst[i] = r
		dst[i+1] = g
		dst[i+2] = b
		dst[i+3] = a
	}
}

func exportPath(dir, label, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stamp, sanitizeLabel(label), ext)), nil
}

// SaveImagePNG writes img to dir under a timestamped, sanitized name and
// returns the path.
func SaveImagePNG(dir, label string, img image.Image) (string, error) {
	path, err := exportPath(dir, label, ".png")
	if err != nil {
		return "", err
	}
	return path, writePNG(path, img)
}

// SaveStill writes the JPEG bytes of a still to dir and returns the path.
func SaveStill(dir, label string, s Still) (string, error) {
	data := s.JPEG
	if len(data) == 0 {
		_, d, err := ParseDataURL(s.DataURL)
		if err != nil {
			return "", fmt.Errorf("save still: %w", err)
		}
		data = d
	}
	path, err := exportPath(dir, label, ".jpg")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// SaveStrip writes a composite as PNG to an explicit path.
func SaveStrip(path string, s *Strip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
