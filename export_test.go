package boothfx

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"shot-1.v2", "shot-1.v2"},
		{"my shot", "my_shot"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"café", "caf_"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveImagePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path, err := SaveImagePNG(dir, "my shot", solid(4, 3, color.RGBA{G: 255, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, "_my_shot.png") {
		t.Errorf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v", b)
	}
}

func TestSaveStill(t *testing.T) {
	dir := t.TempDir()
	_, still := captureGradient(t, true)

	path, err := SaveStill(dir, "still", still)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, still.JPEG) || filepath.Ext(path) != ".jpg" {
		t.Errorf("wrote %d bytes to %s", len(data), path)
	}

	// A still carrying only its data URL writes the decoded payload.
	urlOnly := Still{DataURL: still.DataURL}
	path, err = SaveStill(dir, "url", urlOnly)
	if err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); !bytes.Equal(data, still.JPEG) {
		t.Error("data URL payload differs from JPEG bytes")
	}

	if _, err := SaveStill(dir, "bad", Still{DataURL: "nope"}); err == nil {
		t.Error("invalid data URL should fail")
	}
}

func TestSaveStrip(t *testing.T) {
	layout, _ := LookupLayout("single")
	sq, _ := LookupOrientation("square")
	sq.Width, sq.Height = 40, 40
	opts := DefaultStripOptions()
	opts.Padding = 4
	s, err := NewStripComposer(opts).Compose(context.Background(), layout, sq, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	path := filepath.Join(t.TempDir(), "strip.png")
	if err := SaveStrip(path, s); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("strip file missing or empty: %v", err)
	}
	if err := SaveStrip(filepath.Join(t.TempDir(), "missing", "strip.png"), s); err == nil {
		t.Error("unwritable path should fail")
	}
}
