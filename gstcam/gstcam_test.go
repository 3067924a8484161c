package gstcam

import (
	"testing"

	"github.com/phanxgames/boothfx"
)

func TestCapsFor(t *testing.T) {
	tests := []struct {
		name   string
		preset boothfx.ConstraintPreset
		want   string
	}{
		{"any", boothfx.ConstraintPreset{Name: "any"}, "video/x-raw,format=RGBA"},
		{"1080p", boothfx.ConstraintPreset{Width: 1920, Height: 1080, FrameRate: 30},
			"video/x-raw,format=RGBA,width=1920,height=1080,framerate=30/1"},
		{"width only", boothfx.ConstraintPreset{Width: 640}, "video/x-raw,format=RGBA"},
		{"ntsc", boothfx.ConstraintPreset{FrameRate: 29.97}, "video/x-raw,format=RGBA,framerate=29970/1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capsFor(tt.preset); got != tt.want {
				t.Errorf("capsFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRGBAFromBytesPadded(t *testing.T) {
	// 2x2 image with 4 bytes of row padding.
	data := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0,
		9, 10, 11, 12, 13, 14, 15, 16, 0, 0, 0, 0,
	}
	img, ok := rgbaFromBytes(data, 2, 2)
	if !ok {
		t.Fatal("rgbaFromBytes rejected padded buffer")
	}
	if got := img.RGBAAt(1, 1); got.R != 13 || got.A != 16 {
		t.Errorf("pixel (1,1) = %v, want R=13 A=16", got)
	}
	if got := img.RGBAAt(0, 1); got.R != 9 {
		t.Errorf("pixel (0,1) R = %d, want 9", got.R)
	}
}

func TestRGBAFromBytesShort(t *testing.T) {
	if _, ok := rgbaFromBytes(make([]byte, 10), 2, 2); ok {
		t.Error("short buffer should be rejected")
	}
	if _, ok := rgbaFromBytes(nil, 2, 0); ok {
		t.Error("zero height should be rejected")
	}
}

func TestCaptureErrorClassifiesDriverText(t *testing.T) {
	tests := []struct {
		text string
		want boothfx.CaptureErrorKind
	}{
		{"Could not open device '/dev/video0' for reading and writing. Permission denied", boothfx.KindPermissionDenied},
		{"Cannot identify device '/dev/video9'. No such file or directory", boothfx.KindDeviceNotFound},
		{"Device '/dev/video0' is busy", boothfx.KindDeviceBusy},
		{"Internal data stream error. streaming stopped, reason not-negotiated (-4)", boothfx.KindConstraintUnsatisfiable},
	}
	for _, tt := range tests {
		err := captureError(tt.text, errString(tt.text))
		if err.Kind != tt.want {
			t.Errorf("captureError(%q).Kind = %v, want %v", tt.text, err.Kind, tt.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
