package boothfx

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyCaptureError(t *testing.T) {
	tests := []struct {
		msg  string
		want CaptureErrorKind
	}{
		{"NotAllowedError: Permission denied", KindPermissionDenied},
		{"SecurityError", KindPermissionDenied},
		{"NotFoundError: Requested device not found", KindDeviceNotFound},
		{"open /dev/video3: no such file or directory", KindDeviceNotFound},
		{"NotReadableError: Could not start video source", KindDeviceBusy},
		{"device or resource busy", KindDeviceBusy},
		{"OverconstrainedError", KindConstraintUnsatisfiable},
		{"streaming stopped, reason not-negotiated", KindConstraintUnsatisfiable},
		{"NotSupportedError", KindUnsupportedEnvironment},
		{"something else entirely", KindUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyCaptureError(tt.msg); got != tt.want {
			t.Errorf("ClassifyCaptureError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestCaptureErrorIsAndUnwrap(t *testing.T) {
	cause := errors.New("EBUSY")
	err := fmt.Errorf("acquire: %w", &CaptureError{Kind: KindDeviceBusy, Message: "busy", Err: cause})

	if !errors.Is(err, &CaptureError{Kind: KindDeviceBusy}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &CaptureError{Kind: KindDeviceNotFound}) {
		t.Error("errors.Is should not match a different kind")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if KindOf(err) != KindDeviceBusy {
		t.Errorf("KindOf = %v, want busy", KindOf(err))
	}
	if KindOf(nil) != KindUnknown {
		t.Error("KindOf(nil) should be unknown")
	}
}

func TestCaptureErrorKindFatal(t *testing.T) {
	for k := KindUnknown; k <= KindUnsupportedEnvironment; k++ {
		if k.Fatal() != (k == KindPermissionDenied) {
			t.Errorf("%v.Fatal() = %v", k, k.Fatal())
		}
	}
}

func TestCaptureErrorMessage(t *testing.T) {
	e := &CaptureError{Kind: KindDeviceNotFound}
	if e.Error() == "" {
		t.Error("empty error string")
	}
	e.Message = "no camera"
	if got := e.Error(); got != "camera: "+KindDeviceNotFound.String()+": no camera" {
		t.Errorf("Error() = %q", got)
	}
}
