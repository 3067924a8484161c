package boothfx

import (
	"errors"
	"strings"
)

// CaptureErrorKind classifies a camera acquisition failure.
type CaptureErrorKind int

const (
	// KindUnknown is an unclassified failure. It falls through to the next
	// preset.
	KindUnknown CaptureErrorKind = iota
	// KindPermissionDenied means the user or the OS refused access. Fatal to
	// the current negotiation.
	KindPermissionDenied
	// KindDeviceNotFound means no capture device matched.
	KindDeviceNotFound
	// KindDeviceBusy means the device exists but could not be opened.
	KindDeviceBusy
	// KindConstraintUnsatisfiable means the device rejected the requested
	// resolution, aspect ratio or frame rate.
	KindConstraintUnsatisfiable
	// KindUnsupportedEnvironment means the host has no usable capture API.
	KindUnsupportedEnvironment
)

func (k CaptureErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission-denied"
	case KindDeviceNotFound:
		return "device-not-found"
	case KindDeviceBusy:
		return "device-busy"
	case KindConstraintUnsatisfiable:
		return "constraint-unsatisfiable"
	case KindUnsupportedEnvironment:
		return "unsupported-environment"
	default:
		return "unknown"
	}
}

// Fatal reports whether a failure of this kind stops negotiation instead of
// advancing to the next preset.
func (k CaptureErrorKind) Fatal() bool { return k == KindPermissionDenied }

// CaptureError is the error surfaced by Negotiator.Acquire.
type CaptureError struct {
	Kind    CaptureErrorKind
	Message string
	// Attempts is the number of presets tried before giving up.
	Attempts int
	Err      error
}

func (e *CaptureError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return "camera: " + e.Kind.String()
	}
	return "camera: " + e.Kind.String() + ": " + msg
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Is matches another *CaptureError by kind, so errors.Is(err,
// &CaptureError{Kind: KindDeviceBusy}) works.
func (e *CaptureError) Is(target error) bool {
	t, ok := target.(*CaptureError)
	return ok && t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinel errors.
var (
	// ErrNoFrame is returned by the compositor when the source has not
	// reported its native dimensions yet.
	ErrNoFrame = errors.New("camera: no frame available")
	// ErrNoSession is returned when an operation needs an active session.
	ErrNoSession = errors.New("camera: no active session")
	// ErrReleased is returned by Acquire when Release cancelled it.
	ErrReleased = errors.New("camera: acquisition cancelled by release")
)

// KindOf returns the kind carried by err, classifying plain errors by message.
func KindOf(err error) CaptureErrorKind {
	if err == nil {
		return KindUnknown
	}
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ClassifyCaptureError(err.Error())
}

// ClassifyCaptureError maps a device error message to a kind. Matching is
// case-insensitive and checks the most specific category first.
func ClassifyCaptureError(msg string) CaptureErrorKind {
	m := strings.ToLower(msg)
	switch {
	case containsAny(m, permissionKeywords):
		return KindPermissionDenied
	case containsAny(m, notFoundKeywords):
		return KindDeviceNotFound
	case containsAny(m, busyKeywords):
		return KindDeviceBusy
	case containsAny(m, constraintKeywords):
		return KindConstraintUnsatisfiable
	case containsAny(m, unsupportedKeywords):
		return KindUnsupportedEnvironment
	default:
		return KindUnknown
	}
}

var (
	permissionKeywords = []string{
		"notallowed",
		"not allowed",
		"permission",
		"denied",
		"security",
		"eacces",
	}
	notFoundKeywords = []string{
		"notfound",
		"not found",
		"no such device",
		"no such file",
		"enodev",
		"enoent",
	}
	busyKeywords = []string{
		"notreadable",
		"not readable",
		"busy",
		"in use",
		"ebusy",
		"could not open",
	}
	constraintKeywords = []string{
		"overconstrained",
		"constraint",
		"not negotiated",
		"not-negotiated",
		"caps",
		"resolution",
	}
	unsupportedKeywords = []string{
		"notsupported",
		"not supported",
		"unsupported",
		"missing plugin",
		"no such element",
	}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
