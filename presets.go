package boothfx

import "fmt"

// FacingMode selects the front or back camera on devices that have both.
type FacingMode string

const (
	FacingAny         FacingMode = ""
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// DeviceClass is the externally derived classification of the capture host.
type DeviceClass struct {
	Mobile   bool `yaml:"mobile"`
	IOS      bool `yaml:"ios"`
	IPhone   bool `yaml:"iphone"`
	Portrait bool `yaml:"portrait"`
}

// ConstraintPreset is one candidate request tried during negotiation. Width,
// Height, AspectRatio and FrameRate are ideal values; zero means no hint.
type ConstraintPreset struct {
	Name        string
	Width       int
	Height      int
	AspectRatio float64
	FrameRate   float64
	FacingMode  FacingMode
}

func (p ConstraintPreset) String() string {
	s := p.Name
	if p.Width > 0 && p.Height > 0 {
		s += fmt.Sprintf(" %dx%d", p.Width, p.Height)
	}
	if p.AspectRatio > 0 {
		s += fmt.Sprintf(" ar=%.4g", p.AspectRatio)
	}
	if p.FrameRate > 0 {
		s += fmt.Sprintf(" fps=%g", p.FrameRate)
	}
	if p.FacingMode != FacingAny {
		s += " facing=" + string(p.FacingMode)
	}
	return s
}

func (p ConstraintPreset) sameRequest(o ConstraintPreset) bool {
	p.Name, o.Name = "", ""
	return p == o
}

const defaultFrameRate = 30

// iPhoneResolutions is the fixed list tried on iPhones, where aspect ratio
// hints are unreliable.
var iPhoneResolutions = [...][2]int{
	{1920, 1080},
	{1280, 720},
	{640, 480},
}

// BuildPresets returns the ordered presets for a target aspect ratio and
// device class: high resolution with the aspect hint first, then class
// fallbacks, then a bare request. A non-positive targetAspect omits every
// aspect hint. Identical requests appear once.
func BuildPresets(targetAspect float64, class DeviceClass) []ConstraintPreset {
	if targetAspect < 0 {
		targetAspect = 0
	}
	facing := FacingAny
	if class.Mobile || class.IOS {
		facing = FacingUser
	}
	// Mobile sensors report portrait dimensions when held upright.
	dims := func(w, h int) (int, int) {
		if (class.Mobile || class.IOS) && class.Portrait {
			return h, w
		}
		return w, h
	}

	var out []ConstraintPreset
	add := func(p ConstraintPreset) {
		for _, q := range out {
			if q.sameRequest(p) {
				return
			}
		}
		out = append(out, p)
	}

	for _, r := range [...]struct {
		name string
		w, h int
	}{{"1080p", 1920, 1080}, {"720p", 1280, 720}} {
		w, h := dims(r.w, r.h)
		add(ConstraintPreset{
			Name: r.name, Width: w, Height: h,
			AspectRatio: targetAspect, FrameRate: defaultFrameRate, FacingMode: facing,
		})
	}

	switch {
	case class.IPhone:
		for _, r := range iPhoneResolutions {
			w, h := dims(r[0], r[1])
			add(ConstraintPreset{
				Name: fmt.Sprintf("iphone-%dp", r[1]), Width: w, Height: h,
				FrameRate: defaultFrameRate, FacingMode: facing,
			})
		}
	case class.IOS:
		w, h := dims(1280, 960)
		add(ConstraintPreset{
			Name: "ios-960p", Width: w, Height: h,
			AspectRatio: 4.0 / 3.0, FrameRate: defaultFrameRate, FacingMode: facing,
		})
	default:
		w, h := dims(640, 480)
		add(ConstraintPreset{
			Name: "vga", Width: w, Height: h,
			AspectRatio: targetAspect, FrameRate: defaultFrameRate, FacingMode: facing,
		})
	}

	add(ConstraintPreset{Name: "any", FacingMode: facing})
	return out
}
