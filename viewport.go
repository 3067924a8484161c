package boothfx

// Default tier breakpoints.
const (
	DefaultSmallMaxWidth      = 768
	DefaultWideMinWidth       = 1440
	DefaultWideMinAspectRatio = 1.6
)

// ViewportThresholds configures the tier breakpoints.
type ViewportThresholds struct {
	SmallMaxWidth      float64 `yaml:"small_max_width"`
	WideMinWidth       float64 `yaml:"wide_min_width"`
	WideMinAspectRatio float64 `yaml:"wide_min_aspect_ratio"`
}

// DefaultViewportThresholds returns the stock breakpoints.
func DefaultViewportThresholds() ViewportThresholds {
	return ViewportThresholds{
		SmallMaxWidth:      DefaultSmallMaxWidth,
		WideMinWidth:       DefaultWideMinWidth,
		WideMinAspectRatio: DefaultWideMinAspectRatio,
	}
}

// ViewportTier is the size class of the window. Small and Wide are never
// both true; neither set means the standard tier.
type ViewportTier struct {
	Small bool
	Wide  bool
}

// Standard reports whether the tier is neither small nor wide.
func (t ViewportTier) Standard() bool { return !t.Small && !t.Wide }

func (t ViewportTier) String() string {
	switch {
	case t.Small:
		return "small"
	case t.Wide:
		return "wide"
	default:
		return "standard"
	}
}

// ClassifyViewport maps window dimensions to a tier.
func ClassifyViewport(width, height float64, th ViewportThresholds) ViewportTier {
	small := width < th.SmallMaxWidth
	wide := !small && height > 0 &&
		width >= th.WideMinWidth &&
		width/height >= th.WideMinAspectRatio
	return ViewportTier{Small: small, Wide: wide}
}

// TierClassifier tracks the current tier and notifies listeners only when
// one of the booleans flips.
type TierClassifier struct {
	th        ViewportThresholds
	tier      ViewportTier
	known     bool
	listeners []tierListener
	nextID    uint32
}

type tierListener struct {
	id uint32
	fn func(ViewportTier)
}

// NewTierClassifier creates a classifier with the given thresholds.
func NewTierClassifier(th ViewportThresholds) *TierClassifier {
	return &TierClassifier{th: th}
}

// Tier returns the last classified tier.
func (c *TierClassifier) Tier() ViewportTier { return c.tier }

// Update classifies the new dimensions and reports whether the tier changed.
// The first call always counts as a change.
func (c *TierClassifier) Update(width, height float64) (ViewportTier, bool) {
	next := ClassifyViewport(width, height, c.th)
	if c.known && next == c.tier {
		return c.tier, false
	}
	c.tier = next
	c.known = true
	for _, l := range c.listeners {
		l.fn(next)
	}
	return next, true
}

// OnChange registers fn to run whenever the tier changes.
func (c *TierClassifier) OnChange(fn func(ViewportTier)) CallbackHandle {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, tierListener{id: id, fn: fn})
	return CallbackHandle{remove: func() {
		for i := range c.listeners {
			if c.listeners[i].id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}}
}
