package boothfx

// TierVariant holds a value for each viewport tier.
type TierVariant[T any] struct {
	Standard T `yaml:"standard"`
	Small    T `yaml:"small"`
	Wide     T `yaml:"wide"`
}

// Pick returns the variant for tier t.
func (v TierVariant[T]) Pick(t ViewportTier) T {
	switch {
	case t.Small:
		return v.Small
	case t.Wide:
		return v.Wide
	default:
		return v.Standard
	}
}

// LayerAppearance is the per-theme look of a layer.
type LayerAppearance struct {
	Opacity float64   `yaml:"opacity"`
	Blend   BlendMode `yaml:"blend"`
	Tint    Color     `yaml:"tint"`
}

// DecorativeLayer is the immutable descriptor of one animated background
// element. Anchors are fractions of the viewport (0..1, center of the layer);
// sizes are fractions of the viewport width.
type DecorativeLayer struct {
	Key      string        `yaml:"key"`
	Source   string        `yaml:"source"`
	Category LayerCategory `yaml:"category"`

	Anchor TierVariant[Vec2]    `yaml:"anchor"`
	Size   TierVariant[float64] `yaml:"size"`

	Rotation float64 `yaml:"rotation"` // radians
	Scale    float64 `yaml:"scale"`
	FlipX    bool    `yaml:"flip_x"`
	FlipY    bool    `yaml:"flip_y"`
	Order    int     `yaml:"order"`

	Radius       float64 `yaml:"radius"`        // interaction radius, pixels
	Strength     float64 `yaml:"strength"`      // base displacement, pixels
	PointerBoost float64 `yaml:"pointer_boost"` // 0 means 1
	MaxOffset    float64 `yaml:"max_offset"`    // 0 means profile default

	Light LayerAppearance `yaml:"light"`
	Dark  LayerAppearance `yaml:"dark"`
}

// Appearance returns the look for the given theme.
func (l *DecorativeLayer) Appearance(dark bool) LayerAppearance {
	if dark {
		return l.Dark
	}
	return l.Light
}

func (l *DecorativeLayer) boost() float64 {
	if l.PointerBoost <= 0 {
		return 1
	}
	return l.PointerBoost
}

func (l *DecorativeLayer) scale() float64 {
	if l.Scale <= 0 {
		return 1
	}
	return l.Scale
}

func v2(x, y float64) Vec2 { return Vec2{x, y} }

var (
	blobLight = Color{R: 0.55, G: 0.66, B: 0.98, A: 1}
	blobDark  = Color{R: 0.36, G: 0.30, B: 0.78, A: 1}
	gridLight = Color{R: 0.32, G: 0.38, B: 0.55, A: 1}
	gridDark  = Color{R: 0.78, G: 0.84, B: 1.00, A: 1}
)

// PrimaryLayers returns the fixed set of large blob layers. The slice is a
// fresh copy on every call.
func PrimaryLayers() []DecorativeLayer {
	light := LayerAppearance{Opacity: 0.55, Blend: BlendNormal, Tint: blobLight}
	dark := LayerAppearance{Opacity: 0.42, Blend: BlendScreen, Tint: blobDark}
	return []DecorativeLayer{
		{
			Key: "blob-top-left", Source: "blob-a", Category: CategoryPrimary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.12, 0.18), Small: v2(0.05, 0.10), Wide: v2(0.16, 0.20)},
			Size:   TierVariant[float64]{Standard: 0.34, Small: 0.62, Wide: 0.28},
			Rotation: -0.3, Order: 0, Radius: 420, Strength: 26,
			Light: light, Dark: dark,
		},
		{
			Key: "blob-bottom-right", Source: "blob-b", Category: CategoryPrimary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.86, 0.80), Small: v2(0.92, 0.88), Wide: v2(0.82, 0.78)},
			Size:   TierVariant[float64]{Standard: 0.38, Small: 0.70, Wide: 0.30},
			Rotation: 0.5, FlipX: true, Order: 1, Radius: 460, Strength: 30,
			Light: light, Dark: dark,
		},
		{
			Key: "blob-center", Source: "blob-c", Category: CategoryPrimary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.55, 0.42), Small: v2(0.50, 0.46), Wide: v2(0.58, 0.40)},
			Size:   TierVariant[float64]{Standard: 0.22, Small: 0.44, Wide: 0.18},
			Rotation: 1.1, Scale: 0.9, Order: 2, Radius: 360, Strength: 20,
			PointerBoost: 1.25, MaxOffset: 34,
			Light: light, Dark: dark,
		},
		{
			Key: "blob-bottom-left", Source: "blob-a", Category: CategoryPrimary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.18, 0.86), Small: v2(0.10, 0.94), Wide: v2(0.22, 0.84)},
			Size:   TierVariant[float64]{Standard: 0.20, Small: 0.40, Wide: 0.16},
			Rotation: 2.4, FlipY: true, Order: 3, Radius: 320, Strength: 18,
			Light: light, Dark: dark,
		},
	}
}

// SecondaryLayers returns the fixed set of grid ornament layers. The slice is
// a fresh copy on every call.
func SecondaryLayers() []DecorativeLayer {
	light := LayerAppearance{Opacity: 0.35, Blend: BlendNormal, Tint: gridLight}
	dark := LayerAppearance{Opacity: 0.28, Blend: BlendAdd, Tint: gridDark}
	return []DecorativeLayer{
		{
			Key: "grid-top-right", Source: "grid-dots", Category: CategorySecondary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.80, 0.16), Small: v2(0.84, 0.08), Wide: v2(0.78, 0.18)},
			Size:   TierVariant[float64]{Standard: 0.12, Small: 0.24, Wide: 0.10},
			Order: 10, Radius: 260, Strength: 14, PointerBoost: 1.4, MaxOffset: 24,
			Light: light, Dark: dark,
		},
		{
			Key: "grid-left", Source: "grid-cross", Category: CategorySecondary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.06, 0.52), Small: v2(0.08, 0.60), Wide: v2(0.08, 0.50)},
			Size:   TierVariant[float64]{Standard: 0.09, Small: 0.18, Wide: 0.08},
			Rotation: 0.785, Order: 11, Radius: 220, Strength: 12, PointerBoost: 1.4, MaxOffset: 24,
			Light: light, Dark: dark,
		},
		{
			Key: "grid-bottom", Source: "grid-dots", Category: CategorySecondary,
			Anchor: TierVariant[Vec2]{Standard: v2(0.62, 0.90), Small: v2(0.70, 0.96), Wide: v2(0.60, 0.88)},
			Size:   TierVariant[float64]{Standard: 0.10, Small: 0.20, Wide: 0.08},
			FlipX: true, Order: 12, Radius: 240, Strength: 12, PointerBoost: 1.2, MaxOffset: 22,
			Light: light, Dark: dark,
		},
	}
}

// DefaultLayers returns primary followed by secondary layers.
func DefaultLayers() []DecorativeLayer {
	return append(PrimaryLayers(), SecondaryLayers()...)
}

// ResolvedLayer is the on-screen placement of a layer for the current tier.
type ResolvedLayer struct {
	Bounds Rect
	Center Vec2
}

// ResolveLayer computes a layer's placement in a viewport of the given size.
func ResolveLayer(l *DecorativeLayer, tier ViewportTier, viewport Size) ResolvedLayer {
	anchor := l.Anchor.Pick(tier)
	side := l.Size.Pick(tier) * viewport.W * l.scale()
	cx := anchor.X * viewport.W
	cy := anchor.Y * viewport.H
	return ResolvedLayer{
		Bounds: Rect{X: cx - side/2, Y: cy - side/2, Width: side, Height: side},
		Center: Vec2{cx, cy},
	}
}
