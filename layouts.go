package boothfx

import "slices"

// Orientation is a named export canvas.
type Orientation struct {
	Name   string
	Width  int
	Height int
}

// Aspect returns Width/Height.
func (o Orientation) Aspect() float64 {
	if o.Height == 0 {
		return 0
	}
	return float64(o.Width) / float64(o.Height)
}

// Size returns the export dimensions.
func (o Orientation) Size() Size { return Size{W: float64(o.Width), H: float64(o.Height)} }

// Grid is a rows × cols arrangement of shots.
type Grid struct {
	Rows, Cols int
}

// Cells returns Rows*Cols.
func (g Grid) Cells() int { return g.Rows * g.Cols }

// Layout describes how many shots a session takes and how they are arranged.
type Layout struct {
	Name  string
	Title string
	Shots int
	// Grid is used for any orientation without an entry in ByOrientation.
	Grid          Grid
	ByOrientation map[string]Grid
	Orientations  []string
}

// GridFor returns the arrangement for the named orientation.
func (l *Layout) GridFor(orientation string) Grid {
	if g, ok := l.ByOrientation[orientation]; ok {
		return g
	}
	return l.Grid
}

// Allows reports whether the layout can be exported in the named orientation.
func (l *Layout) Allows(orientation string) bool {
	return slices.Contains(l.Orientations, orientation)
}

var orientations = []Orientation{
	{Name: "portrait", Width: 1080, Height: 1920},
	{Name: "landscape", Width: 1920, Height: 1080},
	{Name: "square", Width: 1080, Height: 1080},
}

var layouts = []Layout{
	{
		Name: "single", Title: "Single", Shots: 1,
		Grid:         Grid{1, 1},
		Orientations: []string{"portrait", "landscape", "square"},
	},
	{
		Name: "duo", Title: "Duo", Shots: 2,
		Grid: Grid{2, 1},
		ByOrientation: map[string]Grid{
			"landscape": {1, 2},
		},
		Orientations: []string{"portrait", "landscape", "square"},
	},
	{
		Name: "strip", Title: "Classic strip", Shots: 4,
		Grid: Grid{4, 1},
		ByOrientation: map[string]Grid{
			"landscape": {1, 4},
		},
		Orientations: []string{"portrait", "landscape"},
	},
	{
		Name: "grid", Title: "Grid", Shots: 4,
		Grid:         Grid{2, 2},
		Orientations: []string{"portrait", "landscape", "square"},
	},
}

// Orientations returns the orientation catalog.
func Orientations() []Orientation { return slices.Clone(orientations) }

// LookupOrientation finds an orientation by name.
func LookupOrientation(name string) (Orientation, bool) {
	for _, o := range orientations {
		if o.Name == name {
			return o, true
		}
	}
	return Orientation{}, false
}

// Layouts returns the layout catalog in display order. Entries share their
// maps and slices with the catalog and must not be modified.
func Layouts() []Layout { return slices.Clone(layouts) }

// LookupLayout finds a layout by name.
func LookupLayout(name string) (*Layout, bool) {
	for i := range layouts {
		if layouts[i].Name == name {
			l := layouts[i]
			return &l, true
		}
	}
	return nil, false
}

// CellAspect returns the aspect ratio of one grid cell when the layout is
// exported in o with the given padding. Shots should be captured at this
// aspect so the composite needs no further cropping.
func (l *Layout) CellAspect(o Orientation, padding float64) float64 {
	g := l.GridFor(o.Name)
	if g.Rows <= 0 || g.Cols <= 0 {
		return o.Aspect()
	}
	w := (float64(o.Width) - padding*float64(g.Cols+1)) / float64(g.Cols)
	h := (float64(o.Height) - padding*float64(g.Rows+1)) / float64(g.Rows)
	if w <= 0 || h <= 0 {
		return o.Aspect()
	}
	return w / h
}
