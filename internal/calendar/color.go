package calendar

// Color is one palette slot, expressed for each render target.
type Color struct {
	Name       string
	Background string // HTML hex
	Foreground string // HTML hex
	ANSI       string // 256-color code
}

// Palette is an ordered, fixed set of colors assigned cyclically by
// category id.
type Palette []Color

// PaletteV1 is the category palette. Reordering or resizing it changes the
// color of existing categories, so a change belongs in a new version.
var PaletteV1 = Palette{
	{Name: "purple", Background: "#f3e8ff", Foreground: "#6b21a8", ANSI: "135"},
	{Name: "indigo", Background: "#e0e7ff", Foreground: "#3730a3", ANSI: "63"},
	{Name: "sky", Background: "#e0f2fe", Foreground: "#075985", ANSI: "39"},
	{Name: "emerald", Background: "#d1fae5", Foreground: "#065f46", ANSI: "35"},
	{Name: "amber", Background: "#fef3c7", Foreground: "#92400e", ANSI: "214"},
	{Name: "rose", Background: "#ffe4e6", Foreground: "#9f1239", ANSI: "204"},
	{Name: "teal", Background: "#ccfbf1", Foreground: "#115e59", ANSI: "37"},
}

// ColorOf returns the PaletteV1 color for a category id.
func ColorOf(id int) Color {
	return PaletteV1.ColorOf(id)
}

// ColorOf maps id to slot (id-1) mod len(p). Ids <= 0 wrap around instead
// of failing. An empty palette behaves as PaletteV1.
func (p Palette) ColorOf(id int) Color {
	return p.orDefault()[p.Index(id)]
}

// Index returns the palette slot for id, always in [0, len(p)).
func (p Palette) Index(id int) int {
	k := len(p.orDefault())
	i := (id - 1) % k
	if i < 0 {
		i += k
	}
	return i
}

func (p Palette) orDefault() Palette {
	if len(p) == 0 {
		return PaletteV1
	}
	return p
}
