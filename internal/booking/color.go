package booking

import "unicode/utf16"

// DefaultColors is the subject palette used by the scheduling grid.
var DefaultColors = []string{
	"#e491a9",
	"#9f86c0",
	"#5cbdb9",
	"#f7a595",
	"#fdcea9",
	"#a2d7d2",
	"#bfe9b7",
	"#dadbe8",
	"#d1c2d3",
	"#e8d3a9",
}

// Palette maps subject names to display colors deterministically.
type Palette struct {
	colors []string
}

func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Palette{colors: colors}
}

// ColorFor returns the color of a subject. The same name always maps to the same color,
// and matches the colors the browser front-end computes for it.
func (p *Palette) ColorFor(subject string) string {
	idx := subjectHash(subject) % int64(len(p.colors))
	if idx < 0 {
		idx = -idx
	}
	return p.colors[idx]
}

// subjectHash is the classic `c + ((h << 5) - h)` string hash over UTF-16 code units,
// with the shift done in 32-bit arithmetic the way browsers evaluate it.
func subjectHash(s string) int64 {
	var h int64
	for _, c := range utf16.Encode([]rune(s)) {
		shifted := int64(int32(h) << 5)
		h = int64(c) + (shifted - h)
	}
	return h
}
