// Package draw is the 2D drawing layer shared by every front end.
//
// Renderers paint onto a Surface in logical pixel coordinates. A Canvas turns
// those calls into half-block terminal output; a Recorder turns them into a
// command list for remote or desktop presentation.
package draw

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a CSS style hex color such as "#00ff00".
type Color string

// Colors used by the game.
const (
	Black Color = "#000000"
	White Color = "#ffffff"
	Red   Color = "#ff0000"
	Green Color = "#00ff00"
	Cyan  Color = "#00ffff"
)

// RGBA8 parses the color. Unparseable colors come back as opaque white.
func (c Color) RGBA8() color.RGBA {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	r, g, b := cc.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Surface is anything a frame can be painted on. Coordinates are logical
// pixels with the origin at the top-left corner.
type Surface interface {
	Size() (width, height float64)
	FillRect(x, y, w, h float64, c Color)
	FillPolygon(points []Point, c Color)
	// FillText draws text with its baseline starting at (x, y).
	FillText(x, y float64, text string, c Color)
}

// Presenter is a Surface that must be flushed after each painted frame.
type Presenter interface {
	Present() error
}

// Resizer is a Surface whose output area can change size.
type Resizer interface {
	Resize(width, height int)
}
