package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/spacegame/internal/draw"
)

// imageSurface draws onto an ebiten image.
type imageSurface struct {
	target *ebiten.Image
	width  float64
	height float64
	face   font.Face

	fillImg *ebiten.Image
	vs      []ebiten.Vertex
	is      []uint16
}

func newImageSurface(width, height float64) *imageSurface {
	fillImg := ebiten.NewImage(1, 1)
	fillImg.Fill(color.White)
	return &imageSurface{
		width:   width,
		height:  height,
		face:    basicfont.Face7x13,
		fillImg: fillImg,
	}
}

func (s *imageSurface) Size() (float64, float64) {
	return s.width, s.height
}

func (s *imageSurface) FillRect(x, y, w, h float64, c draw.Color) {
	vector.DrawFilledRect(s.target, float32(x), float32(y), float32(w), float32(h), c.RGBA8(), false)
}

func (s *imageSurface) FillPolygon(points []draw.Point, c draw.Color) {
	if len(points) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	rgba := c.RGBA8()
	s.vs, s.is = path.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	for i := range s.vs {
		s.vs[i].ColorR = float32(rgba.R) / 255
		s.vs[i].ColorG = float32(rgba.G) / 255
		s.vs[i].ColorB = float32(rgba.B) / 255
		s.vs[i].ColorA = float32(rgba.A) / 255
	}
	s.target.DrawTriangles(s.vs, s.is, s.fillImg, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

// FillText draws with (x, y) as the baseline origin, like a canvas 2D context.
func (s *imageSurface) FillText(x, y float64, str string, c draw.Color) {
	text.Draw(s.target, str, s.face, int(x), int(y), c.RGBA8())
}
