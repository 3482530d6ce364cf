// Package render paints frames onto a draw.Surface.
package render

import (
	"strconv"

	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/world"
)

const (
	shipHalfWidth = 20
	shotSize      = 10

	startPrompt  = "Click or Press Key to play"
	gameOverText = "GAME OVER !!!"
)

// Colors of the fixed palette.
const (
	Background = draw.Black
	StarColor  = draw.White
	EnemyColor = draw.Green
	ShotColor  = draw.Cyan
	HeroColor  = draw.Red
	TextColor  = draw.White
)

// Painter paints frames. It keeps a scratch buffer for ship vertices, so a
// Painter must not be shared between goroutines.
type Painter struct {
	tri [3]draw.Point
}

// Paint draws the whole frame. It never modifies the frame's entities.
func (p *Painter) Paint(s draw.Surface, f world.Frame) {
	w, h := s.Size()
	s.FillRect(0, 0, w, h, Background)

	for _, star := range f.Stars {
		s.FillRect(star.X, star.Y, star.Size, star.Size, StarColor)
	}

	for _, e := range f.Enemies {
		if !e.Dead {
			p.ship(s, e.X, e.Y, false, EnemyColor)
		}
		for _, shot := range e.Shots {
			if shot.Visible {
				s.FillRect(shot.X, shot.Y, shotSize, shotSize, ShotColor)
			}
		}
	}

	p.ship(s, f.Hero.X, f.Hero.Y, true, HeroColor)
	if f.Hero.Dead {
		s.FillText(w/2, h/2, gameOverText, TextColor)
	}

	for _, shot := range f.HeroShots {
		if shot.Visible {
			s.FillRect(shot.X, shot.Y, shotSize, shotSize, ShotColor)
		}
	}

	s.FillText(40, 43, "Score: "+strconv.Itoa(f.Score), TextColor)
}

// PaintStart draws the prompt shown before the first frame.
func (p *Painter) PaintStart(s draw.Surface) {
	w, h := s.Size()
	s.FillRect(0, 0, w, h, Background)
	s.FillText(w/3, h/2, startPrompt, TextColor)
}

// ship draws a triangle whose base is centered on (x, y) and whose tip points
// up or down.
func (p *Painter) ship(s draw.Surface, x, y float64, up bool, c draw.Color) {
	tipY := y + shipHalfWidth
	if up {
		tipY = y - shipHalfWidth
	}
	p.tri = [3]draw.Point{
		{X: x - shipHalfWidth, Y: y},
		{X: x, Y: tipY},
		{X: x + shipHalfWidth, Y: y},
	}
	s.FillPolygon(p.tri[:], c)
}
