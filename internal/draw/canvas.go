package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/muesli/termenv"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []uint8 // Flat slice: [y * termWidth + x] - palette index, 0 is background

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	profile    termenv.Profile
	background Color
	palette    []Color // index 0 is the background
	paletteIdx map[Color]uint8

	texts     []textOverlay
	prevTexts []textOverlay
	prev      []cellState // last rendered cells; nil forces a full redraw

	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
}

type textOverlay struct {
	col, row int
	text     string
	color    uint8
}

type cellState struct {
	top, bottom uint8
	valid       bool
}

// NewCanvas creates an unscaled canvas for the given terminal dimensions.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		profile:       termenv.TrueColor,
		background:    Black,
		palette:       []Color{Black},
		paletteIdx:    map[Color]uint8{Black: 0},
	}
	c.Resize(termWidth, termHeight)
	return c
}

// SetProfile selects the terminal color profile used by Render.
func (c *Canvas) SetProfile(p termenv.Profile) {
	c.profile = p
	c.ForceRedraw()
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]uint8, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.ForceRedraw()
	}

	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render repaint every cell.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// Clear resets every pixel to the background and drops text overlays.
func (c *Canvas) Clear() {
	clear(c.pixels)
	c.texts = c.texts[:0]
}

// Size returns the logical dimensions.
func (c *Canvas) Size() (width, height float64) {
	return c.logicalWidth, c.logicalHeight
}

func (c *Canvas) colorIndex(col Color) uint8 {
	if col == c.background {
		return 0
	}
	if idx, ok := c.paletteIdx[col]; ok {
		return idx
	}
	if len(c.palette) > math.MaxUint8 {
		return math.MaxUint8
	}
	idx := uint8(len(c.palette))
	c.palette = append(c.palette, col)
	c.paletteIdx[col] = idx
	return idx
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, idx uint8) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = idx
	}
}

// pixel returns the palette index at terminal pixel coordinates.
func (c *Canvas) pixel(x, y int) uint8 {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// FillRect fills a logical rectangle. Anything with positive area covers at
// least one pixel so small stars and shots stay visible at low resolutions.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	idx := c.colorIndex(col)
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Ceil((x+w)*c.scaleX)), x0+1)
	y1 := max(int(math.Ceil((y+h)*c.scaleY)), y0+1)

	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		for px := x0; px < x1; px++ {
			row[px] = idx
		}
	}
}

// FillPolygon fills a polygon and traces its outline.
func (c *Canvas) FillPolygon(points []Point, col Color) {
	if len(points) < 3 {
		return
	}
	idx := c.colorIndex(col)
	c.fillPolygon(points, idx)

	n := len(points)
	for i := 0; i < n; i++ {
		c.drawLine(points[i], points[(i+1)%n], idx)
	}
}

// FillText places text at the terminal cell containing (x, y).
func (c *Canvas) FillText(x, y float64, text string, col Color) {
	cellCol, cellRow := c.LogicalToTerminal(x, y)
	c.texts = append(c.texts, textOverlay{
		col:   cellCol,
		row:   cellRow,
		text:  text,
		color: c.colorIndex(col),
	})
}

// drawLine draws a line using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) drawLine(p1, p2 Point, idx uint8) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, idx)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, idx uint8) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(int(math.Ceil(intersections[i])), 0)
			xEnd := min(int(math.Floor(intersections[i+1])), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, idx)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the cells that changed since the last Render, then the text
// overlays.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	cells := c.termWidth * c.termHeight
	if len(c.prev) != cells {
		c.prev = make([]cellState, cells)
	}
	// Cells under last frame's text must be repainted.
	for _, t := range c.prevTexts {
		c.invalidateSpan(t)
	}

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			top := c.pixel(col, row*2)
			bottom := c.pixel(col, row*2+1)

			p := &c.prev[row*c.termWidth+col]
			if p.valid && p.top == top && p.bottom == bottom {
				continue
			}
			*p = cellState{top: top, bottom: bottom, valid: true}

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			c.writeCell(top, bottom)
		}
	}

	for _, t := range c.texts {
		if t.row < 1 || t.row > c.termHeight || t.col > c.termWidth {
			continue
		}
		text := t.text
		if t.col < 1 {
			skip := 1 - t.col
			if skip >= len([]rune(text)) {
				continue
			}
			text = string([]rune(text)[skip:])
			t.col = 1
		}
		if room := c.termWidth - t.col + 1; len([]rune(text)) > room {
			text = string([]rune(text)[:room])
		}
		fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", t.row+c.offsetRow, t.col+c.offsetCol)
		c.renderBuf.WriteString(termenv.CSI + termenv.ResetSeq + "m")
		c.writeColor(t.color, false)
		c.renderBuf.WriteString(text)
	}
	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	}
	c.prevTexts = append(c.prevTexts[:0], c.texts...)

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) invalidateSpan(t textOverlay) {
	if t.row < 1 || t.row > c.termHeight {
		return
	}
	start := max(t.col, 1)
	end := min(t.col+len([]rune(t.text))-1, c.termWidth)
	for col := start; col <= end; col++ {
		c.prev[(t.row-1)*c.termWidth+col-1].valid = false
	}
}

// writeCell emits one half-block cell: the foreground paints the top half and
// the background the bottom half.
func (c *Canvas) writeCell(top, bottom uint8) {
	c.renderBuf.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	switch {
	case top == 0 && bottom == 0:
		c.renderBuf.WriteRune(BlockEmpty)
	case bottom == 0:
		c.writeColor(top, false)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case top == 0:
		c.writeColor(bottom, false)
		c.renderBuf.WriteRune(BlockLowerHalf)
	case top == bottom:
		c.writeColor(top, false)
		c.renderBuf.WriteRune(BlockFull)
	default:
		c.writeColor(top, false)
		c.writeColor(bottom, true)
		c.renderBuf.WriteRune(BlockUpperHalf)
	}
}

func (c *Canvas) writeColor(idx uint8, bg bool) {
	col := c.profile.Color(string(c.palette[idx]))
	if col == nil {
		return
	}
	if seq := col.Sequence(bg); seq != "" {
		c.renderBuf.WriteString(termenv.CSI + seq + "m")
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based screen position, as reported by mouse
// events, to the logical coordinates of that cell's top-left corner.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	col -= c.offsetCol
	row -= c.offsetRow
	if c.scaleX > 0 {
		x = float64(col-1) / c.scaleX
	}
	if c.scaleY > 0 {
		y = float64((row-1)*2) / c.scaleY
	}
	return x, y
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
