package draw

import "io"

// Terminal is a Surface that paints into a terminal through a Canvas.
// Each Present renders the changed cells and flushes them to the writer.
type Terminal struct {
	*Canvas
	out        *ChunkWriter
	maxCols    int
	maxRows    int
	needBorder bool
}

// NewTerminal creates a terminal surface of cols x rows cells showing a
// logical area of width x height pixels. A positive maxCols or maxRows caps
// the render area, which is then centered and framed.
func NewTerminal(w io.Writer, cols, rows int, width, height float64, maxCols, maxRows int) *Terminal {
	t := &Terminal{
		Canvas:  NewScaledCanvas(0, 0, width, height),
		out:     NewChunkWriter(w),
		maxCols: maxCols,
		maxRows: maxRows,
	}
	t.Resize(cols, rows)
	return t
}

// Resize fits the canvas to a new terminal size and schedules a full redraw.
func (t *Terminal) Resize(cols, rows int) {
	maxCols, maxRows := cols, rows
	if t.maxCols > 0 {
		maxCols = t.maxCols
	}
	if t.maxRows > 0 {
		maxRows = t.maxRows
	}
	renderCols, renderRows, offsetCol, offsetRow := FitTerminal(cols, rows, maxCols, maxRows)

	ClearScreen(t.out)
	t.Canvas.Resize(renderCols, renderRows)
	t.Canvas.SetOffset(offsetCol, offsetRow)
	t.Canvas.ForceRedraw()
	t.needBorder = true
}

// Present renders the painted frame, flushes it and clears the canvas for the
// next one.
func (t *Terminal) Present() error {
	t.Canvas.Render(t.out)
	if t.needBorder {
		t.Canvas.RenderBorder(t.out)
		t.needBorder = false
	}
	t.Canvas.Clear()
	return t.out.Flush()
}

// Writer exposes the buffered output for cursor and mode sequences.
// Bytes written to it go out with the next Present or Flush.
func (t *Terminal) Writer() io.Writer {
	return t.out
}

// Flush sends any buffered output without rendering.
func (t *Terminal) Flush() error {
	return t.out.Flush()
}
