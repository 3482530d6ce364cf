package draw

import "slices"

// Drawing operations recorded by a Recorder.
const (
	OpRect    = "rect"
	OpPolygon = "poly"
	OpText    = "text"
)

// Command is one recorded drawing call.
type Command struct {
	Op     string  `json:"op"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Points []Point `json:"points,omitempty"`
	Text   string  `json:"text,omitempty"`
	Color  Color   `json:"color"`
}

// Recorder is a Surface that records drawing calls. Present hands the
// recorded frame to a callback and starts a new one.
type Recorder struct {
	width    float64
	height   float64
	commands []Command
	present  func([]Command) error
}

// NewRecorder creates a recorder for a logical area of width x height.
// present may be nil.
func NewRecorder(width, height float64, present func([]Command) error) *Recorder {
	return &Recorder{width: width, height: height, present: present}
}

func (r *Recorder) Size() (width, height float64) {
	return r.width, r.height
}

func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.commands = append(r.commands, Command{Op: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) FillPolygon(points []Point, c Color) {
	r.commands = append(r.commands, Command{Op: OpPolygon, Points: slices.Clone(points), Color: c})
}

func (r *Recorder) FillText(x, y float64, text string, c Color) {
	r.commands = append(r.commands, Command{Op: OpText, X: x, Y: y, Text: text, Color: c})
}

// Commands returns the commands recorded since the last Present.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Present passes the recorded frame to the callback. The recorder does not
// touch the passed slice afterwards.
func (r *Recorder) Present() error {
	cmds := r.commands
	r.commands = nil
	if r.present == nil {
		return nil
	}
	return r.present(cmds)
}

// Replay paints recorded commands onto s.
func Replay(s Surface, cmds []Command) {
	for _, c := range cmds {
		switch c.Op {
		case OpRect:
			s.FillRect(c.X, c.Y, c.W, c.H, c.Color)
		case OpPolygon:
			s.FillPolygon(c.Points, c.Color)
		case OpText:
			s.FillText(c.X, c.Y, c.Text, c.Color)
		}
	}
}
