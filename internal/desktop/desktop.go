// Package desktop runs a game in a native window.
//
// The engine paints into a draw.Recorder on its own goroutine; the window
// replays the latest recorded frame on every ebiten Draw call.
package desktop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/input"
	"github.com/tomz197/spacegame/internal/loop"
)

// Title is the window title.
const Title = "Space Game"

// Window is an ebiten.Game hosting one engine.
type Window struct {
	cfg    config.Game
	logger *log.Logger

	frame  atomic.Pointer[[]draw.Command]
	events chan input.Event
	done   chan struct{}

	engine  *loop.Engine
	surface *imageSurface
	lastX   int
	lastY   int

	mu    sync.Mutex
	err   error
	score int
}

// New creates a window for a game with cfg. Run starts it.
func New(cfg config.Game, logger *log.Logger) *Window {
	if logger == nil {
		logger = log.Default()
	}
	w := &Window{
		cfg:    cfg.Normalize(),
		logger: logger,
		events: make(chan input.Event, 32),
		done:   make(chan struct{}),
		lastX:  -1,
		lastY:  -1,
	}
	w.engine = loop.New(loop.Options{
		Config:  w.cfg,
		Surface: draw.NewRecorder(w.cfg.Canvas.Width, w.cfg.Canvas.Height, w.store),
		Logger:  logger,
		OnOver:  func(score int) {
			w.logger.Info("game over", "score", score)
		},
	})
	return w
}

func (w *Window) store(cmds []draw.Command) error {
	w.frame.Store(&cmds)
	return nil
}

// Latest returns the most recently presented frame.
func (w *Window) Latest() []draw.Command {
	if p := w.frame.Load(); p != nil {
		return *p
	}
	return nil
}

// Run opens the window and blocks until it is closed or ctx is done.
// It returns the final score.
func (w *Window) Run(ctx context.Context) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer close(w.done)
		err := w.engine.Run(ctx, w.events)
		w.mu.Lock()
		w.err = err
		w.score = w.engine.Score()
		w.mu.Unlock()
	}()

	ebiten.SetWindowSize(int(w.cfg.Canvas.Width), int(w.cfg.Canvas.Height))
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(w)
	cancel()
	<-w.done
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err == nil {
		err = w.err
	}
	return w.score, err
}

// Update forwards input to the engine.
func (w *Window) Update() error {
	select {
	case <-w.done:
		return ebiten.Termination
	default:
	}

	x, y := ebiten.CursorPosition()
	st := inputState{
		closing: ebiten.IsWindowBeingClosed(),
		quitKey: inpututil.IsKeyJustPressed(ebiten.KeyQ),
		moved:   x != w.lastX || y != w.lastY,
		x:       x,
		y:       y,
		click:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		space:   inpututil.IsKeyJustPressed(ebiten.KeySpace),
		left:    inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA),
		right:   inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD),
		enter:   inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		escape:  inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	w.lastX, w.lastY = x, y

	for _, ev := range st.events() {
		select {
		case w.events <- ev:
		default:
			w.logger.Debug("input dropped", "kind", ev.Kind)
		}
	}
	return nil
}

// Draw replays the latest frame.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.surface == nil {
		w.surface = newImageSurface(w.cfg.Canvas.Width, w.cfg.Canvas.Height)
	}
	w.surface.target = screen
	draw.Replay(w.surface, w.Latest())
}

// Layout keeps the logical canvas size; ebiten scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return int(w.cfg.Canvas.Width), int(w.cfg.Canvas.Height)
}

// inputState is one tick's worth of polled input.
type inputState struct {
	closing bool
	quitKey bool
	moved   bool
	x, y    int
	click   bool
	space   bool
	left    bool
	right   bool
	enter   bool
	escape  bool
}

// events turns polled input into engine events. A pointer move comes before
// a click so a shot fires from where the cursor is.
func (st inputState) events() []input.Event {
	if st.closing || st.quitKey {
		return []input.Event{{Kind: input.Quit}}
	}
	var evs []input.Event
	if st.moved {
		evs = append(evs, input.Event{Kind: input.PointerMove, X: float64(st.x), Y: float64(st.y)})
	}
	if st.click {
		evs = append(evs, input.Event{Kind: input.Click, X: float64(st.x), Y: float64(st.y)})
	}
	keys := []struct {
		pressed bool
		code    int
	}{
		{st.space, input.KeySpace},
		{st.left, input.KeyLeft},
		{st.right, input.KeyRight},
		{st.enter, input.KeyEnter},
		{st.escape, input.KeyEscape},
	}
	for _, k := range keys {
		if k.pressed {
			evs = append(evs, input.Event{Kind: input.KeyDown, KeyCode: k.code})
		}
	}
	return evs
}
