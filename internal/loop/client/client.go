// Package client runs a game in a terminal: a local one or an SSH session.
package client

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/input"
	"github.com/tomz197/spacegame/internal/loop"
)

// Max render resolution in terminal cells. Larger terminals get a centered,
// framed play area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// sizePollInterval is how often the terminal size is polled when the host
// does not push window changes.
const sizePollInterval = 250 * time.Millisecond

// Size is a terminal size in cells.
type Size struct {
	Cols, Rows int
}

// Options configures the client.
type Options struct {
	Config config.Game
	Logger *log.Logger
	// TermSizeFunc reports the terminal size; defaults to stdout's.
	TermSizeFunc draw.TermSizeFunc
	// Resize, if set, delivers window changes and replaces size polling.
	Resize <-chan Size
	// Profile is used when the configuration does not name a color profile.
	Profile termenv.Profile
	// IdleTimeout ends the game after that long without input. Zero disables it.
	IdleTimeout time.Duration
}

// Client handles rendering and input for a single terminal.
type Client struct {
	reader       io.Reader
	writer       io.Writer
	opts         Options
	logger       *log.Logger
	termSizeFunc draw.TermSizeFunc
}

// NewClient creates a client reading input from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if p, ok := draw.ParseProfile(opts.Config.Render.ColorProfile); ok {
		opts.Profile = p
	}
	return &Client{
		reader:       r,
		writer:       w,
		opts:         opts,
		logger:       logger,
		termSizeFunc: termSizeFunc,
	}
}

// Run plays one game. It blocks until the player quits, the input ends,
// ctx is done or the terminal can no longer be written, and returns the
// final score.
func (c *Client) Run(ctx context.Context) (int, error) {
	cols, rows, err := c.termSizeFunc()
	if err != nil {
		return 0, err
	}
	cfg := c.opts.Config
	term := draw.NewTerminal(c.writer, cols, rows, cfg.Canvas.Width, cfg.Canvas.Height, MaxTermWidth, MaxTermHeight)
	term.SetProfile(c.opts.Profile)

	w := term.Writer()
	draw.HideCursor(w)
	draw.EnableMouse(w)
	defer func() {
		draw.DisableMouse(w)
		draw.ShowCursor(w)
		draw.ClearScreen(w)
		term.Flush()
	}()

	engine := loop.New(loop.Options{
		Config:  cfg,
		Surface: term,
		Logger:  c.logger,
		MapInput: func(ev input.Event) input.Event {
			if ev.Kind == input.PointerMove || ev.Kind == input.Click {
				ev.X, ev.Y = term.TerminalToLogical(int(ev.X), int(ev.Y))
			}
			return ev
		},
	})

	stream := input.StartStream(c.reader)
	defer stream.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	events := make(chan input.Event, 16)

	g.Go(func() error {
		defer cancel()
		return engine.Run(ctx, events)
	})
	g.Go(func() error {
		return c.pumpInput(ctx, stream, events)
	})
	g.Go(func() error {
		return c.watchSize(ctx, Size{Cols: cols, Rows: rows}, events)
	})

	err = g.Wait()
	c.logger.Debug("client finished", "score", engine.Score(), "over", engine.Over(), "err", err)
	return engine.Score(), err
}

// pumpInput forwards decoded input to the engine and ends the game after the
// idle timeout.
func (c *Client) pumpInput(ctx context.Context, stream *input.Stream, events chan<- input.Event) error {
	var idle <-chan time.Time
	var idleTimer *time.Timer
	if c.opts.IdleTimeout > 0 {
		idleTimer = time.NewTimer(c.opts.IdleTimeout)
		defer idleTimer.Stop()
		idle = idleTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-idle:
			c.logger.Info("disconnecting idle player", "after", c.opts.IdleTimeout)
			send(ctx, events, input.Event{Kind: input.Quit})
			return nil
		case ev, ok := <-stream.Events():
			if !ok {
				send(ctx, events, input.Event{Kind: input.Quit})
				return stream.Err()
			}
			if idleTimer != nil {
				idleTimer.Reset(c.opts.IdleTimeout)
			}
			send(ctx, events, ev)
		}
	}
}

// watchSize turns window changes into Resize events.
func (c *Client) watchSize(ctx context.Context, current Size, events chan<- input.Event) error {
	changes := c.opts.Resize
	var poll <-chan time.Time
	if changes == nil {
		ticker := time.NewTicker(sizePollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	for {
		var next Size
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			next = s
		case <-poll:
			cols, rows, err := c.termSizeFunc()
			if err != nil {
				continue
			}
			next = Size{Cols: cols, Rows: rows}
		}
		if next == current {
			continue
		}
		current = next
		send(ctx, events, input.Event{Kind: input.Resize, Width: next.Cols, Height: next.Rows})
	}
}

func send(ctx context.Context, events chan<- input.Event, ev input.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
