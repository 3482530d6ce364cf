// Package web serves games to browsers over WebSocket.
//
// A browser opens /ws, sends a hello with its canvas size and then streams
// input messages. The server runs one game per connection and sends every
// painted frame as a list of drawing commands.
package web

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/input"
	"github.com/tomz197/spacegame/internal/loop"
	"github.com/tomz197/spacegame/internal/protocol"
)

const (
	readLimit    = 1 << 16
	helloTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeWait    = 10 * time.Second

	// maxCanvas bounds the canvas a client may ask for.
	maxCanvas = 4096
)

// Server is an http.Handler for the WebSocket endpoint.
type Server struct {
	cfg      config.Game
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a handler that starts games with cfg.
func NewServer(cfg config.Game, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			// The game page may be served from another origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("remote", r.RemoteAddr)
	if err := s.serve(r.Context(), conn, logger); err != nil {
		logger.Warn("session ended", "err", err)
		return
	}
	logger.Info("session closed")
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn, logger *log.Logger) error {
	conn.SetReadLimit(readLimit)

	hello, err := readHello(conn)
	if err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	cfg := s.cfg.WithCanvas(canvasSize(hello.Width, s.cfg.Canvas.Width), canvasSize(hello.Height, s.cfg.Canvas.Height))

	welcome, err := protocol.Encode(protocol.MsgWelcome, protocol.Welcome{
		SampleMs: cfg.Frame.SampleInterval.Milliseconds(),
		Width:    cfg.Canvas.Width,
		Height:   cfg.Canvas.Height,
	})
	if err != nil {
		return err
	}
	if err := writeMessage(conn, websocket.TextMessage, welcome); err != nil {
		return fmt.Errorf("welcome: %w", err)
	}
	logger.Info("game starting", "width", cfg.Canvas.Width, "height", cfg.Canvas.Height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	out := make(chan []byte, 8)
	events := make(chan input.Event, 16)

	var seq uint64
	surface := draw.NewRecorder(cfg.Canvas.Width, cfg.Canvas.Height, func(cmds []draw.Command) error {
		seq++
		msg, err := protocol.Encode(protocol.MsgFrame, protocol.Frame{Seq: seq, Commands: cmds})
		if err != nil {
			return err
		}
		select {
		case out <- msg:
		default:
			logger.Debug("client too slow, frame dropped", "seq", seq)
		}
		return nil
	})
	engine := loop.New(loop.Options{
		Config:  cfg,
		Surface: surface,
		Logger:  logger,
		OnOver: func(score int) {
			msg, err := protocol.Encode(protocol.MsgOver, protocol.Over{Score: score})
			if err != nil {
				logger.Error("encode over", "err", err)
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
			}
		},
	})

	g.Go(func() error {
		defer cancel()
		return engine.Run(ctx, events)
	})
	g.Go(func() error {
		defer close(events)
		return readInputs(ctx, conn, events, logger)
	})
	g.Go(func() error {
		return writeLoop(ctx, conn, out)
	})

	err = g.Wait()
	logger.Info("game finished", "score", engine.Score(), "frames", engine.Frames())
	return err
}

func readHello(conn *websocket.Conn) (protocol.Hello, error) {
	_ = conn.SetReadDeadline(time.Now().Add(helloTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return protocol.Hello{}, err
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return protocol.Hello{}, err
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, fmt.Errorf("expected %q, got %q", protocol.MsgHello, env.T)
	}
	return protocol.DecodePayload[protocol.Hello](env)
}

// canvasSize accepts a client dimension within bounds and falls back otherwise.
func canvasSize(v, fallback float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Min(math.Floor(v), maxCanvas)
}

func readInputs(ctx context.Context, conn *websocket.Conn, events chan<- input.Event, logger *log.Logger) error {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		env, err := protocol.DecodeEnvelope(msg)
		if err != nil || env.T != protocol.MsgInput {
			logger.Debug("ignoring message", "type", env.T, "err", err)
			continue
		}
		in, err := protocol.DecodePayload[protocol.Input](env)
		if err != nil {
			logger.Debug("bad input", "err", err)
			continue
		}
		ev, ok := in.Event()
		if !ok {
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// writeLoop is the only writer once the game runs. Closing the connection
// when it returns unblocks the reader.
func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return nil
		case msg := <-out:
			if err := writeMessage(conn, websocket.TextMessage, msg); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		case <-ticker.C:
			if err := writeMessage(conn, websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

func writeMessage(conn *websocket.Conn, kind int, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteMessage(kind, data)
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}
