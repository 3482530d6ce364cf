package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/loop/client"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleTimeout = 5 * time.Minute
	shutdownGrace      = 15 * time.Second
)

// games tracks running sessions so shutdown can wait for them.
type games struct {
	cfg     config.Game
	logger  *log.Logger
	idle    time.Duration
	ctx     context.Context
	wg      sync.WaitGroup
	running int
	mu      sync.Mutex
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, config.GetEnv("SPACEGAME_LOG_LEVEL", "info"), "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idle := defaultIdleTimeout
	if v := config.GetEnv("SSH_IDLE_SECONDS", ""); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("invalid SSH_IDLE_SECONDS", "value", v, "err", err)
		}
		idle = time.Duration(secs) * time.Second
	}

	cfg, err := config.Load(config.GetEnv("SPACEGAME_CONFIG", "spacegame.toml"))
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "idle", idle)

	gamesCtx, stopGames := context.WithCancel(context.Background())
	defer stopGames()
	g := &games{cfg: cfg, logger: logger, idle: idle, ctx: gamesCtx}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down", "players", g.count())

	stopGames()
	g.wait(shutdownGrace)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// middleware runs one game per PTY session.
func (g *games) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.mu.Lock()
		g.running++
		g.mu.Unlock()
		g.wg.Add(1)
		defer func() {
			g.mu.Lock()
			g.running--
			g.mu.Unlock()
			g.wg.Done()
		}()

		logger := g.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "terminal", pty.Term, "cols", pty.Window.Width, "rows", pty.Window.Height)

		ctx, cancel := context.WithCancel(g.ctx)
		defer cancel()
		stopAfter := context.AfterFunc(sess.Context(), cancel)
		defer stopAfter()

		tracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		resize := make(chan client.Size, 1)
		go tracker.follow(ctx, winCh, resize)

		c := client.NewClient(sess, sess, client.Options{
			Config:       g.cfg,
			Logger:       logger,
			TermSizeFunc: tracker.getSize,
			Resize:       resize,
			Profile:      profileFor(pty.Term),
			IdleTimeout:  g.idle,
		})
		score, err := c.Run(ctx)
		if err != nil {
			logger.Warn("game error", "err", err)
		}
		if g.ctx.Err() != nil {
			fmt.Fprintln(sess, "Server is shutting down. Thanks for playing!")
		}
		fmt.Fprintf(sess, "Final score: %d\n", score)
		logger.Info("session ended", "score", score)
		next(sess)
	}
}

func (g *games) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// wait blocks until every session has ended or the grace period passes.
func (g *games) wait(grace time.Duration) {
	finished := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(grace):
		g.logger.Warn("sessions still open after grace period", "players", g.count())
	}
}

// profileFor picks a color profile from the client's TERM.
func profileFor(term string) termenv.Profile {
	switch term {
	case "xterm-256color", "screen-256color", "tmux-256color":
		return termenv.ANSI256
	case "xterm-kitty", "alacritty", "wezterm", "xterm-direct":
		return termenv.TrueColor
	case "dumb", "":
		return termenv.Ascii
	default:
		return termenv.ANSI
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

// follow records window changes and forwards the latest one to the client.
func (s *sizeTracker) follow(ctx context.Context, winCh <-chan ssh.Window, out chan client.Size) {
	for {
		select {
		case <-ctx.Done():
			return
		case win, ok := <-winCh:
			if !ok {
				return
			}
			s.update(win.Width, win.Height)
			size := client.Size{Cols: win.Width, Rows: win.Height}
			select {
			case out <- size:
			default:
				// Replace a stale pending size.
				select {
				case <-out:
				default:
				}
				out <- size
			}
		}
	}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
