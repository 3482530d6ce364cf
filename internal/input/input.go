// Package input turns raw player input into game events.
//
// Every front end produces Events: the terminal hosts decode them from the
// byte stream with a Decoder, the web host from JSON messages and the desktop
// host from ebiten's input state.
package input

import (
	"io"
	"sync"
)

// Kind identifies an event.
type Kind int

const (
	PointerMove Kind = iota + 1
	Click
	KeyDown
	Resize
	Quit
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case Click:
		return "click"
	case KeyDown:
		return "key"
	case Resize:
		return "resize"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Key codes, numbered like browser keyCodes.
const (
	KeyEnter  = 13
	KeyEscape = 27
	KeySpace  = 32
	KeyLeft   = 37
	KeyRight  = 39
)

// Event is a single player action.
//
// X and Y carry the pointer position of PointerMove and Click events. Width
// and Height carry the new output size of Resize events.
type Event struct {
	Kind    Kind
	X, Y    float64
	KeyCode int
	Width   int
	Height  int
}

// Stream decodes terminal input on a background goroutine and delivers the
// events on a channel.
type Stream struct {
	ch   chan Event
	stop chan struct{}
	once sync.Once
	mu   sync.Mutex
	err  error
}

// StartStream spawns a goroutine that reads from r until it fails.
// The events channel is closed when reading stops.
func StartStream(r io.Reader) *Stream {
	s := &Stream{
		ch:   make(chan Event, 128),
		stop: make(chan struct{}),
	}
	go s.run(r)
	return s
}

func (s *Stream) run(r io.Reader) {
	defer close(s.ch)
	var dec Decoder
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		events := append(dec.Feed(buf[:n]), dec.Flush()...)
		for _, ev := range events {
			select {
			case s.ch <- ev:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}
	}
}

// Events returns the decoded events.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Err returns the read error that ended the stream, if any. EOF is not an error.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops delivering events. A goroutine blocked in Read exits after its
// next read returns.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.stop) })
}
