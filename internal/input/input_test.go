package input

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func TestDecodeKeys(t *testing.T) {
	var d Decoder
	got := d.Feed([]byte(" \x1b[D\x1b[Cadx\r"))
	want := []Event{
		{Kind: KeyDown, KeyCode: KeySpace},
		{Kind: KeyDown, KeyCode: KeyLeft},
		{Kind: KeyDown, KeyCode: KeyRight},
		{Kind: KeyDown, KeyCode: KeyLeft},
		{Kind: KeyDown, KeyCode: KeyRight},
		{Kind: KeyDown, KeyCode: 'X'},
		{Kind: KeyDown, KeyCode: KeyEnter},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeQuit(t *testing.T) {
	for _, b := range []byte{'q', 'Q', 0x03} {
		var d Decoder
		got := d.Feed([]byte{b})
		if len(got) != 1 || got[0].Kind != Quit {
			t.Fatalf("byte %q gave %v", b, got)
		}
	}
}

func TestDecodeMouse(t *testing.T) {
	var d Decoder
	got := d.Feed([]byte("\x1b[<35;10;5M\x1b[<0;12;6M\x1b[<0;12;6m\x1b[<64;1;1M"))
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0] != (Event{Kind: PointerMove, X: 10, Y: 5}) {
		t.Fatalf("move = %+v", got[0])
	}
	if got[1] != (Event{Kind: Click, X: 12, Y: 6}) {
		t.Fatalf("click = %+v", got[1])
	}
}

func TestDecodeSplitSequence(t *testing.T) {
	var d Decoder
	if got := d.Feed([]byte("\x1b[<35;1")); len(got) != 0 {
		t.Fatalf("partial sequence produced %v", got)
	}
	got := d.Feed([]byte("0;5M "))
	if len(got) != 2 || got[0] != (Event{Kind: PointerMove, X: 10, Y: 5}) || got[1].KeyCode != KeySpace {
		t.Fatalf("got %v", got)
	}
}

func TestFlushLoneEscape(t *testing.T) {
	var d Decoder
	if got := d.Feed([]byte{0x1b}); len(got) != 0 {
		t.Fatalf("lone escape decoded early: %v", got)
	}
	got := d.Flush()
	if len(got) != 1 || got[0].KeyCode != KeyEscape {
		t.Fatalf("Flush = %v", got)
	}
	if got := d.Flush(); got != nil {
		t.Fatalf("second Flush = %v", got)
	}
}

func TestStreamDeliversEventsAndCloses(t *testing.T) {
	s := StartStream(bytes.NewReader([]byte(" q")))
	var got []Event
	timeout := time.After(time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				if len(got) != 2 || got[0].KeyCode != KeySpace || got[1].Kind != Quit {
					t.Fatalf("got %v", got)
				}
				if s.Err() != nil {
					t.Fatalf("Err() = %v on EOF", s.Err())
				}
				return
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestStreamRecordsReadError(t *testing.T) {
	s := StartStream(failingReader{})
	for range s.Events() {
	}
	if s.Err() == nil || errors.Is(s.Err(), io.EOF) {
		t.Fatalf("Err() = %v", s.Err())
	}
}
