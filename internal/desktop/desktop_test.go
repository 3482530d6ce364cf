package desktop

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/input"
)

func TestNewWindowHoldsStartScreen(t *testing.T) {
	w := New(config.Default(), log.New(io.Discard))
	cmds := w.Latest()
	if len(cmds) != 2 {
		t.Fatalf("start screen has %d commands", len(cmds))
	}
	if cmds[1].Op != draw.OpText || cmds[1].Text != "Click or Press Key to play" {
		t.Fatalf("prompt = %+v", cmds[1])
	}
	if gw, gh := w.Layout(1920, 1080); gw != 800 || gh != 600 {
		t.Fatalf("Layout = %dx%d", gw, gh)
	}
}

func TestStoreReplacesFrame(t *testing.T) {
	w := New(config.Default(), log.New(io.Discard))
	frame := []draw.Command{{Op: draw.OpRect, W: 1, H: 1, Color: draw.Red}}
	if err := w.store(frame); err != nil {
		t.Fatal(err)
	}
	if got := w.Latest(); len(got) != 1 || got[0].Color != draw.Red {
		t.Fatalf("Latest = %+v", got)
	}
}

func TestInputStateEvents(t *testing.T) {
	evs := inputState{moved: true, x: 10, y: 20, click: true, left: true}.events()
	if len(evs) != 3 {
		t.Fatalf("events = %+v", evs)
	}
	if evs[0].Kind != input.PointerMove || evs[0].X != 10 || evs[0].Y != 20 {
		t.Fatalf("first event = %+v", evs[0])
	}
	if evs[1].Kind != input.Click {
		t.Fatalf("second event = %+v", evs[1])
	}
	if evs[2].Kind != input.KeyDown || evs[2].KeyCode != input.KeyLeft {
		t.Fatalf("third event = %+v", evs[2])
	}
}

func TestInputStateQuitWins(t *testing.T) {
	evs := inputState{closing: true, click: true, space: true}.events()
	if len(evs) != 1 || evs[0].Kind != input.Quit {
		t.Fatalf("events = %+v", evs)
	}
	if evs := (inputState{}).events(); len(evs) != 0 {
		t.Fatalf("idle tick produced %+v", evs)
	}
}
