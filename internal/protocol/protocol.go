// Package protocol defines the JSON messages exchanged between the web
// client and the game server.
//
// Every message is an Envelope: a type tag and a raw payload.
package protocol

import (
	"encoding/json"

	"github.com/tomz197/spacegame/internal/draw"
)

const (
	MsgHello   = "hello"
	MsgInput   = "input"
	MsgWelcome = "welcome"
	MsgFrame   = "frame"
	MsgOver    = "over"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// client -> server

// Hello opens a session with the size of the client's canvas.
type Hello struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Input is a pointer or key event. Kind is "move", "click" or "key".
type Input struct {
	Kind    string  `json:"kind"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	KeyCode int     `json:"keyCode,omitempty"`
}

// server -> client

type Welcome struct {
	SampleMs int64   `json:"sampleMs"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Frame carries the drawing commands of one painted frame.
type Frame struct {
	Seq      uint64         `json:"seq"`
	Commands []draw.Command `json:"commands"`
}

// Over announces the end of the game.
type Over struct {
	Score int `json:"score"`
}
