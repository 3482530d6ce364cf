package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tomz197/spacegame/internal/input"
)

// ErrEmpty is returned when decoding an empty message or payload.
var ErrEmpty = errors.New("empty message")

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %q: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmpty
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w: payload of %q", ErrEmpty, env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// Event converts a client input message to a game event.
func (in Input) Event() (input.Event, bool) {
	switch in.Kind {
	case "move":
		return input.Event{Kind: input.PointerMove, X: in.X, Y: in.Y}, true
	case "click":
		return input.Event{Kind: input.Click, X: in.X, Y: in.Y}, true
	case "key":
		return input.Event{Kind: input.KeyDown, KeyCode: in.KeyCode}, true
	}
	return input.Event{}, false
}
