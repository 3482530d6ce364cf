package input

import "strconv"

// Decoder is a byte-level terminal input decoder. Escape sequences split
// across Feed calls are held until complete.
//
// Pointer positions are reported in 1-based terminal cells; callers map them
// to logical coordinates.
type Decoder struct {
	pending []byte
}

// Feed decodes p and returns the complete events it contains.
func (d *Decoder) Feed(p []byte) []Event {
	buf := append(d.pending, p...)
	d.pending = nil

	var events []Event
	for i := 0; i < len(buf); {
		b := buf[i]
		if b != '\x1b' {
			if ev, ok := decodeByte(b); ok {
				events = append(events, ev)
			}
			i++
			continue
		}

		ev, n, complete := decodeEscape(buf[i:])
		if !complete {
			d.pending = append([]byte(nil), buf[i:]...)
			break
		}
		if n > 0 && ev.Kind != 0 {
			events = append(events, ev)
		}
		i += n
	}
	return events
}

// Flush reports a held lone escape byte as an Escape key press. A read that
// ends in a bare ESC is a key press, not the start of a sequence.
func (d *Decoder) Flush() []Event {
	if len(d.pending) == 1 && d.pending[0] == '\x1b' {
		d.pending = d.pending[:0]
		return []Event{{Kind: KeyDown, KeyCode: KeyEscape}}
	}
	return nil
}

func decodeByte(b byte) (Event, bool) {
	switch {
	case b == 'q' || b == 'Q' || b == 0x03:
		return Event{Kind: Quit}, true
	case b == 'a' || b == 'A':
		return Event{Kind: KeyDown, KeyCode: KeyLeft}, true
	case b == 'd' || b == 'D':
		return Event{Kind: KeyDown, KeyCode: KeyRight}, true
	case b == '\r' || b == '\n':
		return Event{Kind: KeyDown, KeyCode: KeyEnter}, true
	case b >= 'a' && b <= 'z':
		return Event{Kind: KeyDown, KeyCode: int(b - 'a' + 'A')}, true
	case b >= ' ' && b <= '~':
		return Event{Kind: KeyDown, KeyCode: int(b)}, true
	}
	return Event{}, false
}

// decodeEscape decodes the escape sequence at the start of buf. It returns
// the event (zero Kind for sequences that carry none), the bytes consumed and
// whether the sequence was complete.
func decodeEscape(buf []byte) (Event, int, bool) {
	if len(buf) < 2 {
		return Event{}, 0, false
	}
	if buf[1] != '[' && buf[1] != 'O' {
		return Event{Kind: KeyDown, KeyCode: KeyEscape}, 1, true
	}
	if len(buf) < 3 {
		return Event{}, 0, false
	}
	switch buf[2] {
	case 'C':
		return Event{Kind: KeyDown, KeyCode: KeyRight}, 3, true
	case 'D':
		return Event{Kind: KeyDown, KeyCode: KeyLeft}, 3, true
	case '<':
		if buf[1] == '[' {
			return decodeSGRMouse(buf)
		}
	}
	// Skip any other CSI sequence up to its final byte.
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return Event{}, i + 1, true
		}
	}
	return Event{}, 0, false
}

// decodeSGRMouse decodes ESC [ < button ; col ; row (M|m).
func decodeSGRMouse(buf []byte) (Event, int, bool) {
	end := -1
	for i := 3; i < len(buf); i++ {
		if buf[i] == 'M' || buf[i] == 'm' {
			end = i
			break
		}
		if (buf[i] < '0' || buf[i] > '9') && buf[i] != ';' {
			return Event{}, i + 1, true
		}
	}
	if end < 0 {
		return Event{}, 0, false
	}

	fields := splitFields(buf[3:end])
	if len(fields) != 3 {
		return Event{}, end + 1, true
	}
	button, col, row := fields[0], fields[1], fields[2]
	ev := Event{X: float64(col), Y: float64(row)}
	switch {
	case button&64 != 0:
		// wheel
		return Event{}, end + 1, true
	case button&32 != 0:
		ev.Kind = PointerMove
	case buf[end] == 'M' && button&3 == 0:
		ev.Kind = Click
	default:
		return Event{}, end + 1, true
	}
	return ev, end + 1, true
}

func splitFields(b []byte) []int {
	var out []int
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == ';' {
			n, err := strconv.Atoi(string(b[start:i]))
			if err != nil {
				return nil
			}
			out = append(out, n)
			start = i + 1
		}
	}
	return out
}
