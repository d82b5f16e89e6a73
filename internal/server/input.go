package server

import (
	"strconv"
	"unicode/utf8"
)

// EventKind distinguishes the input events a terminal can send.
type EventKind int

const (
	EventKey EventKind = iota
	EventEnter
	EventBackspace
	EventEscape
	EventMouse
)

// Mouse button codes after modifier bits are stripped.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
	ButtonNone   = 3
)

// SGR mouse report flags.
const (
	mouseMeta   = 8
	mouseCtrl   = 16
	mouseMotion = 32
	mouseWheel  = 64
)

// Event is one decoded unit of terminal input.
type Event struct {
	Kind EventKind

	// Key events.
	Key  rune
	Ctrl bool
	Meta bool

	// Mouse events. Col and Row are 1-based terminal cells.
	Button  int
	Col     int
	Row     int
	Motion  bool
	Release bool
	Wheel   int // +1 wheel up, -1 wheel down
}

// maxPending bounds how many bytes of an unfinished sequence are carried
// between reads; anything longer is garbage and dropped.
const maxPending = 64

// inputDecoder turns a stream of terminal reads into events. A sequence cut
// off at the end of one read is kept and completed by the next.
type inputDecoder struct {
	pending []byte
}

// Feed decodes data following whatever was left over from the previous
// call. full reports that the read filled its buffer, so a trailing lone
// ESC is probably the start of a sequence rather than the Escape key.
func (d *inputDecoder) Feed(data []byte, full bool) []Event {
	buf := append(d.pending, data...)
	events, n := scanInput(buf, true, full)
	rest := buf[n:]
	if len(rest) > maxPending {
		rest = nil
	}
	d.pending = append([]byte(nil), rest...)
	return events
}

// parseInput decodes a complete chunk of raw terminal bytes. It
// understands SGR (1006) mouse reports, Ctrl chords sent as control bytes,
// and Alt/Option chords sent as an ESC prefix.
func parseInput(data []byte) []Event {
	events, _ := scanInput(data, false, false)
	return events
}

// scanInput decodes events from data and returns how many bytes it
// consumed. With hold set, an unfinished escape sequence or UTF-8 rune at
// the end is left unconsumed; holdEsc does the same for a lone trailing ESC.
func scanInput(data []byte, hold, holdEsc bool) ([]Event, int) {
	var events []Event
	i := 0
	for i < len(data) {
		b := data[i]

		if b == 0x1b {
			if i+1 == len(data) {
				if holdEsc {
					return events, i
				}
				events = append(events, Event{Kind: EventEscape})
				i++
				continue
			}

			// CSI/SS3 sequences run up to a final byte in 0x40..0x7e.
			if data[i+1] == '[' || data[i+1] == 'O' {
				end := i + 2
				for end < len(data) && (data[end] < 0x40 || data[end] > 0x7e) {
					end++
				}
				if end == len(data) {
					if hold {
						return events, i
					}
					i = end
					continue
				}
				// SGR mouse: ESC [ < b ; x ; y (M|m)
				if data[i+1] == '[' && i+2 < end && data[i+2] == '<' {
					if ev, n, ok := parseSGRMouse(data[i+3 : end+1]); ok && i+3+n == end+1 {
						events = append(events, ev)
					}
				}
				// Other sequences (arrows, function keys) are skipped.
				i = end + 1
				continue
			}

			// ESC + key is how terminals send Alt/Option chords.
			if data[i+1] >= 0x20 && data[i+1] < 0x7f {
				events = append(events, Event{Kind: EventKey, Key: rune(data[i+1]), Meta: true})
				i += 2
				continue
			}
			events = append(events, Event{Kind: EventEscape})
			i++
			continue
		}

		switch {
		case b == '\r' || b == '\n':
			events = append(events, Event{Kind: EventEnter})
			i++
			continue
		case b == 0x7f || b == 0x08:
			events = append(events, Event{Kind: EventBackspace})
			i++
			continue
		case b >= 0x01 && b <= 0x1a:
			// Ctrl-A .. Ctrl-Z
			events = append(events, Event{Kind: EventKey, Key: rune('a' + b - 1), Ctrl: true})
			i++
			continue
		case b < 0x20:
			i++
			continue
		}

		if hold && !utf8.FullRune(data[i:]) {
			return events, i
		}
		r, size := utf8.DecodeRune(data[i:])
		events = append(events, Event{Kind: EventKey, Key: r})
		i += size
	}
	return events, i
}

// parseSGRMouse decodes "b;x;yM" or "b;x;ym" from the start of data and
// returns the number of bytes consumed.
func parseSGRMouse(data []byte) (Event, int, bool) {
	var fields [3]int
	field, start := 0, 0
	for n := 0; n < len(data); n++ {
		c := data[n]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' && field < 2:
			v, err := strconv.Atoi(string(data[start:n]))
			if err != nil {
				return Event{}, 0, false
			}
			fields[field] = v
			field++
			start = n + 1
		case (c == 'M' || c == 'm') && field == 2:
			v, err := strconv.Atoi(string(data[start:n]))
			if err != nil {
				return Event{}, 0, false
			}
			fields[2] = v
			return mouseEvent(fields[0], fields[1], fields[2], c == 'm'), n + 1, true
		default:
			return Event{}, 0, false
		}
	}
	return Event{}, 0, false
}

func mouseEvent(code, col, row int, release bool) Event {
	ev := Event{
		Kind:    EventMouse,
		Button:  code & 3,
		Col:     col,
		Row:     row,
		Motion:  code&mouseMotion != 0,
		Release: release,
		Ctrl:    code&mouseCtrl != 0,
		Meta:    code&mouseMeta != 0,
	}
	if code&mouseWheel != 0 {
		if ev.Button == 0 {
			ev.Wheel = 1
		} else {
			ev.Wheel = -1
		}
		ev.Button = ButtonNone
	}
	return ev
}
