// Package input turns the raw terminal byte stream into key and pointer
// events.
package input

import (
	"bufio"
	"io"
	"strconv"
)

// EventType distinguishes key presses from pointer activity.
type EventType int

const (
	EventKey EventType = iota
	EventPointerDown
	EventPointerMove
	EventPointerUp
)

// Control keys delivered as EventKey.
const (
	KeyCtrlC  = 0x03
	KeyTab    = '\t'
	KeyEnter  = '\r'
	KeyEscape = 0x1b
)

// Event is one decoded input. Col and Row are 1-based terminal cells and
// only set for pointer events.
type Event struct {
	Type EventType
	Key  byte
	Col  int
	Row  int
}

// Input is everything that arrived since the previous read.
type Input struct {
	Events []Event
	Closed bool // The underlying reader is exhausted
}

// Stream delivers input bytes via a channel. Escape sequences split across
// reads are kept until the rest arrives.
type Stream struct {
	ch      chan byte
	pending []byte
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// decodes them.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	events, rest := Parse(buf)
	if s.closed {
		// nothing more is coming; a dangling ESC is a key press
		for _, b := range rest {
			events = append(events, Event{Type: EventKey, Key: b})
		}
		rest = nil
	}
	s.pending = append(s.pending[:0], rest...)
	return Input{Events: events, Closed: s.closed}
}

// Parse decodes buf into events. Bytes that may start an unfinished escape
// sequence are returned as rest.
func Parse(buf []byte) (events []Event, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]
		if b != KeyEscape {
			events = append(events, Event{Type: EventKey, Key: b})
			i++
			continue
		}

		if i+1 >= len(buf) {
			return events, buf[i:]
		}
		if buf[i+1] != '[' {
			events = append(events, Event{Type: EventKey, Key: KeyEscape})
			i++
			continue
		}

		end := csiEnd(buf, i+2)
		if end < 0 {
			return events, buf[i:]
		}
		if ev, ok := parseMouse(buf[i+2 : end+1]); ok {
			events = append(events, ev)
		}
		i = end + 1
	}
	return events, nil
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at from, or -1 if the sequence is incomplete.
func csiEnd(buf []byte, from int) int {
	for j := from; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e && !(j == from && buf[j] == '<') {
			return j
		}
	}
	return -1
}

// parseMouse decodes an SGR mouse report body: "<b;col;row" followed by
// M (press or motion) or m (release). Wheel and non-primary buttons are
// ignored.
func parseMouse(seq []byte) (Event, bool) {
	if len(seq) < 2 || seq[0] != '<' {
		return Event{}, false
	}
	final := seq[len(seq)-1]
	if final != 'M' && final != 'm' {
		return Event{}, false
	}

	var fields [3]int
	n := 0
	start := 1
	for j := 1; j <= len(seq)-1; j++ {
		if j < len(seq)-1 && seq[j] != ';' {
			continue
		}
		if n == len(fields) {
			return Event{}, false
		}
		v, err := strconv.Atoi(string(seq[start:j]))
		if err != nil {
			return Event{}, false
		}
		fields[n] = v
		n++
		start = j + 1
	}
	if n != len(fields) {
		return Event{}, false
	}

	code, col, row := fields[0], fields[1], fields[2]
	if code&64 != 0 {
		return Event{}, false // wheel
	}
	button := code & 3
	motion := code&32 != 0

	ev := Event{Col: col, Row: row}
	switch {
	case final == 'm':
		if button != 0 {
			return Event{}, false
		}
		ev.Type = EventPointerUp
	case motion:
		ev.Type = EventPointerMove
	case button == 0:
		ev.Type = EventPointerDown
	default:
		return Event{}, false
	}
	return ev, true
}
