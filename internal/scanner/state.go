package scanner

import (
	"errors"
	"fmt"
)

// heredocMarkerLen bounds a heredoc end marker to 31 bytes + NUL in the
// serialized form.
//
const heredocMarkerLen = 32

// Serialized state layout, one byte each plus the marker bytes.
//
const (
	stIgnoreComments = 0
	stPairedSep      = 1
	stMarkerLen      = 2
	stMarker         = 3
)

// ErrBadState is returned when a serialized state buffer is malformed.
//
var ErrBadState = errors.New("scanner: malformed state buffer")

// State is the only mutable entity that survives across scan calls.
// One State belongs to exactly one in-flight parse; concurrent parses
// must each own their own instance.
//
type State struct {
	sep            rune   // paired separator, 0 when unset
	ignoreComments bool   // '"' must not start a comment right now
	marker         []byte // heredoc end marker, empty when not in a heredoc
}

// NewState returns a zeroed scanner state.
//
func NewState() *State {
	return &State{}
}

// InHeredoc reports whether a heredoc end marker is pending.
//
func (s *State) InHeredoc() bool {
	return len(s.marker) > 0
}

// PairedSep returns the recorded separator character, 0 when unset.
//
func (s *State) PairedSep() rune {
	return s.sep
}

func (s *State) setMarker(m []byte) {
	s.marker = append(s.marker[:0], m...)
}

func (s *State) clearMarker() {
	s.marker = s.marker[:0]
}

// MarshalBinary flattens the state to
// [ignoreComments, pairedSep, markerLen, marker...].
//
func (s *State) MarshalBinary() ([]byte, error) {
	if len(s.marker) >= heredocMarkerLen {
		return nil, fmt.Errorf("%w: marker length %d", ErrBadState, len(s.marker))
	}
	buf := make([]byte, stMarker+len(s.marker))
	if s.ignoreComments {
		buf[stIgnoreComments] = 1
	}
	buf[stPairedSep] = byte(s.sep)
	buf[stMarkerLen] = byte(len(s.marker))
	copy(buf[stMarker:], s.marker)
	return buf, nil
}

// UnmarshalBinary restores state serialized by MarshalBinary. An empty
// buffer restores the zero state, mirroring a fresh scanner.
//
func (s *State) UnmarshalBinary(buf []byte) error {
	if len(buf) == 0 {
		s.sep = 0
		s.ignoreComments = false
		s.clearMarker()
		return nil
	}
	if len(buf) < stMarker {
		return fmt.Errorf("%w: %d bytes", ErrBadState, len(buf))
	}
	markerLen := int(buf[stMarkerLen])
	if markerLen >= heredocMarkerLen || stMarker+markerLen != len(buf) {
		return fmt.Errorf("%w: marker length %d in %d bytes", ErrBadState, markerLen, len(buf))
	}
	s.ignoreComments = buf[stIgnoreComments] != 0
	s.sep = rune(buf[stPairedSep])
	s.setMarker(buf[stMarker : stMarker+markerLen])
	return nil
}
