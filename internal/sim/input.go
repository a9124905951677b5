package sim

import (
	"sync"

	"github.com/bft-labs/robocore/pkg/opmode"
)

// Frame is one pair of gamepad snapshots.
type Frame [2]opmode.Gamepad

// Script replays frames, one per Gamepads call, then holds the last frame.
type Script struct {
	mu     sync.Mutex
	frames []Frame
	next   int
}

// NewScript creates a script. With no frames it reports idle gamepads.
func NewScript(frames ...Frame) *Script {
	return &Script{frames: frames}
}

// Gamepads returns the next frame.
func (s *Script) Gamepads() (opmode.Gamepad, opmode.Gamepad) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return opmode.Gamepad{ID: 1}, opmode.Gamepad{ID: 2}
	}
	f := s.frames[s.next]
	if s.next < len(s.frames)-1 {
		s.next++
	}
	return f[0], f[1]
}

// Hold returns n copies of f, for building scripts.
func Hold(f Frame, n int) []Frame {
	out := make([]Frame, n)
	for i := range out {
		out[i] = f
	}
	return out
}
