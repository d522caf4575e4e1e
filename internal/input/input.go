// Package input defines the per-frame input contract consumed by the
// simulation core. Raw device event capture lives outside the core; only
// derived snapshots cross this boundary.
package input

// Snapshot is the per-frame input state. JumpPressed is an edge: true
// only on the frame the jump control went down.
type Snapshot struct {
	Forward     float32 // -1..1, positive away from the camera
	Right       float32 // -1..1
	RunHeld     bool
	JumpPressed bool
	JumpHeld    bool
}

// MouseAccumulator collects continuous mouse deltas between frames for
// camera yaw/pitch.
type MouseAccumulator struct {
	dx, dy float32
}

// Add accumulates a device delta.
func (m *MouseAccumulator) Add(dx, dy float32) {
	m.dx += dx
	m.dy += dy
}

// Consume returns the accumulated deltas and resets them.
func (m *MouseAccumulator) Consume() (dx, dy float32) {
	dx, dy = m.dx, m.dy
	m.dx, m.dy = 0, 0
	return dx, dy
}

// Script replays a fixed sequence of snapshots, one per frame. Used by
// the headless runner and controller tests.
type Script struct {
	Frames []Snapshot
	pos    int
}

// Next returns the next scripted snapshot, or the zero snapshot once the
// script is exhausted.
func (s *Script) Next() Snapshot {
	if s.pos >= len(s.Frames) {
		return Snapshot{}
	}
	snap := s.Frames[s.pos]
	s.pos++
	return snap
}

// Done reports whether the script is exhausted.
func (s *Script) Done() bool {
	return s.pos >= len(s.Frames)
}
