package input

import "testing"

func TestMouseAccumulator(t *testing.T) {
	var m MouseAccumulator
	m.Add(3, -1)
	m.Add(2, 4)

	dx, dy := m.Consume()
	if dx != 5 || dy != 3 {
		t.Errorf("expected (5, 3), got (%g, %g)", dx, dy)
	}

	// Consume resets
	dx, dy = m.Consume()
	if dx != 0 || dy != 0 {
		t.Errorf("expected zero after consume, got (%g, %g)", dx, dy)
	}
}

func TestScript(t *testing.T) {
	s := &Script{Frames: []Snapshot{
		{Forward: 1},
		{JumpPressed: true},
	}}

	if s.Done() {
		t.Fatal("fresh script should not be done")
	}
	if snap := s.Next(); snap.Forward != 1 {
		t.Errorf("first frame wrong: %+v", snap)
	}
	if snap := s.Next(); !snap.JumpPressed {
		t.Errorf("second frame wrong: %+v", snap)
	}
	if !s.Done() {
		t.Error("script should be exhausted")
	}
	if snap := s.Next(); snap != (Snapshot{}) {
		t.Errorf("exhausted script should return zero snapshots, got %+v", snap)
	}
}
