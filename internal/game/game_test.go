package game

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/fellwander/internal/config"
	"github.com/Faultbox/fellwander/internal/input"
	"github.com/Faultbox/fellwander/internal/physics"
	"github.com/Faultbox/fellwander/pkg/math"
)

// testConfig shrinks the world so tests build in milliseconds.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 200
	cfg.World.Depth = 200
	cfg.World.GridSize = 65
	cfg.World.MaxHeight = 20
	cfg.World.BorderWidth = 30
	cfg.World.BorderHeight = 25
	cfg.Placement.Trees = 40
	cfg.Placement.Rocks = 15
	cfg.Placement.Berries = 12
	cfg.Placement.BerryClusterMin = 3
	cfg.Placement.BerryClusterMax = 5
	cfg.Placement.SpawnClear = 8
	cfg.Placement.GoalSpawnClear = 60
	return cfg
}

func TestWorldBuilds(t *testing.T) {
	w, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}

	if len(w.trees.Instances()) == 0 || len(w.rocks.Instances()) == 0 {
		t.Error("expected scenery placements")
	}
	if w.berries.Count() == 0 {
		t.Error("expected berry placements")
	}

	// Player spawns standing on the terrain at the origin
	pos := w.Player().Position()
	ground := w.Terrain().HeightAt(0, 0)
	if pos.Y < ground {
		t.Errorf("player spawned below terrain: y=%g, ground=%g", pos.Y, ground)
	}
	if pos.XZ().Length() > 0.01 {
		t.Errorf("player should spawn at the origin, got %+v", pos)
	}

	// Every collider is accounted for: terrain, scenery, goal, capsule
	want := 1 + len(w.trees.Instances()) + len(w.rocks.Instances()) + len(w.goal.Instances()) + 1
	if got := w.physics.ColliderCount(); got != want {
		t.Errorf("expected %d colliders, got %d", want, got)
	}
}

func TestWorldDeterminism(t *testing.T) {
	a, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}
	b, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}

	ta, tb := a.trees.Instances(), b.trees.Instances()
	if len(ta) != len(tb) {
		t.Fatalf("tree counts differ: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Fatalf("tree %d differs between identical seeds", i)
		}
	}

	salted := testConfig()
	salted.World.SessionSalt = 99
	c, err := NewWorld(salted)
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}
	tc := c.trees.Instances()
	if len(tc) == len(ta) && len(ta) > 0 && tc[0] == ta[0] {
		t.Error("session salt did not vary the layout")
	}
}

func TestUpdateMovesPlayer(t *testing.T) {
	w, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}

	start := w.Player().Position()
	for i := 0; i < 180; i++ {
		w.Update(physics.FixedStep, input.Snapshot{Forward: 1})
	}
	moved := w.Player().Position().WithY(0).Sub(start.WithY(0)).Length()
	if moved < 1 {
		t.Errorf("player barely moved: %g units in 3 seconds", moved)
	}
	if w.Elapsed() < 2.9 || w.Elapsed() > 3.1 {
		t.Errorf("elapsed time off: %g", w.Elapsed())
	}
}

func TestBerryPickup(t *testing.T) {
	w, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}

	berry, ok := w.berries.NearestUncollected(math.Vec3{})
	if !ok {
		t.Fatal("no berries placed")
	}
	w.Player().Teleport(math.Vec3{X: berry.X, Y: berry.Y + 0.9, Z: berry.Z})
	w.Update(physics.FixedStep, input.Snapshot{})

	if w.Collected() == 0 {
		t.Error("standing on a berry did not collect it")
	}
	if w.berries.Remaining() >= w.berries.Count() {
		t.Error("remaining count did not drop")
	}
}

func TestGoalCelebrationFreezesMovement(t *testing.T) {
	w, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}
	if len(w.goal.Instances()) == 0 {
		t.Skip("goal placement unsatisfiable on this terrain")
	}

	g := w.goalPos
	w.Player().Teleport(math.Vec3{X: g.X, Y: w.Terrain().HeightAt(g.X, g.Z) + 1, Z: g.Z + 1})
	w.Update(physics.FixedStep, input.Snapshot{})

	if !w.GoalReached() {
		t.Fatal("reaching the goal was not detected")
	}
	if !w.Player().Celebrating() {
		t.Error("goal arrival should start the celebration")
	}

	// Movement input is ignored while celebrating
	for i := 0; i < 120; i++ {
		w.Update(physics.FixedStep, input.Snapshot{Forward: 1, RunHeld: true})
	}
	v := w.Player().Velocity().WithY(0)
	if v.Length() > 0.3 {
		t.Errorf("celebrating player still steerable: horizontal speed %g", v.Length())
	}
}

func TestReset(t *testing.T) {
	w, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}
	var firstTrees []float32
	for _, inst := range w.trees.Instances() {
		firstTrees = append(firstTrees, inst.Position.X, inst.Position.Z)
	}

	if err := w.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	// The rebuilt world is fully populated again, with no leaked handles
	want := 1 + len(w.trees.Instances()) + len(w.rocks.Instances()) + len(w.goal.Instances()) + 1
	if got := w.physics.ColliderCount(); got != want {
		t.Errorf("expected %d colliders after reset, got %d", want, got)
	}

	// A reset derives a fresh seed, so the layout changes
	same := len(firstTrees) == 2*len(w.trees.Instances())
	if same {
		for i, inst := range w.trees.Instances() {
			if firstTrees[2*i] != inst.Position.X || firstTrees[2*i+1] != inst.Position.Z {
				same = false
				break
			}
		}
	}
	if same && len(firstTrees) > 0 {
		t.Error("reset reproduced the identical layout")
	}

	if w.Collected() != 0 || w.GoalReached() || w.Elapsed() != 0 {
		t.Error("reset did not clear progress state")
	}
}

func TestFrameSnapshot(t *testing.T) {
	w, err := NewWorld(testConfig())
	if err != nil {
		t.Fatalf("world build failed: %v", err)
	}
	w.Update(physics.FixedStep, input.Snapshot{})

	f := w.Frame()
	if len(f.TerrainPositions) == 0 || len(f.TerrainIndices) == 0 {
		t.Error("frame missing terrain mesh")
	}
	if len(f.Berries) != w.berries.Count() {
		t.Errorf("frame has %d berries, world has %d", len(f.Berries), w.berries.Count())
	}
	for i, b := range f.Berries {
		if !b.Collected && b.Scale <= 0 {
			t.Errorf("uncollected berry %d has scale %g", i, b.Scale)
		}
	}
	if gomath.IsNaN(float64(f.CameraPosition.X)) {
		t.Error("camera position is NaN")
	}
}
