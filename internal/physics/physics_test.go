package physics

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/fellwander/pkg/math"
)

// flatFloor builds a two-triangle quad at y=0 spanning [-size, size] in X
// and Z.
func flatFloor(t *testing.T, size float32) Shape {
	t.Helper()
	positions := []float32{
		-size, 0, -size,
		size, 0, -size,
		size, 0, size,
		-size, 0, size,
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	shape, err := TriangleMesh(positions, indices)
	if err != nil {
		t.Fatalf("failed to build floor mesh: %v", err)
	}
	return shape
}

func TestTriangleMeshValidation(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}

	if _, err := TriangleMesh(positions, nil); err == nil {
		t.Error("expected error for missing index buffer")
	}
	if _, err := TriangleMesh(positions, []uint32{0, 1}); err == nil {
		t.Error("expected error for truncated index buffer")
	}
	if _, err := TriangleMesh(positions, []uint32{0, 1, 7}); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := TriangleMesh(nil, []uint32{0, 1, 2}); err == nil {
		t.Error("expected error for empty position buffer")
	}
	if _, err := TriangleMesh(positions, []uint32{0, 1, 2}); err != nil {
		t.Errorf("valid mesh rejected: %v", err)
	}
}

func TestRaycastBall(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})
	w.CreateCollider(Ball(1), math.Vec3{X: 0, Y: 0, Z: 5}, 0.5)

	hit, ok := w.Raycast(math.Vec3{}, math.Vec3{Z: 1}, 100, ColliderHandle{})
	if !ok {
		t.Fatal("expected hit")
	}
	if gomath.Abs(float64(hit.Distance-4)) > 1e-4 {
		t.Errorf("expected distance 4, got %f", hit.Distance)
	}
	if hit.Normal.Z > -0.99 {
		t.Errorf("expected normal facing -Z, got %+v", hit.Normal)
	}

	if _, ok := w.Raycast(math.Vec3{}, math.Vec3{Z: 1}, 3, ColliderHandle{}); ok {
		t.Error("hit beyond maxDist should be ignored")
	}
	if _, ok := w.Raycast(math.Vec3{}, math.Vec3{Z: -1}, 100, ColliderHandle{}); ok {
		t.Error("ray pointing away should miss")
	}
}

func TestRaycastCuboidAndCylinder(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})
	w.CreateCollider(Cuboid(math.Vec3{X: 1, Y: 2, Z: 1}), math.Vec3{X: 10}, 0.5)
	w.CreateCollider(Cylinder(3, 0.5), math.Vec3{X: -10}, 0.5)

	hit, ok := w.Raycast(math.Vec3{}, math.Vec3{X: 1}, 100, ColliderHandle{})
	if !ok {
		t.Fatal("expected cuboid hit")
	}
	if gomath.Abs(float64(hit.Distance-9)) > 1e-4 {
		t.Errorf("expected distance 9, got %f", hit.Distance)
	}
	if hit.Normal.X != -1 {
		t.Errorf("expected -X normal, got %+v", hit.Normal)
	}

	hit, ok = w.Raycast(math.Vec3{}, math.Vec3{X: -1}, 100, ColliderHandle{})
	if !ok {
		t.Fatal("expected cylinder hit")
	}
	if gomath.Abs(float64(hit.Distance-9.5)) > 1e-4 {
		t.Errorf("expected distance 9.5, got %f", hit.Distance)
	}

	// Above the cylinder's top cap
	hit, ok = w.Raycast(math.Vec3{X: -10, Y: 10}, math.Vec3{Y: -1}, 100, ColliderHandle{})
	if !ok {
		t.Fatal("expected cap hit")
	}
	if gomath.Abs(float64(hit.Distance-7)) > 1e-4 {
		t.Errorf("expected distance 7, got %f", hit.Distance)
	}
	if hit.Normal.Y != 1 {
		t.Errorf("expected +Y cap normal, got %+v", hit.Normal)
	}
}

func TestRaycastTriMesh(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})
	w.CreateCollider(flatFloor(t, 50), math.Vec3{}, 1.0)

	// Straight down
	hit, ok := w.Raycast(math.Vec3{X: 3, Y: 10, Z: -7}, math.Vec3{Y: -1}, 100, ColliderHandle{})
	if !ok {
		t.Fatal("expected floor hit")
	}
	if gomath.Abs(float64(hit.Distance-10)) > 1e-3 {
		t.Errorf("expected distance 10, got %f", hit.Distance)
	}
	if hit.Normal.Y < 0.99 {
		t.Errorf("expected up normal, got %+v", hit.Normal)
	}

	// Diagonal ray crossing many grid cells
	dir := math.Vec3{X: 1, Y: -1, Z: 0.3}.Normalize()
	hit, ok = w.Raycast(math.Vec3{X: -40, Y: 5, Z: 0}, dir, 100, ColliderHandle{})
	if !ok {
		t.Fatal("expected diagonal floor hit")
	}
	if gomath.Abs(float64(hit.Point.Y)) > 1e-3 {
		t.Errorf("hit should land on y=0, got %f", hit.Point.Y)
	}

	// Ray starting outside the mesh bounds
	hit, ok = w.Raycast(math.Vec3{X: -80, Y: 5, Z: 0}, dir, 200, ColliderHandle{})
	if !ok {
		t.Fatal("expected hit entering grid from outside")
	}

	// Horizontal ray above the floor misses
	if _, ok := w.Raycast(math.Vec3{Y: 5}, math.Vec3{X: 1}, 200, ColliderHandle{}); ok {
		t.Error("ray above floor should miss")
	}
}

func TestRaycastSelfExclusion(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})
	w.CreateCollider(flatFloor(t, 50), math.Vec3{}, 1.0)

	bh := w.CreateBody(math.Vec3{Y: 2}, true)
	ch := w.AttachCollider(bh, Capsule(0.55, 0.35))

	// Without exclusion the probe hits its own capsule
	hit, ok := w.Raycast(math.Vec3{Y: 2}, math.Vec3{Y: -1}, 10, ColliderHandle{})
	if !ok || hit.Collider != ch {
		t.Fatalf("expected self hit, got %+v ok=%v", hit, ok)
	}

	// With exclusion it reaches the floor
	hit, ok = w.Raycast(math.Vec3{Y: 2}, math.Vec3{Y: -1}, 10, ch)
	if !ok {
		t.Fatal("expected floor hit")
	}
	if gomath.Abs(float64(hit.Distance-2)) > 1e-3 {
		t.Errorf("expected distance 2, got %f", hit.Distance)
	}
}

func TestHandleLifecycle(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})

	bh := w.CreateBody(math.Vec3{Y: 1}, true)
	ch := w.AttachCollider(bh, Capsule(0.5, 0.3))
	sh := w.CreateCollider(Ball(1), math.Vec3{X: 5}, 0.5)

	if w.BodyCount() != 1 || w.ColliderCount() != 2 {
		t.Fatalf("unexpected counts: %d bodies, %d colliders", w.BodyCount(), w.ColliderCount())
	}

	// Removing the body removes the attached collider
	w.RemoveBody(bh)
	if w.BodyCount() != 0 || w.ColliderCount() != 1 {
		t.Errorf("expected 0 bodies / 1 collider, got %d / %d", w.BodyCount(), w.ColliderCount())
	}

	// Stale handles are inert
	w.RemoveBody(bh)
	w.RemoveCollider(ch)
	w.SetBodyVelocity(bh, math.Vec3{X: 1})
	if v := w.BodyVelocity(bh); v != (math.Vec3{}) {
		t.Errorf("stale handle returned velocity %+v", v)
	}

	// Slot reuse bumps the generation, so the old handle stays dead
	bh2 := w.CreateBody(math.Vec3{}, false)
	if bh2 == bh {
		t.Error("recycled slot must not produce an identical handle")
	}
	w.RemoveCollider(sh)
	if w.ColliderCount() != 0 {
		t.Errorf("expected 0 colliders, got %d", w.ColliderCount())
	}
}

func TestAdvanceBodyRestsOnFloor(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})
	w.CreateCollider(flatFloor(t, 50), math.Vec3{}, 1.0)

	bh := w.CreateBody(math.Vec3{Y: 5}, true)
	w.AttachCollider(bh, Capsule(0.55, 0.35))

	for i := 0; i < 300; i++ {
		w.Advance(FixedStep)
	}

	pos := w.BodyPosition(bh)
	rest := float32(0.55 + 0.35)
	if gomath.Abs(float64(pos.Y-rest)) > 0.01 {
		t.Errorf("expected body resting at %f, got %f", rest, pos.Y)
	}
	if vy := w.BodyVelocity(bh).Y; vy < -0.01 {
		t.Errorf("expected settled vertical velocity, got %f", vy)
	}
}

func TestAdvancePushesOutOfCylinder(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -9.81})
	w.CreateCollider(flatFloor(t, 50), math.Vec3{}, 1.0)
	w.CreateCollider(Cylinder(2, 0.4), math.Vec3{X: 2, Y: 2}, 0.8)

	bh := w.CreateBody(math.Vec3{X: 0, Y: 0.9, Z: 0}, true)
	w.AttachCollider(bh, Capsule(0.55, 0.35))

	// Walk into the trunk
	for i := 0; i < 240; i++ {
		v := w.BodyVelocity(bh)
		w.SetBodyVelocity(bh, math.Vec3{X: 3, Y: v.Y})
		w.Advance(FixedStep)
	}

	pos := w.BodyPosition(bh)
	dist := pos.XZ().Distance(math.Vec2{X: 2, Y: 0})
	if dist < 0.4+0.35-0.02 {
		t.Errorf("capsule penetrates trunk: distance %f", dist)
	}
}

func TestStepperAccumulator(t *testing.T) {
	w := NewWorld(math.Vec3{Y: -10})
	bh := w.CreateBody(math.Vec3{Y: 1000}, true)
	s := NewStepper(w)

	// Feeding exactly one fixed step advances exactly once, no leftover
	for i := 1; i <= 10; i++ {
		s.Step(FixedStep)
		if s.Accumulator() != 0 {
			t.Fatalf("call %d: expected zero leftover, got %g", i, s.Accumulator())
		}
		wantV := -10 * FixedStep * float32(i)
		if v := w.BodyVelocity(bh).Y; gomath.Abs(float64(v-wantV)) > 1e-4 {
			t.Fatalf("call %d: expected velocity %f, got %f", i, wantV, v)
		}
	}

	// A huge dt is clamped to 0.25s: at most 15 fixed steps
	w2 := NewWorld(math.Vec3{Y: -10})
	bh2 := w2.CreateBody(math.Vec3{Y: 1000}, true)
	s2 := NewStepper(w2)
	s2.Step(10.0)

	steps := int(gomath.Round(float64(w2.BodyVelocity(bh2).Y / (-10 * FixedStep))))
	if steps > 15 {
		t.Errorf("clamp failed: %d steps taken", steps)
	}
	if steps < 14 {
		t.Errorf("expected close to 15 steps, got %d", steps)
	}
	if s2.Accumulator() >= FixedStep {
		t.Errorf("leftover %g should be below one fixed step", s2.Accumulator())
	}

	// Half steps accumulate across calls
	w3 := NewWorld(math.Vec3{Y: -10})
	bh3 := w3.CreateBody(math.Vec3{Y: 1000}, true)
	s3 := NewStepper(w3)
	s3.Step(FixedStep / 2)
	if w3.BodyVelocity(bh3).Y != 0 {
		t.Error("half a step should not advance the world")
	}
	s3.Step(FixedStep / 2)
	if w3.BodyVelocity(bh3).Y == 0 {
		t.Error("two halves should advance the world once")
	}
}
