package math

import (
	gomath "math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	if !almostEqual(n.Length(), 1) {
		t.Errorf("expected unit length, got %f", n.Length())
	}
	if !almostEqual(n.X, 0.6) || !almostEqual(n.Z, 0.8) {
		t.Errorf("unexpected direction: %+v", n)
	}

	// Zero vector must not produce NaN
	z := Vec3{}.Normalize()
	if z != (Vec3{}) {
		t.Errorf("expected zero vector, got %+v", z)
	}
}

func TestVec3ProjectOnPlane(t *testing.T) {
	v := Vec3{1, 1, 0}
	p := v.ProjectOnPlane(Up)
	if !almostEqual(p.Y, 0) {
		t.Errorf("expected Y component removed, got %f", p.Y)
	}
	if !almostEqual(p.X, 1) {
		t.Errorf("expected X preserved, got %f", p.X)
	}
}

func TestVec2Rotate(t *testing.T) {
	v := Vec2{1, 0}
	r := v.Rotate(gomath.Pi / 2)
	if !almostEqual(r.X, 0) || !almostEqual(r.Y, 1) {
		t.Errorf("expected (0,1), got %+v", r)
	}
}

func TestQuatFromYawRotatesForward(t *testing.T) {
	// Yaw of pi/2 takes +Z to +X
	q := QuatFromYaw(gomath.Pi / 2)
	v := q.RotateVec3(Vec3{0, 0, 1})
	if !almostEqual(v.X, 1) || !almostEqual(v.Z, 0) {
		t.Errorf("expected (1,0,0), got %+v", v)
	}
}

func TestQuatYawRoundTrip(t *testing.T) {
	for _, yaw := range []float32{0, 0.5, -1.2, 2.9} {
		q := QuatFromYaw(yaw)
		got := q.Yaw()
		if !almostEqual(got, yaw) {
			t.Errorf("yaw %f: round trip gave %f", yaw, got)
		}
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	a := QuatFromYaw(0)
	b := QuatFromYaw(1.5)

	s0 := a.Slerp(b, 0)
	if !almostEqual(s0.Yaw(), 0) {
		t.Errorf("slerp(0) should equal start, got yaw %f", s0.Yaw())
	}
	s1 := a.Slerp(b, 1)
	if !almostEqual(s1.Yaw(), 1.5) {
		t.Errorf("slerp(1) should equal end, got yaw %f", s1.Yaw())
	}
	mid := a.Slerp(b, 0.5)
	if !almostEqual(mid.Yaw(), 0.75) {
		t.Errorf("slerp(0.5) should halve the angle, got yaw %f", mid.Yaw())
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(0, 10, 3); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
	if got := Approach(9, 10, 3); got != 10 {
		t.Errorf("expected clamp at target, got %f", got)
	}
	if got := Approach(10, 0, 4); got != 6 {
		t.Errorf("expected 6, got %f", got)
	}
}

func TestSmoothstep(t *testing.T) {
	if Smoothstep(0) != 0 || Smoothstep(1) != 1 {
		t.Error("smoothstep endpoints wrong")
	}
	if !almostEqual(Smoothstep(0.5), 0.5) {
		t.Errorf("smoothstep(0.5) = %f", Smoothstep(0.5))
	}
	if Smoothstep(-1) != 0 || Smoothstep(2) != 1 {
		t.Error("smoothstep must clamp outside [0,1]")
	}
}
