package noise

import (
	"math"
	"testing"
)

func TestDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		x := float64(i) * 0.173
		y := float64(i) * 0.311
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			t.Fatalf("same seed gave different noise at (%f, %f)", x, y)
		}
	}

	c := New(43)
	diff := false
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.173
		if a.Noise2D(x, x) != c.Noise2D(x, x) {
			diff = true
			break
		}
	}
	if !diff {
		t.Error("different seeds produced identical noise")
	}
}

func TestRange(t *testing.T) {
	p := New(7)
	for i := 0; i < 10000; i++ {
		x := float64(i%100) * 0.37
		y := float64(i/100) * 0.41
		v := p.Noise2D(x, y)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("noise out of expected range at (%f, %f): %f", x, y, v)
		}
		if math.IsNaN(v) {
			t.Fatalf("NaN at (%f, %f)", x, y)
		}
	}
}

func TestContinuity(t *testing.T) {
	p := New(99)
	const eps = 1e-4
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.71
		y := float64(i) * 0.53
		d := math.Abs(p.Noise2D(x+eps, y) - p.Noise2D(x, y))
		if d > 0.01 {
			t.Errorf("discontinuity at (%f, %f): delta %f", x, y, d)
		}
	}
}

func TestFBMNormalized(t *testing.T) {
	p := New(5)
	for i := 0; i < 1000; i++ {
		x := float64(i) * 0.29
		v := p.FBM(x, x*0.7, 5, 2.0, 0.5)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("FBM out of range: %f", v)
		}
	}

	if p.FBM(1, 1, 0, 2, 0.5) != 0 {
		t.Error("zero octaves should give zero")
	}
}
