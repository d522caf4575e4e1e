package physics

import (
	gomath "math"

	"github.com/Faultbox/fellwander/pkg/math"
)

// Hit describes a ray intersection.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
	Collider ColliderHandle
}

const rayEpsilon = 1e-6

// Raycast casts a ray against every collider in the world and returns the
// nearest hit within maxDist. exclude filters out a single collider, which
// lets the character's ground probe skip its own capsule. dir must be
// normalized.
func (w *World) Raycast(origin, dir math.Vec3, maxDist float32, exclude ColliderHandle) (Hit, bool) {
	best := Hit{Distance: maxDist}
	found := false

	for i := range w.colliders {
		c := &w.colliders[i]
		if !c.alive {
			continue
		}
		h := ColliderHandle{index: int32(i), gen: c.gen}
		if h == exclude {
			continue
		}

		var (
			t      float32
			normal math.Vec3
			hit    bool
		)
		center := w.colliderCenter(c)

		switch c.shape.Type {
		case ShapeBall:
			t, normal, hit = raySphere(origin, dir, center, c.shape.Radius)
		case ShapeCylinder:
			t, normal, hit = rayCylinder(origin, dir, center, c.shape.HalfHeight, c.shape.Radius)
		case ShapeCapsule:
			t, normal, hit = rayCapsule(origin, dir, center, c.shape.HalfHeight, c.shape.Radius)
		case ShapeCuboid:
			t, normal, hit = rayCuboid(origin, dir, center, c.shape.HalfExtents)
		case ShapeTriMesh:
			t, normal, hit = c.shape.mesh.raycast(origin, dir, best.Distance)
		}

		if hit && t >= 0 && t < best.Distance {
			best = Hit{
				Point:    origin.Add(dir.Scale(t)),
				Normal:   normal,
				Distance: t,
				Collider: h,
			}
			found = true
		}
	}

	return best, found
}

// raySphere intersects a ray with a sphere, returning the entry distance.
func raySphere(origin, dir, center math.Vec3, radius float32) (float32, math.Vec3, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.LengthSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, math.Vec3{}, false
	}
	sq := float32(gomath.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
		if t < 0 {
			return 0, math.Vec3{}, false
		}
	}
	point := origin.Add(dir.Scale(t))
	return t, point.Sub(center).Normalize(), true
}

// rayCylinder intersects a ray with a closed Y-aligned cylinder.
func rayCylinder(origin, dir, center math.Vec3, halfHeight, radius float32) (float32, math.Vec3, bool) {
	bestT := float32(gomath.Inf(1))
	var bestN math.Vec3
	found := false

	// Side surface: 2D circle in XZ
	ox, oz := origin.X-center.X, origin.Z-center.Z
	a := dir.X*dir.X + dir.Z*dir.Z
	if a > rayEpsilon {
		b := ox*dir.X + oz*dir.Z
		c := ox*ox + oz*oz - radius*radius
		disc := b*b - a*c
		if disc >= 0 {
			sq := float32(gomath.Sqrt(float64(disc)))
			for _, t := range [2]float32{(-b - sq) / a, (-b + sq) / a} {
				if t < 0 {
					continue
				}
				y := origin.Y + dir.Y*t
				if y < center.Y-halfHeight || y > center.Y+halfHeight {
					continue
				}
				if t < bestT {
					p := origin.Add(dir.Scale(t))
					bestT = t
					bestN = math.Vec3{X: p.X - center.X, Z: p.Z - center.Z}.Normalize()
					found = true
				}
				break
			}
		}
	}

	// End caps
	if gomath.Abs(float64(dir.Y)) > rayEpsilon {
		for _, capY := range [2]float32{center.Y + halfHeight, center.Y - halfHeight} {
			t := (capY - origin.Y) / dir.Y
			if t < 0 || t >= bestT {
				continue
			}
			px := origin.X + dir.X*t - center.X
			pz := origin.Z + dir.Z*t - center.Z
			if px*px+pz*pz > radius*radius {
				continue
			}
			bestT = t
			if capY > center.Y {
				bestN = math.Vec3{Y: 1}
			} else {
				bestN = math.Vec3{Y: -1}
			}
			found = true
		}
	}

	return bestT, bestN, found
}

// rayCapsule intersects a ray with a Y-aligned capsule: cylinder side plus
// spherical caps.
func rayCapsule(origin, dir, center math.Vec3, halfHeight, radius float32) (float32, math.Vec3, bool) {
	bestT := float32(gomath.Inf(1))
	var bestN math.Vec3
	found := false

	if t, n, ok := rayCylinder(origin, dir, center, halfHeight, radius); ok && n.Y == 0 && t < bestT {
		bestT, bestN, found = t, n, true
	}
	for _, capCenter := range [2]math.Vec3{
		center.Add(math.Vec3{Y: halfHeight}),
		center.Sub(math.Vec3{Y: halfHeight}),
	} {
		if t, n, ok := raySphere(origin, dir, capCenter, radius); ok && t < bestT {
			bestT, bestN, found = t, n, true
		}
	}

	return bestT, bestN, found
}

// rayCuboid intersects a ray with an axis-aligned box via the slab method.
func rayCuboid(origin, dir, center math.Vec3, half math.Vec3) (float32, math.Vec3, bool) {
	minB := center.Sub(half)
	maxB := center.Add(half)

	tmin := float32(gomath.Inf(-1))
	tmax := float32(gomath.Inf(1))
	axis := -1

	bounds := [3][2]float32{{minB.X, maxB.X}, {minB.Y, maxB.Y}, {minB.Z, maxB.Z}}
	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}

	for i := 0; i < 3; i++ {
		if gomath.Abs(float64(d[i])) < rayEpsilon {
			if o[i] < bounds[i][0] || o[i] > bounds[i][1] {
				return 0, math.Vec3{}, false
			}
			continue
		}
		t1 := (bounds[i][0] - o[i]) / d[i]
		t2 := (bounds[i][1] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, math.Vec3{}, false
	}
	t := tmin
	if t < 0 {
		t = tmax
	}

	var normal math.Vec3
	switch axis {
	case 0:
		normal = math.Vec3{X: 1}
		if dir.X > 0 {
			normal.X = -1
		}
	case 1:
		normal = math.Vec3{Y: 1}
		if dir.Y > 0 {
			normal.Y = -1
		}
	default:
		normal = math.Vec3{Z: 1}
		if dir.Z > 0 {
			normal.Z = -1
		}
	}
	return t, normal, true
}

// rayTriangle is the Möller-Trumbore intersection test.
func rayTriangle(origin, dir, a, b, c math.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if gomath.Abs(float64(det)) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// raycast walks the XZ grid cells along the ray with a 2D DDA and tests
// the triangles in each visited cell. Returns the nearest hit within
// maxDist.
func (m *triMesh) raycast(origin, dir math.Vec3, maxDist float32) (float32, math.Vec3, bool) {
	bestT := maxDist
	var bestN math.Vec3
	found := false

	testCell := func(cx, cz int) {
		if cx < 0 || cx >= m.cellsX || cz < 0 || cz >= m.cellsZ {
			return
		}
		for _, tri := range m.cells[cz*m.cellsX+cx] {
			a, b, c := m.triangle(tri)
			if t, ok := rayTriangle(origin, dir, a, b, c); ok && t < bestT {
				n := b.Sub(a).Cross(c.Sub(a)).Normalize()
				// Orient toward the ray origin
				if n.Dot(dir) > 0 {
					n = n.Scale(-1)
				}
				bestT = t
				bestN = n
				found = true
			}
		}
	}

	// Near-vertical rays stay in one cell column.
	if gomath.Abs(float64(dir.X)) < rayEpsilon && gomath.Abs(float64(dir.Z)) < rayEpsilon {
		cx, cz := m.cellAt(origin.X, origin.Z)
		testCell(cx, cz)
		if found {
			return bestT, bestN, true
		}
		return 0, math.Vec3{}, false
	}

	// Clip the ray to the grid's XZ bounds.
	tStart := float32(0)
	tEnd := maxDist
	clipAxis := func(o, d, lo, hi float32) bool {
		if gomath.Abs(float64(d)) < rayEpsilon {
			return o >= lo && o <= hi
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tStart {
			tStart = t1
		}
		if t2 < tEnd {
			tEnd = t2
		}
		return true
	}
	if !clipAxis(origin.X, dir.X, m.minX, m.maxX) ||
		!clipAxis(origin.Z, dir.Z, m.minZ, m.maxZ) ||
		tStart > tEnd {
		return 0, math.Vec3{}, false
	}

	// DDA setup at the entry point.
	entry := origin.Add(dir.Scale(tStart))
	cx, cz := m.cellAt(entry.X, entry.Z)

	stepX, stepZ := 1, 1
	if dir.X < 0 {
		stepX = -1
	}
	if dir.Z < 0 {
		stepZ = -1
	}

	nextBoundary := func(c int, minW float32, d, o float32, step int) float32 {
		var edge float32
		if step > 0 {
			edge = minW + float32(c+1)*m.cellSize
		} else {
			edge = minW + float32(c)*m.cellSize
		}
		if gomath.Abs(float64(d)) < rayEpsilon {
			return float32(gomath.Inf(1))
		}
		return (edge - o) / d
	}

	tMaxX := nextBoundary(cx, m.minX, dir.X, origin.X, stepX)
	tMaxZ := nextBoundary(cz, m.minZ, dir.Z, origin.Z, stepZ)
	tDeltaX := float32(gomath.Inf(1))
	tDeltaZ := float32(gomath.Inf(1))
	if gomath.Abs(float64(dir.X)) >= rayEpsilon {
		tDeltaX = m.cellSize / float32(gomath.Abs(float64(dir.X)))
	}
	if gomath.Abs(float64(dir.Z)) >= rayEpsilon {
		tDeltaZ = m.cellSize / float32(gomath.Abs(float64(dir.Z)))
	}

	for {
		testCell(cx, cz)

		tNext := tMaxX
		if tMaxZ < tNext {
			tNext = tMaxZ
		}
		// A hit inside already-traversed cells cannot be beaten by a
		// farther cell.
		if found && bestT <= tNext {
			break
		}
		if tNext > tEnd || tNext > bestT {
			break
		}

		if tMaxX < tMaxZ {
			cx += stepX
			tMaxX += tDeltaX
			if cx < 0 || cx >= m.cellsX {
				break
			}
		} else {
			cz += stepZ
			tMaxZ += tDeltaZ
			if cz < 0 || cz >= m.cellsZ {
				break
			}
		}
	}

	if !found {
		return 0, math.Vec3{}, false
	}
	return bestT, bestN, true
}
