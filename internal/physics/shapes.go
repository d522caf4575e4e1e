// Package physics implements a small rigid-body world: dynamic bodies,
// static colliders, fixed-step advancement and ray casting. It covers
// exactly what the simulation core needs; there is no broad-phase beyond
// a uniform grid for triangle meshes.
package physics

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/fellwander/pkg/math"
)

// ShapeType identifies a collider shape.
type ShapeType int

// Collider shape types.
const (
	ShapeCapsule ShapeType = iota
	ShapeBall
	ShapeCylinder
	ShapeCuboid
	ShapeTriMesh
)

// Shape describes collider geometry. Capsules and cylinders are aligned
// with the Y axis; cuboids are axis-aligned.
type Shape struct {
	Type        ShapeType
	HalfHeight  float32   // Capsule (cylindrical part) and cylinder
	Radius      float32   // Capsule, ball, cylinder
	HalfExtents math.Vec3 // Cuboid
	mesh        *triMesh
}

// Capsule returns a Y-aligned capsule shape. halfHeight is half the
// cylindrical section; total height is 2*(halfHeight+radius).
func Capsule(halfHeight, radius float32) Shape {
	return Shape{Type: ShapeCapsule, HalfHeight: halfHeight, Radius: radius}
}

// Ball returns a sphere shape.
func Ball(radius float32) Shape {
	return Shape{Type: ShapeBall, Radius: radius}
}

// Cylinder returns a Y-aligned cylinder shape.
func Cylinder(halfHeight, radius float32) Shape {
	return Shape{Type: ShapeCylinder, HalfHeight: halfHeight, Radius: radius}
}

// Cuboid returns an axis-aligned box shape.
func Cuboid(halfExtents math.Vec3) Shape {
	return Shape{Type: ShapeCuboid, HalfExtents: halfExtents}
}

// ErrMissingIndices is returned when a triangle mesh is constructed
// without an index buffer.
var ErrMissingIndices = errors.New("physics: triangle mesh has no index buffer")

// TriangleMesh builds a static triangle-mesh shape from position and
// index buffers. positions is a flat xyz array in world space. Fails when
// the index buffer is missing or malformed; terrain collision must not be
// silently skipped.
func TriangleMesh(positions []float32, indices []uint32) (Shape, error) {
	if len(indices) == 0 {
		return Shape{}, ErrMissingIndices
	}
	if len(indices)%3 != 0 {
		return Shape{}, fmt.Errorf("physics: index count %d is not a multiple of 3", len(indices))
	}
	if len(positions) == 0 || len(positions)%3 != 0 {
		return Shape{}, fmt.Errorf("physics: position buffer length %d is invalid", len(positions))
	}
	vertexCount := uint32(len(positions) / 3)
	for _, idx := range indices {
		if idx >= vertexCount {
			return Shape{}, fmt.Errorf("physics: index %d out of range (%d vertices)", idx, vertexCount)
		}
	}

	m := &triMesh{positions: positions, indices: indices}
	m.buildGrid()
	return Shape{Type: ShapeTriMesh, mesh: m}, nil
}

// triMesh holds static triangle geometry with a uniform XZ grid over the
// triangles so rays only test a handful of candidates.
type triMesh struct {
	positions []float32
	indices   []uint32

	minX, minZ float32
	maxX, maxZ float32
	minY, maxY float32
	cellSize   float32
	cellsX     int
	cellsZ     int
	cells      [][]int32 // triangle indices (into indices/3) per cell
}

func (m *triMesh) vertex(i uint32) math.Vec3 {
	return math.Vec3{
		X: m.positions[i*3],
		Y: m.positions[i*3+1],
		Z: m.positions[i*3+2],
	}
}

func (m *triMesh) triangle(t int32) (a, b, c math.Vec3) {
	i := t * 3
	return m.vertex(m.indices[i]), m.vertex(m.indices[i+1]), m.vertex(m.indices[i+2])
}

func (m *triMesh) buildGrid() {
	m.minX, m.minZ = float32(gomath.Inf(1)), float32(gomath.Inf(1))
	m.maxX, m.maxZ = float32(gomath.Inf(-1)), float32(gomath.Inf(-1))
	m.minY, m.maxY = float32(gomath.Inf(1)), float32(gomath.Inf(-1))

	for i := 0; i < len(m.positions); i += 3 {
		x, y, z := m.positions[i], m.positions[i+1], m.positions[i+2]
		if x < m.minX {
			m.minX = x
		}
		if x > m.maxX {
			m.maxX = x
		}
		if z < m.minZ {
			m.minZ = z
		}
		if z > m.maxZ {
			m.maxZ = z
		}
		if y < m.minY {
			m.minY = y
		}
		if y > m.maxY {
			m.maxY = y
		}
	}

	triCount := len(m.indices) / 3

	// Aim for roughly one or two triangles per cell. The terrain mesh is a
	// regular grid, so this lines cells up with its quads.
	target := int(gomath.Sqrt(float64(triCount) / 2))
	if target < 1 {
		target = 1
	}
	if target > 1024 {
		target = 1024
	}

	extentX := m.maxX - m.minX
	extentZ := m.maxZ - m.minZ
	extent := extentX
	if extentZ > extent {
		extent = extentZ
	}
	if extent <= 0 {
		extent = 1
	}
	m.cellSize = extent / float32(target)

	m.cellsX = int(extentX/m.cellSize) + 1
	m.cellsZ = int(extentZ/m.cellSize) + 1
	m.cells = make([][]int32, m.cellsX*m.cellsZ)

	for t := int32(0); t < int32(triCount); t++ {
		a, b, c := m.triangle(t)
		minX := min3(a.X, b.X, c.X)
		maxX := max3(a.X, b.X, c.X)
		minZ := min3(a.Z, b.Z, c.Z)
		maxZ := max3(a.Z, b.Z, c.Z)

		cx0, cz0 := m.cellAt(minX, minZ)
		cx1, cz1 := m.cellAt(maxX, maxZ)
		for cz := cz0; cz <= cz1; cz++ {
			for cx := cx0; cx <= cx1; cx++ {
				idx := cz*m.cellsX + cx
				m.cells[idx] = append(m.cells[idx], t)
			}
		}
	}
}

// cellAt maps world XZ to clamped cell coordinates.
func (m *triMesh) cellAt(x, z float32) (int, int) {
	cx := int((x - m.minX) / m.cellSize)
	cz := int((z - m.minZ) / m.cellSize)
	if cx < 0 {
		cx = 0
	}
	if cx >= m.cellsX {
		cx = m.cellsX - 1
	}
	if cz < 0 {
		cz = 0
	}
	if cz >= m.cellsZ {
		cz = m.cellsZ - 1
	}
	return cx, cz
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
