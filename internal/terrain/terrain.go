// Package terrain generates the world heightfield and exposes height and
// slope queries plus the physics collision mesh.
package terrain

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/fellwander/internal/noise"
	"github.com/Faultbox/fellwander/internal/physics"
	"github.com/Faultbox/fellwander/pkg/math"
)

// Noise synthesis parameters. Frequency doubles and amplitude halves each
// octave; the signed power shaping flattens plains and sharpens peaks.
const (
	octaves       = 5
	baseFrequency = 0.0022
	lacunarity    = 2.0
	persistence   = 0.5
	shapeExponent = 1.35

	// Keeps the world center off the noise lattice (at every octave),
	// where gradient noise is identically zero for every seed.
	noiseOffset = 17.2331
)

// slopeEpsilon is the central-difference step for slope estimation, in
// world units.
const slopeEpsilon = 2.0

// Config holds terrain generation parameters. Immutable after Generate.
type Config struct {
	Size         int // Grid resolution per side, must be odd
	Width        float32
	Depth        float32
	MaxHeight    float32
	Seed         int32
	BorderWidth  float32
	BorderHeight float32
}

// Terrain owns the generated heightfield. The grid is column-major:
// heights[col*Size + row] where col indexes X and row indexes Z, matching
// the layout the collision mesh is built from. Immutable after Generate.
type Terrain struct {
	cfg          Config
	heights      []float32
	stepX, stepZ float32
	halfW, halfD float32

	positions []float32
	indices   []uint32
}

// Generate builds the heightfield and render mesh for the given config.
func Generate(cfg Config) (*Terrain, error) {
	if cfg.Size < 3 || cfg.Size%2 == 0 {
		return nil, fmt.Errorf("terrain: size must be odd and >= 3, got %d", cfg.Size)
	}
	if cfg.Width <= 0 || cfg.Depth <= 0 {
		return nil, fmt.Errorf("terrain: dimensions must be positive, got %gx%g", cfg.Width, cfg.Depth)
	}

	t := &Terrain{
		cfg:     cfg,
		heights: make([]float32, cfg.Size*cfg.Size),
		stepX:   cfg.Width / float32(cfg.Size-1),
		stepZ:   cfg.Depth / float32(cfg.Size-1),
		halfW:   cfg.Width / 2,
		halfD:   cfg.Depth / 2,
	}

	p := noise.New(int64(cfg.Seed))
	for col := 0; col < cfg.Size; col++ {
		x := -t.halfW + float32(col)*t.stepX
		for row := 0; row < cfg.Size; row++ {
			z := -t.halfD + float32(row)*t.stepZ
			t.heights[col*cfg.Size+row] = t.synthesize(p, x, z)
		}
	}

	t.buildMesh()
	return t, nil
}

// synthesize computes the height at a world position: shaped multi-octave
// noise plus the enclosing border ridge.
func (t *Terrain) synthesize(p *noise.Perlin, x, z float32) float32 {
	n := p.FBM(float64(x)*baseFrequency+noiseOffset, float64(z)*baseFrequency+noiseOffset, octaves, lacunarity, persistence)

	shaped := gomath.Pow(gomath.Abs(n), shapeExponent)
	if n < 0 {
		shaped = -shaped
	}
	h := float32(shaped) * t.cfg.MaxHeight

	if t.cfg.BorderWidth > 0 {
		distToEdge := t.halfW - float32(gomath.Abs(float64(x)))
		if d := t.halfD - float32(gomath.Abs(float64(z))); d < distToEdge {
			distToEdge = d
		}
		if distToEdge < t.cfg.BorderWidth {
			h += math.Smoothstep(1-distToEdge/t.cfg.BorderWidth) * t.cfg.BorderHeight
		}
	}

	return h
}

// HeightAt returns the bilinearly interpolated terrain height at a world
// position. Valid for any finite input: grid indices clamp, so queries far
// outside the world return the nearest boundary height.
func (t *Terrain) HeightAt(x, z float32) float32 {
	size := t.cfg.Size

	gx := (x + t.halfW) / t.stepX
	gz := (z + t.halfD) / t.stepZ

	col0 := clampIndex(int(gomath.Floor(float64(gx))), size-1)
	row0 := clampIndex(int(gomath.Floor(float64(gz))), size-1)
	col1 := clampIndex(col0+1, size-1)
	row1 := clampIndex(row0+1, size-1)

	fx := math.Clamp(gx-float32(col0), 0, 1)
	fz := math.Clamp(gz-float32(row0), 0, 1)

	h00 := t.heights[col0*size+row0]
	h10 := t.heights[col1*size+row0]
	h01 := t.heights[col0*size+row1]
	h11 := t.heights[col1*size+row1]

	south := math.Lerp(h00, h10, fx)
	north := math.Lerp(h01, h11, fx)
	return math.Lerp(south, north, fz)
}

// SlopeAt estimates the slope angle in radians at a world position using
// central differences. A smoothed proxy, not the exact face slope of the
// render mesh.
func (t *Terrain) SlopeAt(x, z float32) float32 {
	dx := (t.HeightAt(x+slopeEpsilon, z) - t.HeightAt(x-slopeEpsilon, z)) / (2 * slopeEpsilon)
	dz := (t.HeightAt(x, z+slopeEpsilon) - t.HeightAt(x, z-slopeEpsilon)) / (2 * slopeEpsilon)
	return float32(gomath.Atan(gomath.Sqrt(float64(dx*dx + dz*dz))))
}

// buildMesh lays out one vertex per grid cell and two triangles per quad.
// Vertex v = col*Size + row matches the heightfield indexing.
func (t *Terrain) buildMesh() {
	size := t.cfg.Size
	t.positions = make([]float32, 0, size*size*3)
	for col := 0; col < size; col++ {
		x := -t.halfW + float32(col)*t.stepX
		for row := 0; row < size; row++ {
			z := -t.halfD + float32(row)*t.stepZ
			t.positions = append(t.positions, x, t.heights[col*size+row], z)
		}
	}

	t.indices = make([]uint32, 0, (size-1)*(size-1)*6)
	for col := 0; col < size-1; col++ {
		for row := 0; row < size-1; row++ {
			v00 := uint32(col*size + row)
			v10 := uint32((col+1)*size + row)
			v01 := uint32(col*size + row + 1)
			v11 := uint32((col+1)*size + row + 1)
			t.indices = append(t.indices, v00, v10, v11, v00, v11, v01)
		}
	}
}

// Mesh returns the render mesh buffers: flat xyz positions and triangle
// indices. Callers must not mutate them.
func (t *Terrain) Mesh() (positions []float32, indices []uint32) {
	return t.positions, t.indices
}

// Size returns the grid resolution per side.
func (t *Terrain) Size() int { return t.cfg.Size }

// Bounds returns the world-space half extents.
func (t *Terrain) Bounds() (halfWidth, halfDepth float32) {
	return t.halfW, t.halfD
}

// BuildCollider hands the mesh buffers to the physics world as a static
// triangle-mesh collider with full friction. A malformed mesh is a fatal
// configuration error; the world must not run without terrain collision.
func (t *Terrain) BuildCollider(w *physics.World) (physics.ColliderHandle, error) {
	shape, err := physics.TriangleMesh(t.positions, t.indices)
	if err != nil {
		return physics.ColliderHandle{}, fmt.Errorf("terrain collider: %w", err)
	}
	return w.CreateCollider(shape, math.Vec3{}, 1.0), nil
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
