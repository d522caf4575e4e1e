// Package placement implements constrained procedural placement:
// rejection sampling under slope and distance constraints, optional
// clustering, and collider attachment. One engine instance per placed
// type (trees, rocks, berries, the goal cairn).
package placement

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/fellwander/internal/logger"
	"github.com/Faultbox/fellwander/internal/physics"
	"github.com/Faultbox/fellwander/internal/rng"
	"github.com/Faultbox/fellwander/pkg/math"
)

// Field is the terrain query surface the sampler works against.
type Field interface {
	HeightAt(x, z float32) float32
	SlopeAt(x, z float32) float32
	Bounds() (halfWidth, halfDepth float32)
}

// ColliderKind selects the physics shape attached per instance.
type ColliderKind int

// Collider kinds.
const (
	ColliderNone ColliderKind = iota
	ColliderCylinder
	ColliderBall
	ColliderCuboid
)

// ClusterParams switches the sampler to dense-cluster mode: items are
// drawn area-uniformly from disks around sampled cluster centers.
type ClusterParams struct {
	Radius  float32
	SizeMin int
	SizeMax int
}

// Params configures one placement pass. AttemptsPerItem caps total work
// at Count*AttemptsPerItem candidates so hard constraints cannot loop
// forever.
type Params struct {
	Count           int
	AttemptsPerItem int
	MinOriginDist   float32
	MaxSlope        float32 // radians
	YOffset         float32 // vertical grounding offset, scaled per instance
	ScaleMin        float32
	ScaleMax        float32
	YJitter         float32 // extra vertical scale variation, 0 = uniform

	Collider            ColliderKind
	ColliderHalfHeight  float32
	ColliderRadius      float32
	ColliderHalfExtents math.Vec3

	Cluster *ClusterParams
}

// Instance is one placed object's transform.
type Instance struct {
	Position math.Vec3
	Yaw      float32
	Scale    float32
	ScaleY   float32
}

// Engine owns the instances and colliders of one placement pass.
type Engine struct {
	params    Params
	instances []Instance
	colliders []physics.ColliderHandle
}

// Place runs a placement pass. The returned engine may hold fewer than
// Count instances when the attempt cap is reached; that is an accepted
// degradation, not an error.
func Place(field Field, world *physics.World, seed int32, p Params) *Engine {
	e := &Engine{params: p}
	if p.Count <= 0 {
		return e
	}

	r := rng.New(seed)
	halfW, halfD := field.Bounds()
	budget := p.Count * p.AttemptsPerItem
	minDistSq := p.MinOriginDist * p.MinOriginDist

	sampleOne := func(drawXZ func() (float32, float32)) bool {
		x, z := drawXZ()
		if x*x+z*z < minDistSq {
			return false
		}
		if field.SlopeAt(x, z) > p.MaxSlope {
			return false
		}
		e.accept(field, world, r, x, z)
		return true
	}

	uniform := func() (float32, float32) {
		return r.Range(-halfW, halfW), r.Range(-halfD, halfD)
	}

	if p.Cluster == nil {
		for len(e.instances) < p.Count && budget > 0 {
			budget--
			sampleOne(uniform)
		}
	} else {
		for _, clusterSize := range partitionClusters(r, p.Count, p.Cluster.SizeMin, p.Cluster.SizeMax) {
			// Find a viable cluster center first
			var cx, cz float32
			centerOK := false
			for budget > 0 {
				budget--
				cx, cz = uniform()
				if cx*cx+cz*cz >= minDistSq && field.SlopeAt(cx, cz) <= p.MaxSlope {
					centerOK = true
					break
				}
			}
			if !centerOK {
				break
			}

			disk := func() (float32, float32) {
				angle := r.Range(0, 2*gomath.Pi)
				radius := float32(gomath.Sqrt(float64(r.Next()))) * p.Cluster.Radius
				return cx + radius*float32(gomath.Cos(float64(angle))),
					cz + radius*float32(gomath.Sin(float64(angle)))
			}

			placedInCluster := 0
			for placedInCluster < clusterSize && budget > 0 {
				budget--
				if sampleOne(disk) {
					placedInCluster++
				}
			}
			if budget <= 0 {
				break
			}
		}
	}

	if len(e.instances) < p.Count {
		logger.Debug("placement pass exhausted attempt budget",
			zap.Int("placed", len(e.instances)),
			zap.Int("requested", p.Count),
		)
	}
	return e
}

// accept grounds the candidate, draws its transform and attaches its
// collider.
func (e *Engine) accept(field Field, world *physics.World, r *rng.RNG, x, z float32) {
	y := field.HeightAt(x, z)
	yaw := r.Range(0, 2*gomath.Pi)
	scale := r.Range(e.params.ScaleMin, e.params.ScaleMax)
	scaleY := scale
	if e.params.YJitter > 0 {
		scaleY *= 1 + r.Range(-e.params.YJitter, e.params.YJitter)
	}

	inst := Instance{
		Position: math.Vec3{X: x, Y: y + e.params.YOffset*scale, Z: z},
		Yaw:      yaw,
		Scale:    scale,
		ScaleY:   scaleY,
	}
	e.instances = append(e.instances, inst)

	if world == nil {
		return
	}
	switch e.params.Collider {
	case ColliderCylinder:
		hh := e.params.ColliderHalfHeight * scaleY
		shape := physics.Cylinder(hh, e.params.ColliderRadius*scale)
		center := math.Vec3{X: x, Y: y + hh, Z: z}
		e.colliders = append(e.colliders, world.CreateCollider(shape, center, 0.8))
	case ColliderBall:
		radius := e.params.ColliderRadius * scale
		shape := physics.Ball(radius)
		// Partially buried so the visible rock matches the collision
		center := math.Vec3{X: x, Y: y + radius*0.6, Z: z}
		e.colliders = append(e.colliders, world.CreateCollider(shape, center, 0.9))
	case ColliderCuboid:
		half := e.params.ColliderHalfExtents.Scale(scale)
		shape := physics.Cuboid(half)
		center := math.Vec3{X: x, Y: y + half.Y, Z: z}
		e.colliders = append(e.colliders, world.CreateCollider(shape, center, 0.8))
	}
}

// partitionClusters splits total into random cluster sizes in
// [sizeMin, sizeMax] that sum exactly to total.
func partitionClusters(r *rng.RNG, total, sizeMin, sizeMax int) []int {
	var sizes []int
	remaining := total
	for remaining > 0 {
		size := r.IntRange(sizeMin, sizeMax)
		if size > remaining {
			size = remaining
		}
		sizes = append(sizes, size)
		remaining -= size
	}
	return sizes
}

// Instances returns the placed transforms. Callers must not mutate.
func (e *Engine) Instances() []Instance {
	return e.instances
}

// Dispose removes every collider this pass created. Required on level
// reset; the physics world does not collect stale handles implicitly.
func (e *Engine) Dispose(world *physics.World) {
	for _, h := range e.colliders {
		world.RemoveCollider(h)
	}
	e.colliders = nil
}
