package game

import (
	"github.com/Faultbox/fellwander/internal/anim"
	"github.com/Faultbox/fellwander/internal/placement"
	"github.com/Faultbox/fellwander/pkg/math"
)

// BerryVisual is one collectible's render state: its placed transform,
// the animated scale (pulse or pop-out) and whether it has been picked up.
type BerryVisual struct {
	Instance  placement.Instance
	Scale     float32
	Collected bool
}

// FrameState is the one-way render contract. The renderer consumes it;
// the core never reads anything back.
type FrameState struct {
	TerrainPositions []float32
	TerrainIndices   []uint32

	Trees   []placement.Instance
	Rocks   []placement.Instance
	Goal    []placement.Instance
	Berries []BerryVisual

	PlayerPosition    math.Vec3
	PlayerOrientation math.Quat
	PlayerTag         anim.Tag
	PlayerGrounded    bool

	CameraPosition math.Vec3
	View           math.Mat4
}

// Frame snapshots the current render state. Terrain and scenery slices
// alias the world's immutable buffers; berry visuals are computed fresh
// each call.
func (w *World) Frame() FrameState {
	positions, indices := w.terrain.Mesh()

	berries := make([]BerryVisual, w.berries.Count())
	for i := range berries {
		berries[i] = BerryVisual{
			Instance:  w.berries.Instances()[i],
			Scale:     w.berries.VisualScale(i, w.elapsed),
			Collected: w.berries.Collected(i),
		}
	}

	return FrameState{
		TerrainPositions:  positions,
		TerrainIndices:    indices,
		Trees:             w.trees.Instances(),
		Rocks:             w.rocks.Instances(),
		Goal:              w.goal.Instances(),
		Berries:           berries,
		PlayerPosition:    w.player.Position(),
		PlayerOrientation: w.player.Orientation(),
		PlayerTag:         w.player.Tag(),
		PlayerGrounded:    w.player.Grounded(),
		CameraPosition:    w.cam.Position(),
		View:              w.cam.ViewMatrix(),
	}
}
