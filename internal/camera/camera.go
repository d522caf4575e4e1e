// Package camera implements the follow camera: yaw/pitch/distance orbit
// around the player with damped smoothing and an occlusion probe against
// the physics world.
package camera

import (
	gomath "math"

	"github.com/Faultbox/fellwander/internal/physics"
	"github.com/Faultbox/fellwander/pkg/math"
)

// FollowCamera orbits a target from behind and above. Mouse deltas drive
// yaw and pitch; the position eases toward the desired orbit point and is
// pulled in front of any geometry between target and camera.
type FollowCamera struct {
	Yaw   float32
	Pitch float32

	Distance    float32
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	YawSensitivity   float32
	PitchSensitivity float32
	ZoomSensitivity  float32

	// LookHeight raises the anchor from the target's feet to its chest.
	LookHeight float32

	// Damping is the exponential smoothing rate k in 1-exp(-k*dt).
	Damping float32

	// OcclusionMargin keeps the lens off the blocking surface.
	OcclusionMargin float32

	position math.Vec3
	anchor   math.Vec3
	primed   bool
}

// NewFollowCamera creates a follow camera with exploration defaults.
func NewFollowCamera() *FollowCamera {
	return &FollowCamera{
		Yaw:              0,
		Pitch:            0.35,
		Distance:         7,
		MinDistance:      2,
		MaxDistance:      16,
		MinPitch:         -0.2,
		MaxPitch:         1.3,
		YawSensitivity:   0.005,
		PitchSensitivity: 0.005,
		ZoomSensitivity:  0.1,
		LookHeight:       1.2,
		Damping:          10,
		OcclusionMargin:  0.2,
	}
}

// HandleMouse applies accumulated mouse deltas to yaw and pitch.
func (c *FollowCamera) HandleMouse(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.YawSensitivity
	c.Pitch += deltaY * c.PitchSensitivity
	c.Pitch = math.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from the target.
func (c *FollowCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Update eases the camera toward its orbit point behind the target. The
// occlusion probe runs from the anchor toward the desired position,
// excluding the player's own collider; a hit pulls the camera just in
// front of the surface.
func (c *FollowCamera) Update(dt float32, target math.Vec3, world *physics.World, exclude physics.ColliderHandle) {
	c.anchor = target.Add(math.Vec3{Y: c.LookHeight})

	offsetY := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	horizDist := c.Distance * float32(gomath.Cos(float64(c.Pitch)))
	offsetX := horizDist * float32(gomath.Sin(float64(c.Yaw)))
	offsetZ := horizDist * float32(gomath.Cos(float64(c.Yaw)))

	desired := math.Vec3{
		X: c.anchor.X - offsetX,
		Y: c.anchor.Y + offsetY,
		Z: c.anchor.Z - offsetZ,
	}

	if world != nil {
		toCamera := desired.Sub(c.anchor)
		dist := toCamera.Length()
		if dist > 1e-4 {
			dir := toCamera.Scale(1 / dist)
			if hit, ok := world.Raycast(c.anchor, dir, dist, exclude); ok {
				pulled := hit.Distance - c.OcclusionMargin
				if pulled < 0 {
					pulled = 0
				}
				desired = c.anchor.Add(dir.Scale(pulled))
			}
		}
	}

	if !c.primed {
		c.position = desired
		c.primed = true
		return
	}
	t := 1 - float32(gomath.Exp(float64(-c.Damping*dt)))
	c.position = c.position.Lerp(desired, t)
}

// Position returns the smoothed camera position.
func (c *FollowCamera) Position() math.Vec3 {
	return c.position
}

// ViewMatrix returns the view matrix looking at the current anchor.
func (c *FollowCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.position, c.anchor, math.Up)
}

// ForwardDirection returns the camera's forward direction on the XZ plane.
func (c *FollowCamera) ForwardDirection() (x, z float32) {
	return float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))
}

// RightDirection returns the camera's right direction on the XZ plane.
func (c *FollowCamera) RightDirection() (x, z float32) {
	return float32(-gomath.Cos(float64(c.Yaw))), float32(gomath.Sin(float64(c.Yaw)))
}
