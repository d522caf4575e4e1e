// Package player implements the physics-driven character controller:
// ground probing, slope climb/slide resolution, coyote-time and
// jump-buffer input smoothing, and animation tag selection.
package player

import (
	gomath "math"

	"github.com/Faultbox/fellwander/internal/anim"
	"github.com/Faultbox/fellwander/internal/config"
	"github.com/Faultbox/fellwander/internal/input"
	"github.com/Faultbox/fellwander/internal/logger"
	"github.com/Faultbox/fellwander/internal/physics"
	"github.com/Faultbox/fellwander/pkg/math"
)

const (
	// Ground probe reach beyond the capsule bottom, and the tighter
	// tolerance within which the body counts as grounded.
	probeReach     = 0.25
	groundedSlack  = 0.05
	headingMinimum = 0.1 // min desired speed before the body turns

	// How long the jump animation stays selected after launch.
	jumpAnimTime = 0.45

	hopJumpFactor = 0.55
)

// Controller drives the player's rigid body. The authoritative state is
// physical (position, velocity, grounded); the animation state machine is
// derived and display-only.
type Controller struct {
	cfg   config.PlayerConfig
	world *physics.World

	body     physics.BodyHandle
	collider physics.ColliderHandle

	grounded     bool
	groundNormal math.Vec3
	desiredVel   math.Vec3

	coyoteTimer     float32
	jumpBufferTimer float32
	jumpTimer       float32
	hopTimer        float32

	runAbsentAtLaunch bool
	starving          bool
	celebrating       bool

	orientation math.Quat
	tag         anim.Tag

	library anim.Library
	mixer   anim.Mixer
	warned  bool // one warning per missing-clip state

	maxClimbSlope float32
	slideSlope    float32
}

// New creates a controller with its capsule body at the spawn position.
// The body is rotation-locked; visual orientation is handled in Sync.
func New(world *physics.World, cfg config.PlayerConfig, spawn math.Vec3) *Controller {
	c := &Controller{
		cfg:           cfg,
		world:         world,
		groundNormal:  math.Up,
		orientation:   math.QuatIdentity(),
		library:       anim.Pending{},
		mixer:         anim.Pending{},
		maxClimbSlope: cfg.MaxClimbSlopeDeg * gomath.Pi / 180,
		slideSlope:    cfg.SlideSlopeDeg * gomath.Pi / 180,
	}
	c.body = world.CreateBody(spawn, true)
	c.collider = world.AttachCollider(c.body, physics.Capsule(cfg.CapsuleHalfHeight, cfg.CapsuleRadius))
	return c
}

// SetAnimations installs the resolved animation library and mixer. Until
// called the controller runs against inert placeholders; gameplay is
// unaffected by a late or failed asset load.
func (c *Controller) SetAnimations(library anim.Library, mixer anim.Mixer) {
	c.library = library
	c.mixer = mixer
	c.warned = false
}

// ApplyInput runs the pre-physics half of the frame: probing, timers,
// desired velocity, slope resolution and the jump decision. The result is
// written to the rigid body; the physics step moves it.
func (c *Controller) ApplyInput(dt float32, in input.Snapshot, cameraYaw float32, allowMove bool) {
	c.probeGround()

	// Coyote time: full window while grounded, decaying after leaving it
	if c.grounded {
		c.coyoteTimer = c.cfg.CoyoteTime
	} else if c.coyoteTimer > 0 {
		c.coyoteTimer -= dt
	}

	// Jump buffer: reset on the press edge, decaying otherwise
	if in.JumpPressed {
		c.jumpBufferTimer = c.cfg.JumpBufferTime
	} else if c.jumpBufferTimer > 0 {
		c.jumpBufferTimer -= dt
	}

	if c.hopTimer > 0 {
		c.hopTimer -= dt
	}

	c.desiredVel = c.desiredVelocity(in, cameraYaw, allowMove)
	if c.grounded {
		c.resolveSlope()
	}

	vel := c.world.BodyVelocity(c.body)
	maxDelta := c.cfg.Accel * dt
	vel.X = math.Approach(vel.X, c.desiredVel.X, maxDelta)
	vel.Z = math.Approach(vel.Z, c.desiredVel.Z, maxDelta)

	switch {
	case c.coyoteTimer > 0 && c.jumpBufferTimer > 0:
		vel.Y = c.cfg.JumpSpeed
		c.coyoteTimer = 0
		c.jumpBufferTimer = 0
		c.grounded = false
		c.runAbsentAtLaunch = !in.RunHeld
		c.jumpTimer = jumpAnimTime
	case c.celebrating && c.grounded && c.hopTimer <= 0:
		// Automatic celebration hop, lower than a real jump
		vel.Y = c.cfg.JumpSpeed * hopJumpFactor
		c.hopTimer = c.cfg.HopCooldown
		c.grounded = false
		c.runAbsentAtLaunch = false
		c.jumpTimer = jumpAnimTime
	}

	c.world.SetBodyVelocity(c.body, vel)
}

// probeGround casts straight down from the body center, excluding the
// controller's own capsule. The probe reaches a little past the capsule
// bottom; grounding uses a tighter tolerance.
func (c *Controller) probeGround() {
	bottom := c.cfg.CapsuleHalfHeight + c.cfg.CapsuleRadius
	origin := c.world.BodyPosition(c.body)

	hit, ok := c.world.Raycast(origin, math.Vec3{Y: -1}, bottom+probeReach, c.collider)
	if ok && hit.Distance <= bottom+groundedSlack {
		c.grounded = true
		c.groundNormal = hit.Normal
		return
	}
	c.grounded = false
	c.groundNormal = math.Up
}

// desiredVelocity rotates the input axes into world space by the camera
// yaw and scales them to the active speed cap.
func (c *Controller) desiredVelocity(in input.Snapshot, cameraYaw float32, allowMove bool) math.Vec3 {
	if !allowMove {
		return math.Vec3{}
	}

	move := math.Vec2{X: in.Right, Y: in.Forward}
	if move.LengthSq() > 1 {
		move = move.Normalize()
	}
	if move.LengthSq() == 0 {
		return math.Vec3{}
	}

	speed := c.cfg.WalkSpeed
	if in.RunHeld {
		speed = c.cfg.RunSpeed
	}
	if c.starving {
		speed *= c.cfg.StarvingSpeedMul
	}

	sin := float32(gomath.Sin(float64(cameraYaw)))
	cos := float32(gomath.Cos(float64(cameraYaw)))
	forward := math.Vec3{X: sin, Z: cos}
	right := math.Vec3{X: -cos, Z: sin}

	dir := forward.Scale(move.Y).Add(right.Scale(move.X))
	return dir.Scale(speed)
}

// resolveSlope strips up-slope intent above the climb limit and blends in
// a slide term above the slide limit. The controller only drives the
// horizontal velocity axes, so the resolution works in the XZ plane.
func (c *Controller) resolveSlope() {
	ny := math.Clamp(c.groundNormal.Y, -1, 1)
	slope := float32(gomath.Acos(float64(ny)))
	if slope <= c.maxClimbSlope {
		return
	}

	// The normal's horizontal component points downhill
	downhill := math.Vec2{X: c.groundNormal.X, Y: c.groundNormal.Z}
	if downhill.LengthSq() < 1e-8 {
		return
	}
	downhill = downhill.Normalize()
	uphill := downhill.Scale(-1)

	horiz := math.Vec2{X: c.desiredVel.X, Y: c.desiredVel.Z}
	if climb := horiz.Dot(uphill); climb > 0 {
		horiz = horiz.Sub(uphill.Scale(climb))
	}

	if slope > c.slideSlope {
		// Resistance ramps smoothly from the slide limit up to vertical
		t := math.Clamp((slope-c.slideSlope)/(gomath.Pi/2-c.slideSlope), 0, 1)
		horiz = horiz.Add(downhill.Scale(c.cfg.SlideStrength * t))
	}
	c.desiredVel.X, c.desiredVel.Z = horiz.X, horiz.Y
}

// Sync runs the post-physics half of the frame: reads the body's new
// transform, turns the visual orientation toward the movement heading and
// advances the animation state machine.
func (c *Controller) Sync(dt float32, allowRotate bool) {
	if c.jumpTimer > 0 {
		c.jumpTimer -= dt
	}

	horiz := c.desiredVel.WithY(0)
	if allowRotate && horiz.Length() > headingMinimum {
		heading := float32(gomath.Atan2(float64(horiz.X), float64(horiz.Z)))
		target := math.QuatFromYaw(heading)
		t := 1 - float32(gomath.Exp(float64(-12*dt)))
		c.orientation = c.orientation.Slerp(target, t)
	}

	speed := c.world.BodyVelocity(c.body).WithY(0).Length()
	next := selectTag(c.grounded, bucketForSpeed(speed, c.cfg.WalkSpeed), c.jumpTimer > 0, c.runAbsentAtLaunch, c.celebrating)
	if next != c.tag {
		c.transition(c.tag, next)
		c.tag = next
	}

	// The mixer ticks every frame regardless of transitions
	c.mixer.Update(dt)
}

// transition crossfades between clips. Missing clips (assets pending or
// failed) degrade to a state change with a single warning.
func (c *Controller) transition(from, to anim.Tag) {
	toClip, ok := c.library.Lookup(to)
	if !ok {
		if !c.warned {
			logger.Warn("animation clip unavailable, continuing without visuals")
			c.warned = true
		}
		return
	}
	fromClip, ok := c.library.Lookup(from)
	if !ok {
		c.mixer.Play(toClip)
		return
	}
	c.mixer.Crossfade(fromClip, toClip, 0.15)
}

// Position returns the body's world position.
func (c *Controller) Position() math.Vec3 {
	return c.world.BodyPosition(c.body)
}

// Teleport moves the body and zeroes its velocity. Used on respawn.
func (c *Controller) Teleport(pos math.Vec3) {
	c.world.SetBodyPosition(c.body, pos)
	c.world.SetBodyVelocity(c.body, math.Vec3{})
}

// Velocity returns the body's linear velocity.
func (c *Controller) Velocity() math.Vec3 {
	return c.world.BodyVelocity(c.body)
}

// Orientation returns the visual orientation (decoupled from the
// rotation-locked body).
func (c *Controller) Orientation() math.Quat {
	return c.orientation
}

// Grounded reports whether the last probe confirmed ground contact.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// GroundNormal returns the last probed surface normal (up when airborne).
func (c *Controller) GroundNormal() math.Vec3 {
	return c.groundNormal
}

// Tag returns the active animation tag.
func (c *Controller) Tag() anim.Tag {
	return c.tag
}

// SetStarving toggles the starvation speed penalty.
func (c *Controller) SetStarving(v bool) {
	c.starving = v
}

// SetCelebrating toggles celebration mode: movement is typically frozen
// by the caller and the controller performs periodic hops.
func (c *Controller) SetCelebrating(v bool) {
	c.celebrating = v
	if v {
		c.hopTimer = 0
	}
}

// Celebrating reports whether celebration mode is active.
func (c *Controller) Celebrating() bool {
	return c.celebrating
}

// Collider returns the controller's capsule handle, used by the camera's
// occlusion probe for self-exclusion.
func (c *Controller) Collider() physics.ColliderHandle {
	return c.collider
}

// Dispose removes the body and its collider from the physics world. The
// world does not collect handles implicitly.
func (c *Controller) Dispose() {
	c.world.RemoveBody(c.body)
	c.body = physics.BodyHandle{}
	c.collider = physics.ColliderHandle{}
}
