package physics

import (
	"github.com/Faultbox/fellwander/pkg/math"
)

// BodyHandle is an opaque reference to a rigid body. The zero value is
// invalid.
type BodyHandle struct {
	index int32
	gen   uint32
}

// ColliderHandle is an opaque reference to a collider. The zero value is
// invalid and can be used as the "no exclusion" argument to Raycast.
type ColliderHandle struct {
	index int32
	gen   uint32
}

// IsValid reports whether the handle was ever issued.
func (h BodyHandle) IsValid() bool { return h.gen != 0 }

// IsValid reports whether the handle was ever issued.
func (h ColliderHandle) IsValid() bool { return h.gen != 0 }

// body is a dynamic rigid body. Rotation is either locked (identity) or
// driven by the owner; this world never integrates angular velocity.
type body struct {
	gen           uint32
	alive         bool
	position      math.Vec3
	velocity      math.Vec3
	lockRotations bool
	collider      ColliderHandle
}

type collider struct {
	gen      uint32
	alive    bool
	shape    Shape
	position math.Vec3 // center for statics; ignored for body-attached
	friction float32
	body     BodyHandle // invalid for static colliders
}

// World owns all bodies and colliders. Handles are arena indices with
// generation counters so stale handles never alias recycled slots.
type World struct {
	Gravity math.Vec3

	bodies        []body
	freeBodies    []int32
	colliders     []collider
	freeColliders []int32
}

// NewWorld creates a physics world with the given gravity.
func NewWorld(gravity math.Vec3) *World {
	return &World{Gravity: gravity}
}

// CreateBody adds a dynamic body at the given position. lockRotations
// keeps the body upright (used by the character controller).
func (w *World) CreateBody(position math.Vec3, lockRotations bool) BodyHandle {
	var idx int32
	if n := len(w.freeBodies); n > 0 {
		idx = w.freeBodies[n-1]
		w.freeBodies = w.freeBodies[:n-1]
	} else {
		w.bodies = append(w.bodies, body{})
		idx = int32(len(w.bodies) - 1)
	}
	slot := &w.bodies[idx]
	slot.gen++
	slot.alive = true
	slot.position = position
	slot.velocity = math.Vec3{}
	slot.lockRotations = lockRotations
	slot.collider = ColliderHandle{}
	return BodyHandle{index: idx, gen: slot.gen}
}

// RemoveBody removes a body and its attached collider, if any. Safe to
// call with a stale handle.
func (w *World) RemoveBody(h BodyHandle) {
	b := w.lookupBody(h)
	if b == nil {
		return
	}
	if b.collider.IsValid() {
		w.RemoveCollider(b.collider)
	}
	b.alive = false
	w.freeBodies = append(w.freeBodies, h.index)
}

// AttachCollider attaches a shape to a dynamic body. The collider follows
// the body's position.
func (w *World) AttachCollider(bh BodyHandle, shape Shape) ColliderHandle {
	b := w.lookupBody(bh)
	if b == nil {
		return ColliderHandle{}
	}
	h := w.addCollider(collider{shape: shape, friction: 0.5, body: bh})
	b.collider = h
	return h
}

// CreateCollider adds a static collider at the given position.
func (w *World) CreateCollider(shape Shape, position math.Vec3, friction float32) ColliderHandle {
	return w.addCollider(collider{shape: shape, position: position, friction: friction})
}

func (w *World) addCollider(c collider) ColliderHandle {
	var idx int32
	if n := len(w.freeColliders); n > 0 {
		idx = w.freeColliders[n-1]
		w.freeColliders = w.freeColliders[:n-1]
	} else {
		w.colliders = append(w.colliders, collider{})
		idx = int32(len(w.colliders) - 1)
	}
	slot := &w.colliders[idx]
	gen := slot.gen + 1
	c.gen = gen
	c.alive = true
	w.colliders[idx] = c
	return ColliderHandle{index: idx, gen: gen}
}

// RemoveCollider removes a collider. Safe to call with a stale handle.
func (w *World) RemoveCollider(h ColliderHandle) {
	c := w.lookupCollider(h)
	if c == nil {
		return
	}
	if c.body.IsValid() {
		if b := w.lookupBody(c.body); b != nil && b.collider == h {
			b.collider = ColliderHandle{}
		}
	}
	c.alive = false
	w.freeColliders = append(w.freeColliders, h.index)
}

// ColliderCount returns the number of live colliders. Used by reset logic
// to verify disposal discipline.
func (w *World) ColliderCount() int {
	n := 0
	for i := range w.colliders {
		if w.colliders[i].alive {
			n++
		}
	}
	return n
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	n := 0
	for i := range w.bodies {
		if w.bodies[i].alive {
			n++
		}
	}
	return n
}

// BodyPosition returns the body's position, or the zero vector for a
// stale handle.
func (w *World) BodyPosition(h BodyHandle) math.Vec3 {
	if b := w.lookupBody(h); b != nil {
		return b.position
	}
	return math.Vec3{}
}

// SetBodyPosition teleports a body.
func (w *World) SetBodyPosition(h BodyHandle, p math.Vec3) {
	if b := w.lookupBody(h); b != nil {
		b.position = p
	}
}

// BodyVelocity returns the body's linear velocity.
func (w *World) BodyVelocity(h BodyHandle) math.Vec3 {
	if b := w.lookupBody(h); b != nil {
		return b.velocity
	}
	return math.Vec3{}
}

// SetBodyVelocity sets the body's linear velocity.
func (w *World) SetBodyVelocity(h BodyHandle, v math.Vec3) {
	if b := w.lookupBody(h); b != nil {
		b.velocity = v
	}
}

func (w *World) lookupBody(h BodyHandle) *body {
	if !h.IsValid() || h.index < 0 || int(h.index) >= len(w.bodies) {
		return nil
	}
	b := &w.bodies[h.index]
	if !b.alive || b.gen != h.gen {
		return nil
	}
	return b
}

func (w *World) lookupCollider(h ColliderHandle) *collider {
	if !h.IsValid() || h.index < 0 || int(h.index) >= len(w.colliders) {
		return nil
	}
	c := &w.colliders[h.index]
	if !c.alive || c.gen != h.gen {
		return nil
	}
	return c
}

// colliderCenter returns the collider's world-space center.
func (w *World) colliderCenter(c *collider) math.Vec3 {
	if c.body.IsValid() {
		if b := w.lookupBody(c.body); b != nil {
			return b.position
		}
	}
	return c.position
}
