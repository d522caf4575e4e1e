package physics

import (
	"github.com/Faultbox/fellwander/pkg/math"
)

// Advance moves the world forward by exactly one fixed step of h seconds:
// semi-implicit Euler integration for every dynamic body followed by
// contact resolution against static colliders.
func (w *World) Advance(h float32) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive {
			continue
		}
		b.velocity = b.velocity.Add(w.Gravity.Scale(h))
		b.position = b.position.Add(b.velocity.Scale(h))
		w.resolveContacts(b)
	}
}

// resolveContacts pushes a body's capsule out of static geometry. Ground
// support snaps the capsule onto the surface below; obstacles push it out
// sideways. Tangential response (sliding, friction feel) belongs to the
// character controller.
func (w *World) resolveContacts(b *body) {
	c := w.lookupCollider(b.collider)
	if c == nil || c.shape.Type != ShapeCapsule {
		return
	}
	halfSpan := c.shape.HalfHeight + c.shape.Radius

	// Support probe from above the head so a capsule that sank below the
	// surface during the step is still caught.
	origin := b.position.Add(math.Vec3{Y: halfSpan})
	if hit, ok := w.Raycast(origin, math.Vec3{Y: -1}, 2*halfSpan+0.5, b.collider); ok {
		surfaceY := origin.Y - hit.Distance
		if b.position.Y-halfSpan < surfaceY && hit.Normal.Y > 0.3 {
			b.position.Y = surfaceY + halfSpan
			if b.velocity.Y < 0 {
				b.velocity.Y = 0
			}
		}
	}

	for i := range w.colliders {
		obst := &w.colliders[i]
		if !obst.alive || obst.body.IsValid() {
			continue
		}
		switch obst.shape.Type {
		case ShapeCylinder:
			w.pushOutCylinder(b, c.shape, obst)
		case ShapeBall:
			w.pushOutBall(b, c.shape, obst)
		case ShapeCuboid:
			w.pushOutCuboid(b, c.shape, obst)
		}
	}
}

func (w *World) pushOutCylinder(b *body, capsule Shape, obst *collider) {
	capBottom := b.position.Y - capsule.HalfHeight - capsule.Radius
	capTop := b.position.Y + capsule.HalfHeight + capsule.Radius
	obstBottom := obst.position.Y - obst.shape.HalfHeight
	obstTop := obst.position.Y + obst.shape.HalfHeight
	if capBottom > obstTop || capTop < obstBottom {
		return
	}

	delta := b.position.XZ().Sub(obst.position.XZ())
	dist := delta.Length()
	minDist := capsule.Radius + obst.shape.Radius
	if dist >= minDist {
		return
	}

	var n math.Vec2
	if dist < 1e-5 {
		n = math.Vec2{X: 1}
	} else {
		n = delta.Scale(1 / dist)
	}
	push := n.Scale(minDist - dist)
	b.position.X += push.X
	b.position.Z += push.Y
	cancelHorizontalInto(b, n)
}

func (w *World) pushOutBall(b *body, capsule Shape, obst *collider) {
	// Closest point on the capsule axis segment to the ball center
	segY := math.Clamp(obst.position.Y, b.position.Y-capsule.HalfHeight, b.position.Y+capsule.HalfHeight)
	axisPoint := math.Vec3{X: b.position.X, Y: segY, Z: b.position.Z}

	delta := axisPoint.Sub(obst.position)
	dist := delta.Length()
	minDist := capsule.Radius + obst.shape.Radius
	if dist >= minDist {
		return
	}

	var n math.Vec3
	if dist < 1e-5 {
		n = math.Vec3{Y: 1}
	} else {
		n = delta.Scale(1 / dist)
	}
	b.position = b.position.Add(n.Scale(minDist - dist))
	if into := b.velocity.Dot(n); into < 0 {
		b.velocity = b.velocity.Sub(n.Scale(into))
	}
}

func (w *World) pushOutCuboid(b *body, capsule Shape, obst *collider) {
	minB := obst.position.Sub(obst.shape.HalfExtents)
	maxB := obst.position.Add(obst.shape.HalfExtents)

	// Closest point on the box to the capsule axis
	cx := math.Clamp(b.position.X, minB.X, maxB.X)
	cz := math.Clamp(b.position.Z, minB.Z, maxB.Z)
	segY := math.Clamp(math.Clamp(b.position.Y, minB.Y, maxB.Y),
		b.position.Y-capsule.HalfHeight, b.position.Y+capsule.HalfHeight)
	cy := math.Clamp(segY, minB.Y, maxB.Y)
	closest := math.Vec3{X: cx, Y: cy, Z: cz}

	axisPoint := math.Vec3{X: b.position.X, Y: segY, Z: b.position.Z}
	delta := axisPoint.Sub(closest)
	dist := delta.Length()
	if dist >= capsule.Radius || dist < 1e-6 {
		return
	}

	n := delta.Scale(1 / dist)
	b.position = b.position.Add(n.Scale(capsule.Radius - dist))
	if into := b.velocity.Dot(n); into < 0 {
		b.velocity = b.velocity.Sub(n.Scale(into))
	}
}

func cancelHorizontalInto(b *body, n math.Vec2) {
	vel2 := math.Vec2{X: b.velocity.X, Y: b.velocity.Z}
	into := vel2.Dot(n)
	if into < 0 {
		vel2 = vel2.Sub(n.Scale(into))
		b.velocity.X = vel2.X
		b.velocity.Z = vel2.Y
	}
}
