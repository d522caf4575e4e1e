package placement

import (
	gomath "math"

	"github.com/Faultbox/fellwander/internal/rng"
	"github.com/Faultbox/fellwander/pkg/math"
)

// popDuration is the length of the pop-out animation after pickup.
const popDuration = 0.35

// Collectibles wraps placed instances with pickup state. Scenery
// instances are immutable after placement; collectibles additionally
// track a collected flag and a pop-out timer.
type Collectibles struct {
	instances []Instance
	collected []bool
	popTimers []float32
	phases    []float32
}

// NewCollectibles builds pickup state over placed instances. Pulse phases
// are drawn once from the given seed; updates are pure afterwards.
func NewCollectibles(instances []Instance, seed int32) *Collectibles {
	r := rng.New(seed)
	c := &Collectibles{
		instances: instances,
		collected: make([]bool, len(instances)),
		popTimers: make([]float32, len(instances)),
		phases:    make([]float32, len(instances)),
	}
	for i := range c.phases {
		c.phases[i] = r.Range(0, 2*gomath.Pi)
	}
	return c
}

// Update ticks the pop-out timers of collected instances.
func (c *Collectibles) Update(dt float32) {
	for i := range c.popTimers {
		if c.collected[i] && c.popTimers[i] < popDuration {
			c.popTimers[i] += dt
		}
	}
}

// CollectNear marks every uncollected instance within radius of pos as
// collected and starts its pop-out. Returns the count newly collected.
func (c *Collectibles) CollectNear(pos math.Vec3, radius float32) int {
	radiusSq := radius * radius
	n := 0
	for i := range c.instances {
		if c.collected[i] {
			continue
		}
		if c.instances[i].Position.DistanceSq(pos) <= radiusSq {
			c.collected[i] = true
			c.popTimers[i] = 0
			n++
		}
	}
	return n
}

// NearestUncollected returns the closest uncollected position, if any.
func (c *Collectibles) NearestUncollected(from math.Vec3) (math.Vec3, bool) {
	best := float32(gomath.Inf(1))
	var bestPos math.Vec3
	found := false
	for i := range c.instances {
		if c.collected[i] {
			continue
		}
		if d := c.instances[i].Position.DistanceSq(from); d < best {
			best = d
			bestPos = c.instances[i].Position
			found = true
		}
	}
	return bestPos, found
}

// Remaining returns the number of uncollected instances.
func (c *Collectibles) Remaining() int {
	n := 0
	for _, done := range c.collected {
		if !done {
			n++
		}
	}
	return n
}

// Count returns the total number of instances.
func (c *Collectibles) Count() int {
	return len(c.instances)
}

// Instances returns the underlying transforms.
func (c *Collectibles) Instances() []Instance {
	return c.instances
}

// Collected reports whether instance i has been picked up.
func (c *Collectibles) Collected(i int) bool {
	return c.collected[i]
}

// VisualScale returns the render scale of instance i at the given elapsed
// time: an idle pulse while uncollected, a brief pop-out after pickup,
// zero once popped. A pure function of base scale, phase and pop timer,
// with no randomness at update time.
func (c *Collectibles) VisualScale(i int, elapsed float32) float32 {
	base := c.instances[i].Scale
	if !c.collected[i] {
		pulse := 1 + 0.08*float32(gomath.Sin(float64(elapsed*2+c.phases[i])))
		return base * pulse
	}
	p := c.popTimers[i] / popDuration
	if p >= 1 {
		return 0
	}
	// Swell briefly, then shrink away
	return base * (1 + 0.5*p) * (1 - p)
}
