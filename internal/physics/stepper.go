package physics

// FixedStep is the physics timestep in seconds.
const FixedStep = float32(1.0 / 60.0)

// maxFrameTime caps a single frame's contribution to the accumulator so a
// long pause cannot trigger a spiral of death.
const maxFrameTime = float32(0.25)

// Stepper decouples the variable render frame time from the world's fixed
// timestep using an accumulator.
type Stepper struct {
	world       *World
	accumulator float32
}

// NewStepper creates a stepper for the given world.
func NewStepper(world *World) *Stepper {
	return &Stepper{world: world}
}

// Step feeds dt seconds of frame time to the accumulator and advances the
// world one fixed step at a time while the accumulator allows. Leftover
// time carries over to the next call.
func (s *Stepper) Step(dt float32) {
	if dt > maxFrameTime {
		dt = maxFrameTime
	}
	s.accumulator += dt
	for s.accumulator >= FixedStep {
		s.world.Advance(FixedStep)
		s.accumulator -= FixedStep
	}
}

// Accumulator returns the leftover simulation time in seconds.
func (s *Stepper) Accumulator() float32 {
	return s.accumulator
}
