package player

import "github.com/Faultbox/fellwander/internal/anim"

// speedBucket classifies horizontal speed for animation selection.
type speedBucket int

const (
	speedStill speedBucket = iota
	speedWalk
	speedRun
)

// bucketForSpeed maps horizontal speed to a bucket. The run threshold
// sits just above walk speed so running always registers while plain
// walking never flickers into the run clip.
func bucketForSpeed(speed, walkSpeed float32) speedBucket {
	switch {
	case speed <= 0.1:
		return speedStill
	case speed <= walkSpeed+0.1:
		return speedWalk
	default:
		return speedRun
	}
}

// selectTag is the closed transition table of the animation state
// machine. Physics decides first; animation only reflects it.
func selectTag(grounded bool, bucket speedBucket, jumpActive, runAbsent, celebrating bool) anim.Tag {
	if !grounded && jumpActive {
		if runAbsent {
			return anim.AltJump
		}
		return anim.Jump
	}
	if celebrating && grounded {
		// Celebration hops reuse the jump clip between launches
		return anim.Jump
	}
	switch bucket {
	case speedRun:
		return anim.Run
	case speedWalk:
		return anim.Walk
	default:
		return anim.Idle
	}
}
