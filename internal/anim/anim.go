// Package anim defines the animation contract between the simulation core
// and the external asset/animation provider. The core never touches clip
// data; it selects tags and drives a mixer.
package anim

import (
	"github.com/Faultbox/fellwander/pkg/math"
)

// Tag is a closed enumeration of the character's animation states.
type Tag int

// Animation tags.
const (
	Idle Tag = iota
	Walk
	Run
	Jump
	AltJump
)

// String returns the semantic clip name for the tag.
func (t Tag) String() string {
	switch t {
	case Idle:
		return "idle"
	case Walk:
		return "walk"
	case Run:
		return "run"
	case Jump:
		return "jump"
	case AltJump:
		return "alt-jump"
	default:
		return "unknown"
	}
}

// Clip is a named animation clip supplied by the asset provider.
type Clip struct {
	Name   string
	Length float32
}

// Library resolves tags to clips.
type Library interface {
	Lookup(tag Tag) (Clip, bool)
}

// Mixer is the playback contract the asset provider implements.
type Mixer interface {
	Play(clip Clip)
	Crossfade(from, to Clip, duration float32)
	Update(dt float32)
}

// ClipSet is a Library backed by a map, built from the provider's named
// clips once loading resolves.
type ClipSet struct {
	clips map[Tag]Clip
}

// NewClipSet builds a ClipSet from clips keyed by semantic name. Unknown
// names are ignored; missing tags simply fail Lookup.
func NewClipSet(named map[string]Clip) *ClipSet {
	s := &ClipSet{clips: make(map[Tag]Clip)}
	for _, tag := range []Tag{Idle, Walk, Run, Jump, AltJump} {
		if clip, ok := named[tag.String()]; ok {
			s.clips[tag] = clip
		}
	}
	return s
}

// Lookup resolves a tag to its clip.
func (s *ClipSet) Lookup(tag Tag) (Clip, bool) {
	clip, ok := s.clips[tag]
	return clip, ok
}

// Pending is the placeholder Library/Mixer pair used while the asset
// provider has not resolved yet (or failed). Gameplay continues with no
// visual animation state.
type Pending struct{}

// Lookup always reports absence.
func (Pending) Lookup(Tag) (Clip, bool) { return Clip{}, false }

// Play is a no-op.
func (Pending) Play(Clip) {}

// Crossfade is a no-op.
func (Pending) Crossfade(Clip, Clip, float32) {}

// Update is a no-op.
func (Pending) Update(float32) {}

// Bounds is a model's axis-aligned bounding box in local space.
type Bounds struct {
	Min, Max math.Vec3
}

const degenerateExtent = 1e-4

// FitGroundOffset computes the vertical offset that puts a model's base
// on the ground and a uniform scale normalizing its height to targetHeight.
// Degenerate boxes are skipped (ok=false) rather than divided by
// near-zero.
func FitGroundOffset(b Bounds, targetHeight float32) (scale, yOffset float32, ok bool) {
	extent := b.Max.Y - b.Min.Y
	if extent < degenerateExtent {
		return 1, 0, false
	}
	scale = targetHeight / extent
	yOffset = -b.Min.Y * scale
	return scale, yOffset, true
}
