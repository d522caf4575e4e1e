// Package config handles simulation configuration loading and validation.
package config

import "fmt"

// Config holds all simulation settings.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Player    PlayerConfig    `yaml:"player"`
	Placement PlacementConfig `yaml:"placement"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig holds terrain generation and seeding settings.
type WorldConfig struct {
	Seed         int32   `yaml:"seed"`
	SessionSalt  int32   `yaml:"session_salt"` // Explicit per-run variation; zero keeps layouts identical
	Width        float32 `yaml:"width"`
	Depth        float32 `yaml:"depth"`
	GridSize     int     `yaml:"grid_size"` // Heightfield resolution, must be odd
	MaxHeight    float32 `yaml:"max_height"`
	BorderWidth  float32 `yaml:"border_width"`
	BorderHeight float32 `yaml:"border_height"`
}

// PlayerConfig holds character controller tuning.
type PlayerConfig struct {
	CapsuleHalfHeight float32 `yaml:"capsule_half_height"`
	CapsuleRadius     float32 `yaml:"capsule_radius"`
	WalkSpeed         float32 `yaml:"walk_speed"`
	RunSpeed          float32 `yaml:"run_speed"`
	StarvingSpeedMul  float32 `yaml:"starving_speed_mul"`
	Accel             float32 `yaml:"accel"`
	JumpSpeed         float32 `yaml:"jump_speed"`
	CoyoteTime        float32 `yaml:"coyote_time"`
	JumpBufferTime    float32 `yaml:"jump_buffer_time"`
	MaxClimbSlopeDeg  float32 `yaml:"max_climb_slope_deg"`
	SlideSlopeDeg     float32 `yaml:"slide_slope_deg"`
	SlideStrength     float32 `yaml:"slide_strength"`
	HopCooldown       float32 `yaml:"hop_cooldown"`
}

// PlacementConfig holds procedural placement counts and clearances.
type PlacementConfig struct {
	Trees           int     `yaml:"trees"`
	Rocks           int     `yaml:"rocks"`
	Berries         int     `yaml:"berries"`
	BerryClusterMin int     `yaml:"berry_cluster_min"`
	BerryClusterMax int     `yaml:"berry_cluster_max"`
	SpawnClear      float32 `yaml:"spawn_clear"`      // Min distance from origin for scenery
	GoalSpawnClear  float32 `yaml:"goal_spawn_clear"` // Min distance from origin for the goal cairn
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:         42,
			SessionSalt:  0,
			Width:        1000,
			Depth:        1000,
			GridSize:     513,
			MaxHeight:    60,
			BorderWidth:  120,
			BorderHeight: 90,
		},
		Player: PlayerConfig{
			CapsuleHalfHeight: 0.55,
			CapsuleRadius:     0.35,
			WalkSpeed:         3.2,
			RunSpeed:          6.0,
			StarvingSpeedMul:  0.55,
			Accel:             40,
			JumpSpeed:         7.5,
			CoyoteTime:        0.12,
			JumpBufferTime:    0.12,
			MaxClimbSlopeDeg:  46,
			SlideSlopeDeg:     52,
			SlideStrength:     9,
			HopCooldown:       0.8,
		},
		Placement: PlacementConfig{
			Trees:           260,
			Rocks:           80,
			Berries:         48,
			BerryClusterMin: 4,
			BerryClusterMax: 9,
			SpawnClear:      12,
			GoalSpawnClear:  260,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks structural constraints. A failure here aborts startup.
func (c *Config) Validate() error {
	w := c.World
	if w.GridSize < 3 || w.GridSize%2 == 0 {
		return fmt.Errorf("world.grid_size must be odd and >= 3, got %d", w.GridSize)
	}
	if w.Width <= 0 || w.Depth <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %gx%g", w.Width, w.Depth)
	}
	if w.BorderWidth < 0 || w.BorderHeight < 0 {
		return fmt.Errorf("border dimensions must be non-negative")
	}

	p := c.Player
	if p.CapsuleHalfHeight <= 0 || p.CapsuleRadius <= 0 {
		return fmt.Errorf("player capsule dimensions must be positive")
	}
	if p.CoyoteTime < 0 || p.JumpBufferTime < 0 {
		return fmt.Errorf("player timing windows must be non-negative")
	}
	// The slide band sits above the climb limit; a slide threshold below
	// it would never be reached.
	if p.SlideSlopeDeg < p.MaxClimbSlopeDeg {
		return fmt.Errorf("player slide_slope_deg (%g) must not be below max_climb_slope_deg (%g)",
			p.SlideSlopeDeg, p.MaxClimbSlopeDeg)
	}

	pl := c.Placement
	if pl.Trees < 0 || pl.Rocks < 0 || pl.Berries < 0 {
		return fmt.Errorf("placement counts must be non-negative")
	}
	if pl.BerryClusterMin < 1 || pl.BerryClusterMax < pl.BerryClusterMin {
		return fmt.Errorf("berry cluster range [%d, %d] is invalid", pl.BerryClusterMin, pl.BerryClusterMax)
	}
	return nil
}
