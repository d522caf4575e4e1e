// Package game assembles the simulation: terrain, placement passes,
// player, camera and the per-frame update order.
package game

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/fellwander/internal/camera"
	"github.com/Faultbox/fellwander/internal/config"
	"github.com/Faultbox/fellwander/internal/input"
	"github.com/Faultbox/fellwander/internal/logger"
	"github.com/Faultbox/fellwander/internal/physics"
	"github.com/Faultbox/fellwander/internal/placement"
	"github.com/Faultbox/fellwander/internal/player"
	"github.com/Faultbox/fellwander/internal/rng"
	"github.com/Faultbox/fellwander/internal/terrain"
	"github.com/Faultbox/fellwander/pkg/math"
)

// Per-subsystem salts for deriving independent deterministic streams from
// one world seed.
const (
	saltTrees = iota + 1
	saltRocks
	saltBerries
	saltGoal
	saltPhases
)

const (
	gravityY = -9.81

	berryPickupRadius = 1.8
	goalRadius        = 2.5

	// Seconds without eating before the movement penalty kicks in.
	starveAfter = 90

	degToRad = gomath.Pi / 180
)

// World owns every simulation component and runs the frame loop.
type World struct {
	cfg *config.Config

	physics    *physics.World
	stepper    *physics.Stepper
	terrain    *terrain.Terrain
	terrainCol physics.ColliderHandle

	trees   *placement.Engine
	rocks   *placement.Engine
	berryE  *placement.Engine
	goal    *placement.Engine
	berries *placement.Collectibles
	goalPos math.Vec3

	player *player.Controller
	cam    *camera.FollowCamera
	mouse  input.MouseAccumulator

	elapsed     float32
	lastMeal    float32
	collected   int
	goalReached bool
	generation  int32
}

// NewWorld builds the full simulation from config. Structural failures
// (bad grid, broken collision mesh) abort; everything downstream degrades
// instead of failing.
func NewWorld(cfg *config.Config) (*World, error) {
	w := &World{cfg: cfg}
	if err := w.build(0); err != nil {
		return nil, err
	}
	return w, nil
}

// build constructs terrain, placements, player and camera for the given
// generation. Generation 0 is the initial world; resets bump it so every
// rebuild gets a fresh derived seed.
func (w *World) build(generation int32) error {
	w.generation = generation
	worldSeed := rng.Derive(w.cfg.World.Seed, w.cfg.World.SessionSalt+generation)

	w.physics = physics.NewWorld(math.Vec3{Y: gravityY})
	w.stepper = physics.NewStepper(w.physics)

	t, err := terrain.Generate(terrain.Config{
		Size:         w.cfg.World.GridSize,
		Width:        w.cfg.World.Width,
		Depth:        w.cfg.World.Depth,
		MaxHeight:    w.cfg.World.MaxHeight,
		Seed:         worldSeed,
		BorderWidth:  w.cfg.World.BorderWidth,
		BorderHeight: w.cfg.World.BorderHeight,
	})
	if err != nil {
		return fmt.Errorf("game: terrain generation: %w", err)
	}
	w.terrain = t

	col, err := t.BuildCollider(w.physics)
	if err != nil {
		return fmt.Errorf("game: terrain collider: %w", err)
	}
	w.terrainCol = col

	pl := w.cfg.Placement
	w.trees = placement.Place(t, w.physics, rng.Derive(worldSeed, saltTrees), placement.Params{
		Count:              pl.Trees,
		AttemptsPerItem:    30,
		MinOriginDist:      pl.SpawnClear,
		MaxSlope:           55 * degToRad,
		ScaleMin:           0.8,
		ScaleMax:           1.3,
		YJitter:            0.15,
		Collider:           placement.ColliderCylinder,
		ColliderHalfHeight: 2.6,
		ColliderRadius:     0.35,
	})
	w.rocks = placement.Place(t, w.physics, rng.Derive(worldSeed, saltRocks), placement.Params{
		Count:           pl.Rocks,
		AttemptsPerItem: 30,
		MinOriginDist:   pl.SpawnClear,
		MaxSlope:        65 * degToRad,
		ScaleMin:        0.6,
		ScaleMax:        1.6,
		Collider:        placement.ColliderBall,
		ColliderRadius:  0.5,
	})
	w.berryE = placement.Place(t, nil, rng.Derive(worldSeed, saltBerries), placement.Params{
		Count:           pl.Berries,
		AttemptsPerItem: 45,
		MinOriginDist:   pl.SpawnClear,
		MaxSlope:        35 * degToRad,
		ScaleMin:        0.35,
		ScaleMax:        0.5,
		Cluster: &placement.ClusterParams{
			Radius:  6,
			SizeMin: pl.BerryClusterMin,
			SizeMax: pl.BerryClusterMax,
		},
	})
	w.berries = placement.NewCollectibles(w.berryE.Instances(), rng.Derive(worldSeed, saltPhases))

	w.placeGoal(worldSeed, pl)

	spawn := math.Vec3{Y: t.HeightAt(0, 0) + w.cfg.Player.CapsuleHalfHeight + w.cfg.Player.CapsuleRadius + 0.1}
	w.player = player.New(w.physics, w.cfg.Player, spawn)
	w.cam = camera.NewFollowCamera()

	w.elapsed = 0
	w.lastMeal = 0
	w.collected = 0
	w.goalReached = false

	logger.Info("world built",
		zap.Int32("seed", worldSeed),
		zap.Int("trees", len(w.trees.Instances())),
		zap.Int("rocks", len(w.rocks.Instances())),
		zap.Int("berries", w.berries.Count()),
	)
	return nil
}

// placeGoal sites the goal cairn far from the spawn. If the full
// clearance is unsatisfiable on this terrain the requirement is halved
// until a site is found, never below the scenery clearance.
func (w *World) placeGoal(worldSeed int32, pl config.PlacementConfig) {
	clear := pl.GoalSpawnClear
	for {
		w.goal = placement.Place(w.terrain, w.physics, rng.Derive(worldSeed, saltGoal), placement.Params{
			Count:               1,
			AttemptsPerItem:     400,
			MinOriginDist:       clear,
			MaxSlope:            28 * degToRad,
			ScaleMin:            1,
			ScaleMax:            1.001,
			Collider:            placement.ColliderCuboid,
			ColliderHalfExtents: math.Vec3{X: 1.2, Y: 1.0, Z: 1.2},
		})
		if len(w.goal.Instances()) > 0 {
			w.goalPos = w.goal.Instances()[0].Position
			return
		}
		if clear <= pl.SpawnClear {
			logger.Warn("goal placement failed at minimum clearance, world has no goal")
			w.goalPos = math.Vec3{}
			return
		}
		clear /= 2
		logger.Warn("goal clearance unsatisfiable, relaxing", zap.Float32("clearance", clear))
	}
}

// Update advances the simulation by one frame. The order is fixed: input,
// controller intent, physics, transform sync, pickups, goal check, camera.
// A panic inside the frame is logged and the loop continues.
func (w *World) Update(dt float32, snap input.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("frame update recovered", zap.Any("panic", r))
		}
	}()

	dx, dy := w.mouse.Consume()
	w.cam.HandleMouse(dx, dy)

	allowMove := !w.player.Celebrating()
	w.player.ApplyInput(dt, snap, w.cam.Yaw, allowMove)
	w.stepper.Step(dt)
	w.player.Sync(dt, allowMove)

	w.berries.Update(dt)
	if n := w.berries.CollectNear(w.player.Position(), berryPickupRadius); n > 0 {
		w.collected += n
		w.lastMeal = w.elapsed
		w.player.SetStarving(false)
		logger.Info("berries collected",
			zap.Int("new", n),
			zap.Int("total", w.collected),
			zap.Int("remaining", w.berries.Remaining()),
		)
	}

	if w.elapsed-w.lastMeal > starveAfter {
		w.player.SetStarving(true)
	}

	if !w.goalReached && len(w.goal.Instances()) > 0 {
		d := w.player.Position().WithY(0).Sub(w.goalPos.WithY(0)).Length()
		if d <= goalRadius {
			w.goalReached = true
			w.player.SetCelebrating(true)
			logger.Info("goal reached", zap.Float32("elapsed", w.elapsed))
		}
	}

	w.cam.Update(dt, w.player.Position(), w.physics, w.player.Collider())
	w.elapsed += dt
}

// Reset tears the world down and rebuilds it with a freshly derived seed.
// Collider bookkeeping is explicit: placements and player release their
// handles before the rebuild.
func (w *World) Reset() error {
	w.trees.Dispose(w.physics)
	w.rocks.Dispose(w.physics)
	w.goal.Dispose(w.physics)
	w.player.Dispose()
	w.physics.RemoveCollider(w.terrainCol)

	if n := w.physics.ColliderCount(); n != 0 {
		logger.Warn("reset leaked colliders", zap.Int("count", n))
	}
	return w.build(w.generation + 1)
}

// Mouse returns the camera-delta accumulator for the input layer to feed.
func (w *World) Mouse() *input.MouseAccumulator {
	return &w.mouse
}

// Player returns the character controller.
func (w *World) Player() *player.Controller {
	return w.player
}

// Camera returns the follow camera.
func (w *World) Camera() *camera.FollowCamera {
	return w.cam
}

// Terrain returns the generated heightfield.
func (w *World) Terrain() *terrain.Terrain {
	return w.terrain
}

// Collected returns the number of berries picked up so far.
func (w *World) Collected() int {
	return w.collected
}

// GoalReached reports whether the player has arrived at the goal.
func (w *World) GoalReached() bool {
	return w.goalReached
}

// Elapsed returns total simulated time in seconds.
func (w *World) Elapsed() float32 {
	return w.elapsed
}
