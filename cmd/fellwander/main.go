// Package main is the headless entry point for the Fellwander simulation
// core. It builds the world from config and drives it with a scripted
// wander until the frame budget or an interrupt stops it.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/fellwander/internal/config"
	"github.com/Faultbox/fellwander/internal/game"
	"github.com/Faultbox/fellwander/internal/input"
	"github.com/Faultbox/fellwander/internal/logger"
	"github.com/Faultbox/fellwander/internal/physics"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Fellwander ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	w, err := game.NewWorld(cfg)
	if err != nil {
		logger.Error("failed to build world", zap.Error(err))
		os.Exit(1)
	}

	if err := run(w, config.Frames()); err != nil {
		logger.Error("simulation error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("simulation finished",
		zap.Float32("elapsed", w.Elapsed()),
		zap.Int("berries", w.Collected()),
		zap.Bool("goal_reached", w.GoalReached()),
	)
}

// run drives the world at the fixed timestep. frames <= 0 runs until an
// interrupt arrives.
func run(w *game.World, frames int) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	script := wanderScript(frames)
	frame := 0
	for frames <= 0 || frame < frames {
		select {
		case sig := <-interrupt:
			logger.Info("interrupted", zap.String("signal", sig.String()))
			return nil
		default:
		}

		w.Update(physics.FixedStep, script.Next())
		frame++

		// A progress line every simulated ten seconds
		if frame%600 == 0 {
			logger.Info("progress",
				zap.Int("frame", frame),
				zap.Int("berries", w.Collected()),
				zap.Bool("goal_reached", w.GoalReached()),
			)
		}
		if w.GoalReached() {
			logger.Info("goal reached, stopping", zap.Int("frame", frame))
			return nil
		}
	}
	return nil
}

// wanderScript walks forward with a periodic turn of the movement axes
// and an occasional jump, enough to exercise the whole controller.
func wanderScript(frames int) *input.Script {
	if frames <= 0 {
		frames = 36000 // ten simulated minutes
	}
	s := &input.Script{Frames: make([]input.Snapshot, frames)}
	for i := range s.Frames {
		snap := input.Snapshot{Forward: 1}
		switch (i / 300) % 4 {
		case 1:
			snap.Right = 1
		case 3:
			snap.Right = -1
			snap.RunHeld = true
		}
		if i%450 == 0 && i > 0 {
			snap.JumpPressed = true
		}
		snap.JumpHeld = snap.JumpPressed
		s.Frames[i] = snap
	}
	return s
}
