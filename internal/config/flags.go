package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagSeed   = flag.Int("seed", 0, "World seed override")
	flagSalt   = flag.Int("salt", 0, "Session salt override")
	flagFrames = flag.Int("frames", 0, "Number of frames to simulate (0 = run until interrupted)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Frames returns the frame-count override from --frames.
func Frames() int {
	return *flagFrames
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.World.Seed = int32(*flagSeed)
	}
	if *flagSalt != 0 {
		cfg.World.SessionSalt = int32(*flagSalt)
	}
}
