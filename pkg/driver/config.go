package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"

	"wsharp/interpreter-go/pkg/runtime"
)

// Config is the environment-derived configuration shared by every command.
type Config struct {
	// Home is the cache root for git sources ($WSHARP_HOME, default ~/.wsharp).
	Home string
	// Seed makes runs reproducible when HasSeed is set ($WSHARP_SEED).
	Seed    uint64
	HasSeed bool
	// MaxSteps bounds runs; 0 means unbounded ($WSHARP_MAX_STEPS).
	MaxSteps uint64
	// Trace enables per-step debug logging ($WSHARP_TRACE).
	Trace bool
	// NoColor disables coloured diagnostics ($NO_COLOR).
	NoColor bool
}

// LoadConfig reads the WSHARP_* variables and NO_COLOR.
func LoadConfig() (Config, error) {
	cfg := Config{
		Trace:   env.Bool("WSHARP_TRACE"),
		NoColor: env.Str("NO_COLOR") != "",
	}

	home, err := resolveHome(env.Str("WSHARP_HOME"))
	if err != nil {
		return Config{}, err
	}
	cfg.Home = home

	if raw := strings.TrimSpace(env.Str("WSHARP_SEED")); raw != "" {
		seed, err := ParseSeed(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: WSHARP_SEED: %w", err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}

	if raw := strings.TrimSpace(env.Str("WSHARP_MAX_STEPS")); raw != "" {
		maxSteps, err := ParseMaxSteps(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: WSHARP_MAX_STEPS: %w", err)
		}
		cfg.MaxSteps = maxSteps
	}
	return cfg, nil
}

// resolveHome picks the cache root: the explicit value when set, otherwise
// ~/.wsharp.
func resolveHome(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return filepath.Abs(explicit)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".wsharp"), nil
}

// ParseSeed parses a decimal seed. Seeds are unsigned 64-bit values.
func ParseSeed(raw string) (uint64, error) {
	seed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", raw, err)
	}
	return seed, nil
}

// ParseMaxSteps parses a decimal step limit; 0 means unbounded.
func ParseMaxSteps(raw string) (uint64, error) {
	steps, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid step limit %q: %w", raw, err)
	}
	return steps, nil
}

// RandomSource returns a seeded source when a seed is configured and the
// system CSPRNG otherwise.
func (c Config) RandomSource() runtime.RandomSource {
	if c.HasSeed {
		return runtime.NewSeededSource(c.Seed)
	}
	return runtime.NewCryptoSource()
}
