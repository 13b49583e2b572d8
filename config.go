package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/thiremani/icc/vm"
	"github.com/xyproto/env/v2"
)

const (
	envCache     = "ICCACHE"
	envMaxSteps  = "ICC_MAX_STEPS"
	envMaxMemory = "ICC_MAX_MEMORY"
	envVerbose   = "ICC_VERBOSE"
)

// Config is what the environment contributes; command line flags override
// it per subcommand.
type Config struct {
	CacheDir  string
	MaxSteps  int64
	MaxMemory int64
	Verbose   bool
}

// loadConfig reads a fresh snapshot of the environment; env caches it
// between loads.
func loadConfig() Config {
	env.Load()
	return Config{
		CacheDir:  defaultCacheDir(),
		MaxSteps:  int64(env.Int(envMaxSteps, int(vm.DefaultOptions.MaxSteps))),
		MaxMemory: int64(env.Int(envMaxMemory, int(vm.DefaultOptions.MaxMemory))),
		Verbose:   env.Bool(envVerbose),
	}
}

func (cfg Config) vmOptions() vm.Options {
	return vm.Options{MaxSteps: cfg.MaxSteps, MaxMemory: cfg.MaxMemory}
}

// defaultCacheDir returns ICCACHE if set, and otherwise the per-user cache
// location for windows, mac and linux.
func defaultCacheDir() string {
	if dir := env.Str(envCache); dir != "" {
		return dir
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := env.Str("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "icc")
		}
		return filepath.Join(homeDir, "AppData", "Local", "icc")

	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "icc")

	default: // Linux and others
		if xdg := env.Str("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "icc")
		}
		return filepath.Join(homeDir, ".cache", "icc")
	}
}
