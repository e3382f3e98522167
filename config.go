package hostup

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Fixed identities of the boxvisor sidecar daemons. The manager must be
// ready before the filesystem daemon starts, so the manager always comes
// first in the supervised order.
const (
	managerDaemonName    = "boxvisor-mgr"
	filesystemDaemonName = "boxvisor-fs"

	managerReadyMarker    = "Ready"
	filesystemReadyMarker = "Initiating boxvisor-fs"

	// ignoreHandlerErrorsFlag makes the filesystem daemon tolerate missing
	// host procfs nodes; passed only in testing mode.
	ignoreHandlerErrorsFlag = "--ignore-handler-errors"
)

// DefaultConfigPath is where the CLI looks for an optional config file.
const DefaultConfigPath = "/etc/boxvisor/hostup.toml"

// DaemonConfig overrides one daemon's executable and log file locations.
type DaemonConfig struct {
	Path string `toml:"path"`
	Log  string `toml:"log"`
}

// RetryConfig overrides the readiness poll policy. Delay is a Go duration
// string (e.g. "1s").
type RetryConfig struct {
	Attempts int    `toml:"attempts"`
	Delay    string `toml:"delay"`
}

// Config carries the host bring-up settings. All fields have working
// defaults; a config file only needs the values it wants to change.
type Config struct {
	StateDir   string       `toml:"state_dir"`
	Retry      RetryConfig  `toml:"retry"`
	Manager    DaemonConfig `toml:"manager"`
	Filesystem DaemonConfig `toml:"filesystem"`
}

// DefaultConfig returns the fixed production paths and retry policy.
func DefaultConfig() Config {
	return Config{
		StateDir: "/var/lib/boxvisor",
		Retry: RetryConfig{
			Attempts: DefaultRetry.Attempts,
			Delay:    DefaultRetry.Delay.String(),
		},
		Manager: DaemonConfig{
			Path: "/usr/bin/boxvisor-mgr",
			Log:  "/var/log/boxvisor-mgr.log",
		},
		Filesystem: DaemonConfig{
			Path: "/usr/bin/boxvisor-fs",
			Log:  "/var/log/boxvisor-fs.log",
		},
	}
}

// LoadConfig reads a TOML config file and overlays it on the defaults.
// A missing file at the default path is not an error: callers get the
// defaults back.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigPath {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if _, err := cfg.RetrySpec(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// RetrySpec converts the configured retry policy, validating the delay.
func (c Config) RetrySpec() (RetrySpec, error) {
	delay, err := time.ParseDuration(c.Retry.Delay)
	if err != nil {
		return RetrySpec{}, fmt.Errorf("retry delay: %w", err)
	}
	if c.Retry.Attempts < 1 {
		return RetrySpec{}, fmt.Errorf("retry attempts must be positive, got %d", c.Retry.Attempts)
	}
	return RetrySpec{Attempts: c.Retry.Attempts, Delay: delay}, nil
}

// Daemons returns the supervised daemon specs in start order.
func (c Config) Daemons() []DaemonSpec {
	return []DaemonSpec{
		{
			Name:        managerDaemonName,
			Path:        c.Manager.Path,
			LogPath:     c.Manager.Log,
			ReadyMarker: managerReadyMarker,
		},
		{
			Name:        filesystemDaemonName,
			Path:        c.Filesystem.Path,
			LogPath:     c.Filesystem.Log,
			ReadyMarker: filesystemReadyMarker,
			TestingArgs: []string{ignoreHandlerErrorsFlag},
		},
	}
}
