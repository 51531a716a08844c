// Package config resolves and loads the regmsg client configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no --config flag is given. A missing file
// at this path is not an error; built-in defaults apply.
const DefaultPath = "/etc/regmsg/config.yaml"

// Config is the fully materialized client configuration.
type Config struct {
	// Socket is the regmsgd unix socket path.
	Socket string
	// LogFile receives the append-only invocation log.
	LogFile string
	// Timeout bounds the wait for the daemon's reply.
	Timeout time.Duration
	// Screen is the default target screen applied when --screen is absent.
	Screen string
}

// Default returns the built-in configuration matching the daemon's
// well-known install paths.
func Default() Config {
	return Config{
		Socket:  "/var/run/regmsgd.sock",
		LogFile: "/var/log/regmsg.log",
		Timeout: 10 * time.Second,
	}
}

// Loaded captures the resolved config path and parsed values.
type Loaded struct {
	Path   string
	Config Config
	Exists bool
}

// fileConfig mirrors the YAML document. Timeout stays a string so the file
// can carry Go duration syntax ("10s", "500ms").
type fileConfig struct {
	Socket  string `yaml:"socket"`
	LogFile string `yaml:"log_file"`
	Timeout string `yaml:"timeout"`
	Screen  string `yaml:"screen"`
}

// Load reads the config at explicitPath, or DefaultPath when empty. Only
// the default path is allowed to be missing.
func Load(explicitPath string) (Loaded, error) {
	path := explicitPath
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && explicitPath == "" {
			return Loaded{Path: path, Config: cfg}, nil
		}
		return Loaded{}, fmt.Errorf("read config %q: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(content, &file); err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	if file.Socket != "" {
		cfg.Socket = file.Socket
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.Screen != "" {
		cfg.Screen = file.Screen
	}
	if file.Timeout != "" {
		timeout, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return Loaded{}, fmt.Errorf("parse config %q: invalid timeout: %w", path, err)
		}
		if timeout <= 0 {
			return Loaded{}, fmt.Errorf("parse config %q: timeout must be positive, got %s", path, timeout)
		}
		cfg.Timeout = timeout
	}

	return Loaded{Path: path, Config: cfg, Exists: true}, nil
}
