// Package config loads service and CLI settings from an optional TOML or
// YAML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables. The file is chosen by the caller (the --config flag) or by
// LAMPCARD_CONFIG; its extension selects the decoder.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// Environment variables.
const (
	EnvConfigPath = "LAMPCARD_CONFIG"
	EnvPort       = "PORT"
	EnvChunkWidth = "LAMPCARD_CHUNK_WIDTH"
	EnvBackend    = "LAMPCARD_BACKEND"
	EnvChromeBin  = "LAMPCARD_CHROME_BIN"
	EnvChromeURL  = "LAMPCARD_CHROME_URL"
)

// Rendering backends.
const (
	BackendRaster = "raster"
	BackendChrome = "chrome"
)

// Defaults.
const (
	DefaultPort            = "8080"
	DefaultMaxBodyBytes    = 2 << 20
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBackend         = BackendRaster
)

// Config holds every setting of the service and the CLI.
type Config struct {
	Server ServerConfig `toml:"server" yaml:"server"`
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Render RenderConfig `toml:"render" yaml:"render"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" yaml:"maxBodyBytes"`
	RequestTimeout  time.Duration `toml:"request_timeout" yaml:"requestTimeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdownTimeout"`
}

// EngineConfig configures the card engine.
type EngineConfig struct {
	ChunkWidth int `toml:"chunk_width" yaml:"chunkWidth"`
}

// RenderConfig selects and configures the image backend.
type RenderConfig struct {
	Backend  string          `toml:"backend" yaml:"backend"`
	Viewport render.Viewport `toml:"viewport" yaml:"viewport"`
	Chrome   ChromeConfig    `toml:"chrome" yaml:"chrome"`
}

// ChromeConfig configures the headless Chrome backend.
type ChromeConfig struct {
	Bin        string `toml:"bin" yaml:"bin"`
	ControlURL string `toml:"control_url" yaml:"controlUrl"`
	NoSandbox  bool   `toml:"no_sandbox" yaml:"noSandbox"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":" + DefaultPort,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Engine: EngineConfig{ChunkWidth: card.DefaultChunkWidth},
		Render: RenderConfig{
			Backend:  DefaultBackend,
			Viewport: render.DefaultViewport(),
			Chrome:   ChromeConfig{NoSandbox: true},
		},
	}
}

// Load builds the configuration from defaults, the file at path (or at
// $LAMPCARD_CONFIG when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readFile decodes path over the current values; keys absent from the file
// keep their defaults.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfigInvalid, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			"config %s: unsupported extension (use .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfigInvalid, err, "parse config %s", path)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvPort); v != "" {
		c.Server.Addr = ":" + v
	}

	if v := os.Getenv(EnvChunkWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeConfigInvalid, err, "%s=%q is not an integer", EnvChunkWidth, v)
		}
		c.Engine.ChunkWidth = n
	}

	if v := os.Getenv(EnvBackend); v != "" {
		c.Render.Backend = v
	}

	if v := os.Getenv(EnvChromeBin); v != "" {
		c.Render.Chrome.Bin = v
	}

	if v := os.Getenv(EnvChromeURL); v != "" {
		c.Render.Chrome.ControlURL = v
	}

	return nil
}

// Validate checks every section and returns a CONFIG_INVALID error
// describing the first problem found.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "server address is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			"max body size must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "timeouts must not be negative")
	}
	if err := apperrors.ValidateChunkWidth(c.Engine.ChunkWidth); err != nil {
		return err
	}
	if err := c.Render.Viewport.Validate(); err != nil {
		return err
	}
	switch c.Render.Backend {
	case BackendRaster, BackendChrome:
	default:
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			"unknown backend %q (must be one of: %s, %s)", c.Render.Backend, BackendRaster, BackendChrome)
	}
	return nil
}

// String summarizes the effective configuration for logs.
func (c Config) String() string {
	return fmt.Sprintf("addr=%s backend=%s chunk=%d viewport=%dx%d@%g",
		c.Server.Addr, c.Render.Backend, c.Engine.ChunkWidth,
		c.Render.Viewport.Width, c.Render.Viewport.Height, c.Render.Viewport.Scale)
}
