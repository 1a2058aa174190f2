package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds netgraph configuration.
type Config struct {
	Physics PhysicsConfig `toml:"physics" yaml:"physics"`
	View    ViewConfig    `toml:"view" yaml:"view"`
	Window  WindowConfig  `toml:"window" yaml:"window"`
	Data    DataConfig    `toml:"data" yaml:"data"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// PhysicsConfig tunes the force simulation.
type PhysicsConfig struct {
	Repulsion  float64 `toml:"repulsion" yaml:"repulsion"`
	Spring     float64 `toml:"spring" yaml:"spring"`
	CenterPull float64 `toml:"center_pull" yaml:"center_pull"`
	Damping    float64 `toml:"damping" yaml:"damping"`
	Epsilon    float64 `toml:"epsilon" yaml:"epsilon"`
	Margin     float64 `toml:"margin" yaml:"margin"`
}

// ViewConfig controls zoom limits and steps.
type ViewConfig struct {
	MinScale      float64 `toml:"min_scale" yaml:"min_scale"`
	MaxScale      float64 `toml:"max_scale" yaml:"max_scale"`
	WheelZoomIn   float64 `toml:"wheel_zoom_in" yaml:"wheel_zoom_in"`
	WheelZoomOut  float64 `toml:"wheel_zoom_out" yaml:"wheel_zoom_out"`
	ButtonZoomIn  float64 `toml:"button_zoom_in" yaml:"button_zoom_in"`
	ButtonZoomOut float64 `toml:"button_zoom_out" yaml:"button_zoom_out"`
}

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title   string `toml:"title" yaml:"title"`
	Width   int    `toml:"width" yaml:"width"`
	Height  int    `toml:"height" yaml:"height"`
	MinSize int    `toml:"min_size" yaml:"min_size"`
	TPS     int    `toml:"tps" yaml:"tps"`
}

// DataConfig locates the contact document.
type DataConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Env   string `toml:"env" yaml:"env"`     // "production" or "development"
	Level string `toml:"level" yaml:"level"` // overrides the env default
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"` // empty disables
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Repulsion:  9000,
			Spring:     0.004,
			CenterPull: 0.002,
			Damping:    0.86,
			Epsilon:    0.01,
			Margin:     20,
		},
		View: ViewConfig{
			MinScale:      0.4,
			MaxScale:      2.5,
			WheelZoomIn:   1.08,
			WheelZoomOut:  0.92,
			ButtonZoomIn:  1.12,
			ButtonZoomOut: 0.88,
		},
		Window: WindowConfig{
			Title:   "netgraph",
			Width:   1024,
			Height:  720,
			MinSize: 320,
			TPS:     60,
		},
		Data: DataConfig{Path: filepath.Join(ConfigDir(), "contacts.json")},
		Log:  LogConfig{Env: "development", Level: "info"},
	}
}

// ConfigDir returns the netgraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "netgraph")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads defaults, then the config file, then the environment, and
// validates the result. With path empty the default path is tried and may
// be missing; an explicit path must exist. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("TOML syntax error in '%s': %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys in '%s': %v", path, undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("YAML syntax error in '%s': %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format '%s'", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Data.Path = getEnv("NETGRAPH_DATA", c.Data.Path)
	c.Log.Env = getEnv("NETGRAPH_ENV", c.Log.Env)
	c.Metrics.Addr = getEnv("NETGRAPH_METRICS_ADDR", c.Metrics.Addr)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.View.MinScale <= 0 {
		return fmt.Errorf("view.min_scale must be positive, got %g", c.View.MinScale)
	}
	if c.View.MinScale > c.View.MaxScale {
		return fmt.Errorf("view.min_scale %g exceeds view.max_scale %g", c.View.MinScale, c.View.MaxScale)
	}
	for _, z := range []struct {
		name string
		f    float64
	}{
		{"view.wheel_zoom_in", c.View.WheelZoomIn},
		{"view.wheel_zoom_out", c.View.WheelZoomOut},
		{"view.button_zoom_in", c.View.ButtonZoomIn},
		{"view.button_zoom_out", c.View.ButtonZoomOut},
	} {
		if z.f <= 0 {
			return fmt.Errorf("%s must be positive, got %g", z.name, z.f)
		}
	}
	if c.Physics.Damping <= 0 || c.Physics.Damping > 1 {
		return fmt.Errorf("physics.damping must be in (0,1], got %g", c.Physics.Damping)
	}
	if c.Physics.Epsilon <= 0 {
		return fmt.Errorf("physics.epsilon must be positive, got %g", c.Physics.Epsilon)
	}
	if c.Physics.Margin < 0 {
		return fmt.Errorf("physics.margin must not be negative, got %g", c.Physics.Margin)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS)
	}
	if c.Data.Path == "" {
		return errors.New("data.path is required")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Log.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
