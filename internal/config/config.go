// pattern: Imperative Shell

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration for the preview.
type Config struct {
	Theme     string          `yaml:"theme"`
	LogLevel  string          `yaml:"log_level"`
	Web       WebConfig       `yaml:"web"`
	Device    DeviceConfig    `yaml:"device"`
	Layout    LayoutConfig    `yaml:"layout"`
	Anchors   AnchorConfig    `yaml:"anchors"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Preview   PreviewConfig   `yaml:"preview"`
}

// WebConfig controls the inspector listener. Port 0 picks an ephemeral port.
type WebConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// DeviceConfig feeds the capability detector.
type DeviceConfig struct {
	UserAgent string `yaml:"user_agent"`
	Pointer   string `yaml:"pointer"` // "coarse", "fine" or empty
}

// LayoutConfig holds the fit constants. Zero values fall back to defaults.
type LayoutConfig struct {
	MinFrameHeight     int           `yaml:"min_frame_height"`
	MinWorkspaceHeight int           `yaml:"min_workspace_height"`
	Fudge              int           `yaml:"fudge"`
	GridCell           int           `yaml:"grid_cell"`
	SafetyBuffer       int           `yaml:"safety_buffer"`
	FrameInterval      time.Duration `yaml:"frame_interval"`
	ChurnInterval      time.Duration `yaml:"churn_interval"`
	ChurnTicks         int           `yaml:"churn_ticks"`
}

// AnchorConfig names the document elements the fit pass needs.
type AnchorConfig struct {
	Frame   string `yaml:"frame"`
	Header  string `yaml:"header"`
	Grid    string `yaml:"grid"`
	Tile    string `yaml:"tile"`
	Canvas  string `yaml:"canvas"`
	Toolbar string `yaml:"toolbar"`
}

// SimulatorConfig bounds the width slider and names the presets.
type SimulatorConfig struct {
	MinWidth     int `yaml:"min_width"`
	MaxWidth     int `yaml:"max_width"`
	DefaultWidth int `yaml:"default_width"`
	MobileWidth  int `yaml:"mobile_width"`
	DesktopWidth int `yaml:"desktop_width"`
	Step         int `yaml:"step"`
}

// PreviewConfig maps terminal cells to logical pixels.
type PreviewConfig struct {
	PxPerCol int `yaml:"px_per_col"`
	PxPerRow int `yaml:"px_per_row"`
}

func DefaultConfig() Config {
	return Config{
		Theme:    "mocha",
		LogLevel: "info",
		Web:      WebConfig{Bind: "127.0.0.1"},
		Layout: LayoutConfig{
			MinFrameHeight:     320,
			MinWorkspaceHeight: 200,
			Fudge:              1,
			GridCell:           32,
			SafetyBuffer:       8,
			FrameInterval:      16 * time.Millisecond,
			ChurnInterval:      50 * time.Millisecond,
			ChurnTicks:         8,
		},
		Anchors: AnchorConfig{
			Frame:   "device-frame",
			Header:  "headerGroup",
			Grid:    "mainGrid",
			Tile:    "workspaceTile",
			Canvas:  "workspaceCanvas",
			Toolbar: "controls",
		},
		Simulator: SimulatorConfig{
			MinWidth:     320,
			MaxWidth:     1280,
			DefaultWidth: 512,
			MobileWidth:  512,
			DesktopWidth: 1024,
			Step:         32,
		},
		Preview: PreviewConfig{PxPerCol: 8, PxPerRow: 16},
	}
}

func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFromDir loads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom reads configPath over the defaults. A missing file is not an
// error. On a parse error the defaults are returned with the error.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for fields a config file zeroed out.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Web.Bind == "" {
		c.Web.Bind = d.Web.Bind
	}

	setInt(&c.Layout.MinFrameHeight, d.Layout.MinFrameHeight)
	setInt(&c.Layout.MinWorkspaceHeight, d.Layout.MinWorkspaceHeight)
	setInt(&c.Layout.GridCell, d.Layout.GridCell)
	setInt(&c.Layout.ChurnTicks, d.Layout.ChurnTicks)
	if c.Layout.FrameInterval <= 0 {
		c.Layout.FrameInterval = d.Layout.FrameInterval
	}
	if c.Layout.ChurnInterval <= 0 {
		c.Layout.ChurnInterval = d.Layout.ChurnInterval
	}

	setString(&c.Anchors.Frame, d.Anchors.Frame)
	setString(&c.Anchors.Header, d.Anchors.Header)
	setString(&c.Anchors.Grid, d.Anchors.Grid)
	setString(&c.Anchors.Tile, d.Anchors.Tile)
	setString(&c.Anchors.Canvas, d.Anchors.Canvas)
	setString(&c.Anchors.Toolbar, d.Anchors.Toolbar)

	setInt(&c.Simulator.MinWidth, d.Simulator.MinWidth)
	setInt(&c.Simulator.MaxWidth, d.Simulator.MaxWidth)
	setInt(&c.Simulator.DefaultWidth, d.Simulator.DefaultWidth)
	setInt(&c.Simulator.MobileWidth, d.Simulator.MobileWidth)
	setInt(&c.Simulator.DesktopWidth, d.Simulator.DesktopWidth)
	setInt(&c.Simulator.Step, d.Simulator.Step)

	setInt(&c.Preview.PxPerCol, d.Preview.PxPerCol)
	setInt(&c.Preview.PxPerRow, d.Preview.PxPerRow)
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// Validate rejects combinations the fit pass cannot work with.
func (c *Config) Validate() error {
	if c.Simulator.MinWidth > c.Simulator.MaxWidth {
		return fmt.Errorf("simulator.min_width (%d) exceeds simulator.max_width (%d)",
			c.Simulator.MinWidth, c.Simulator.MaxWidth)
	}
	if c.Layout.Fudge < 0 {
		return fmt.Errorf("layout.fudge must not be negative")
	}
	if c.Layout.SafetyBuffer < 0 {
		return fmt.Errorf("layout.safety_buffer must not be negative")
	}
	switch c.Device.Pointer {
	case "", "coarse", "fine":
	default:
		return fmt.Errorf("device.pointer must be coarse or fine, got %q", c.Device.Pointer)
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port out of range: %d", c.Web.Port)
	}
	return nil
}

// Dir returns the configuration directory.
func Dir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "devframe")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "devframe")
	}
	return filepath.Join(home, ".config", "devframe")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}
