// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Model   ModelConfig   `yaml:"model" toml:"model"`
	Shader  ShaderConfig  `yaml:"shader" toml:"shader"`
	Camera  CameraConfig  `yaml:"camera" toml:"camera"`
	Light   LightConfig   `yaml:"light" toml:"light"`
	Motion  MotionConfig  `yaml:"motion" toml:"motion"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// ModelConfig selects the asset and its initial model-wide transform.
type ModelConfig struct {
	Path     string     `yaml:"path" toml:"path"` // empty means the legacy default location
	Position [3]float32 `yaml:"position" toml:"position"`
	Rotation [3]float32 `yaml:"rotation" toml:"rotation"` // Euler degrees
	Scale    [3]float32 `yaml:"scale" toml:"scale"`
	Watch    bool       `yaml:"watch" toml:"watch"` // reload when the asset changes on disk
}

// ShaderConfig points at GLSL sources. Empty paths use the built-in shaders.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex" toml:"vertex"`
	Fragment string `yaml:"fragment" toml:"fragment"`
}

// Camera modes.
const (
	CameraFly   = "fly"
	CameraOrbit = "orbit"
)

// CameraConfig holds projection and controller settings.
type CameraConfig struct {
	Mode        string     `yaml:"mode" toml:"mode"`
	Position    [3]float32 `yaml:"position" toml:"position"`
	FOV         float32    `yaml:"fov" toml:"fov"` // vertical, degrees
	Near        float32    `yaml:"near" toml:"near"`
	Far         float32    `yaml:"far" toml:"far"`
	Speed       float32    `yaml:"speed" toml:"speed"`           // units per second
	FastSpeed   float32    `yaml:"fast_speed" toml:"fast_speed"` // with shift held
	Sensitivity float32    `yaml:"sensitivity" toml:"sensitivity"`
}

// LightConfig holds the single point light.
type LightConfig struct {
	Color    [4]float32 `yaml:"color" toml:"color"`
	Position [3]float32 `yaml:"position" toml:"position"`
}

// MotionConfig drives the model-wide animation: continuous Y rotation,
// oscillating uniform scale and oscillating Z position.
type MotionConfig struct {
	Enabled           bool    `yaml:"enabled" toml:"enabled"`
	RotationSpeed     float32 `yaml:"rotation_speed" toml:"rotation_speed"` // degrees per second
	ScaleSpeed        float32 `yaml:"scale_speed" toml:"scale_speed"`
	ScaleAmplitude    float32 `yaml:"scale_amplitude" toml:"scale_amplitude"`
	MinScale          float32 `yaml:"min_scale" toml:"min_scale"`
	PositionSpeed     float32 `yaml:"position_speed" toml:"position_speed"`
	PositionAmplitude float32 `yaml:"position_amplitude" toml:"position_amplitude"`
}

// RenderConfig holds per-frame GL state.
type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color" toml:"clear_color"`
	DepthTest  bool       `yaml:"depth_test" toml:"depth_test"`
	Wireframe  bool       `yaml:"wireframe" toml:"wireframe"`

	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"` // F12 captures
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns the stock viewer settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "glTF Viewer",
			Width:  800,
			Height: 800,
			VSync:  true,
		},
		Model: ModelConfig{
			Position: [3]float32{0, -0.5, 0},
			Scale:    [3]float32{1, 1, 1},
		},
		Camera: CameraConfig{
			Mode:        CameraFly,
			Position:    [3]float32{0, 0, 3},
			FOV:         45,
			Near:        0.1,
			Far:         100,
			Speed:       3,
			FastSpeed:   12,
			Sensitivity: 100,
		},
		Light: LightConfig{
			Color:    [4]float32{1, 1, 1, 1},
			Position: [3]float32{0, 0.5, 1.5},
		},
		Motion: MotionConfig{
			Enabled:           true,
			RotationSpeed:     50,
			ScaleSpeed:        2,
			ScaleAmplitude:    0.5,
			MinScale:          1,
			PositionSpeed:     1,
			PositionAmplitude: 1,
		},
		Render: RenderConfig{
			ClearColor:    [4]float32{0.07, 0.13, 0.17, 1},
			DepthTest:     true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v outside (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Mode != CameraFly && c.Camera.Mode != CameraOrbit {
		errs = append(errs, fmt.Errorf("camera mode %q unknown (want %q or %q)", c.Camera.Mode, CameraFly, CameraOrbit))
	}
	if (c.Shader.Vertex == "") != (c.Shader.Fragment == "") {
		errs = append(errs, errors.New("shader vertex and fragment paths must be set together"))
	}
	return errors.Join(errs...)
}
