package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 800 || cfg.Window.Height != 800 {
		t.Errorf("expected 800x800 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Model.Path != "" {
		t.Errorf("expected empty model path, got %s", cfg.Model.Path)
	}
	if cfg.Model.Position != [3]float32{0, -0.5, 0} {
		t.Errorf("expected model position (0,-0.5,0), got %v", cfg.Model.Position)
	}
	if cfg.Model.Scale != [3]float32{1, 1, 1} {
		t.Errorf("expected unit model scale, got %v", cfg.Model.Scale)
	}

	if cfg.Camera.Position != [3]float32{0, 0, 3} {
		t.Errorf("expected camera at (0,0,3), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOV != 45 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("expected projection 45/0.1/100, got %v/%v/%v", cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.Mode != CameraFly {
		t.Errorf("expected fly camera, got %s", cfg.Camera.Mode)
	}

	if cfg.Light.Color != [4]float32{1, 1, 1, 1} {
		t.Errorf("expected white light, got %v", cfg.Light.Color)
	}
	if cfg.Light.Position != [3]float32{0, 0.5, 1.5} {
		t.Errorf("expected light at (0,0.5,1.5), got %v", cfg.Light.Position)
	}

	m := cfg.Motion
	if !m.Enabled || m.RotationSpeed != 50 || m.ScaleSpeed != 2 || m.ScaleAmplitude != 0.5 ||
		m.MinScale != 1 || m.PositionSpeed != 1 || m.PositionAmplitude != 1 {
		t.Errorf("unexpected motion defaults: %+v", m)
	}

	if cfg.Render.ClearColor != [4]float32{0.07, 0.13, 0.17, 1} {
		t.Errorf("unexpected clear color %v", cfg.Render.ClearColor)
	}
	if !cfg.Render.DepthTest {
		t.Error("expected depth test on by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
window:
  width: 1280
  height: 720
  fullscreen: true

model:
  path: "assets/helmet.glb"
  position: [1, 2, 3]
  watch: true

camera:
  mode: orbit
  fov: 60

motion:
  enabled: false
  rotation_speed: 90

logging:
  level: "debug"
  log_file: "viewer.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 || !cfg.Window.Fullscreen {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	if cfg.Model.Path != "assets/helmet.glb" || !cfg.Model.Watch {
		t.Errorf("unexpected model %+v", cfg.Model)
	}
	if cfg.Model.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected position (1,2,3), got %v", cfg.Model.Position)
	}
	// Untouched keys keep their defaults.
	if cfg.Model.Scale != [3]float32{1, 1, 1} {
		t.Errorf("expected default scale, got %v", cfg.Model.Scale)
	}
	if cfg.Camera.Mode != CameraOrbit || cfg.Camera.FOV != 60 || cfg.Camera.Far != 100 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Motion.Enabled || cfg.Motion.RotationSpeed != 90 || cfg.Motion.ScaleSpeed != 2 {
		t.Errorf("unexpected motion %+v", cfg.Motion)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFileTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "viewer.toml")
	tomlContent := `
[window]
width = 1024
title = "Keyboard"

[light]
color = [1.0, 0.9, 0.8, 1.0]
position = [2.0, 2.0, 2.0]

[render]
clear_color = [0.0, 0.0, 0.0, 1.0]
wireframe = true
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1024 || cfg.Window.Height != 800 || cfg.Window.Title != "Keyboard" {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	if cfg.Light.Color != [4]float32{1, 0.9, 0.8, 1} || cfg.Light.Position != [3]float32{2, 2, 2} {
		t.Errorf("unexpected light %+v", cfg.Light)
	}
	if !cfg.Render.Wireframe || cfg.Render.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("unexpected render %+v", cfg.Render)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"invalid.yaml": "window:\n  width: not a number\n  invalid syntax here\n",
		"invalid.toml": "[window\nwidth = \"wide\"\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), path); err == nil {
				t.Errorf("expected error loading %s, got nil", name)
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }, "fov"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "clip range"},
		{"unknown mode", func(c *Config) { c.Camera.Mode = "tracking" }, "camera mode"},
		{"half a shader", func(c *Config) { c.Shader.Vertex = "a.vert" }, "shader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[window]\nwidth = 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.toml" {
		t.Errorf("expected ./config.toml, got %q", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("window:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected yaml to win over toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "model flag",
			setup: func() { *flagModel = "scene.glb" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Model.Path != "scene.glb" {
					t.Errorf("expected model scene.glb, got %s", cfg.Model.Path)
				}
			},
			teardown: func() { *flagModel = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 1920
				*flagHeight = 1080
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
					t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "shader and watch flags",
			setup: func() {
				*flagVert = "my.vert"
				*flagFrag = "my.frag"
				*flagWatch = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shader.Vertex != "my.vert" || cfg.Shader.Fragment != "my.frag" {
					t.Errorf("unexpected shader %+v", cfg.Shader)
				}
				if !cfg.Model.Watch {
					t.Error("expected watch enabled")
				}
			},
			teardown: func() {
				*flagVert = ""
				*flagFrag = ""
				*flagWatch = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  near: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject near = 0")
	}
}

func TestResolveModelPath(t *testing.T) {
	root := t.TempDir()
	work := filepath.Join(root, "build")
	if err := os.Mkdir(work, 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, work)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	got, err := ResolveModelPath("")
	if err != nil {
		t.Fatalf("ResolveModelPath: %v", err)
	}
	want := filepath.Join(filepath.Dir(wd), "WCG", "Models", "keyboard6", "scene.gltf")
	if got != want {
		t.Errorf("legacy path = %s, want %s", got, want)
	}

	got, err = ResolveModelPath("models/box.gltf")
	if err != nil {
		t.Fatalf("ResolveModelPath: %v", err)
	}
	if got != filepath.Join(wd, "models", "box.gltf") {
		t.Errorf("relative path = %s", got)
	}

	abs := filepath.Join(root, "x", "..", "box.glb")
	if got, _ := ResolveModelPath(abs); got != filepath.Join(root, "box.glb") {
		t.Errorf("absolute path = %s", got)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Model.Path = "scene.gltf"
	cfg.Camera.Mode = CameraOrbit

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Model.Path != "scene.gltf" || loaded.Camera.Mode != CameraOrbit {
		t.Errorf("round trip lost values: %+v %+v", loaded.Model, loaded.Camera)
	}
}

func TestSaveUserConfig(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("user config dir is not redirectable on this platform")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	*flagSave = true
	defer func() { *flagSave = false }()
	if !SaveRequested() {
		t.Fatal("expected save to be requested")
	}

	cfg := Default()
	cfg.Window.Width = 1280
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := findConfigFile(); got != UserConfigFile() {
		t.Fatalf("findConfigFile = %q, want %q", got, UserConfigFile())
	}

	loaded := Default()
	if err := loadFromFile(loaded, UserConfigFile()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", loaded.Window.Width)
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
