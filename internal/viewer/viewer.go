// Package viewer runs the interactive model viewer: window, camera, motion
// and hot reload around a loaded glTF model.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/engine/camera"
	"github.com/Faultbox/gltfview/internal/engine/debug"
	"github.com/Faultbox/gltfview/internal/engine/gpu"
	"github.com/Faultbox/gltfview/internal/engine/input"
	"github.com/Faultbox/gltfview/internal/engine/lighting"
	"github.com/Faultbox/gltfview/internal/engine/model"
	"github.com/Faultbox/gltfview/internal/engine/shader"
	"github.com/Faultbox/gltfview/internal/engine/window"
	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Viewer owns the window, GPU state and the current model.
type Viewer struct {
	cfg     *config.Config
	running bool

	window  *window.Window
	input   *input.Input
	device  *gpu.Device
	shader  *shader.Program
	camera  *camera.Camera
	model   *model.Model
	motion  *Motion
	watcher *Watcher
	shots   *debug.Screenshots

	wireframe  bool
	screenshot bool
}

// New opens the window, builds the shader and loads the model at path.
func New(cfg *config.Config, path string) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("model", path),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	v := &Viewer{cfg: cfg, wireframe: cfg.Render.Wireframe}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Everything below needs the GL context.
	v.device = gpu.New()
	if cfg.Shader.Vertex != "" {
		v.shader, err = shader.Load(cfg.Shader.Vertex, cfg.Shader.Fragment)
	} else {
		v.shader, err = shader.Default()
	}
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to build shader: %w", err)
	}
	// The light never changes, so it is uploaded once.
	lighting.NewPointLight(cfg.Light.Color, cfg.Light.Position).Apply(v.shader)

	w, h := v.window.Size()
	v.camera = camera.New(w, h, math.Vec3FromArray(cfg.Camera.Position))
	v.camera.Mode = camera.ParseMode(cfg.Camera.Mode)
	v.camera.Speed = cfg.Camera.Speed
	v.camera.FastSpeed = cfg.Camera.FastSpeed
	v.camera.Sensitivity = cfg.Camera.Sensitivity

	v.input = input.New()
	v.shots = debug.NewScreenshots(cfg.Render.ScreenshotDir, "gltfview")
	v.motion = NewMotion(cfg.Motion, math.Vec3FromArray(cfg.Model.Position))

	v.model, err = model.Load(path, v.device, model.Options{})
	if err != nil {
		v.Close()
		return nil, err
	}
	v.model.SetPosition(math.Vec3FromArray(cfg.Model.Position))
	v.model.SetRotation(math.Vec3FromArray(cfg.Model.Rotation))
	v.model.SetScale(math.Vec3FromArray(cfg.Model.Scale))
	v.modelLoaded()

	if cfg.Model.Watch {
		v.watcher, err = NewWatcher(path)
		if err != nil {
			// Viewing still works without reloads.
			logger.Warn("hot reload disabled", zap.Error(err))
		}
	}

	logger.Info("viewer initialized")
	return v, nil
}

// Run drives the render loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	start := time.Now()
	lastTime := start
	frameCount := 0
	fpsTimer := start

	logger.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		v.camera.HandleInput(controls(v.input), float32(dt))
		v.camera.UpdateMatrix(v.cfg.Camera.FOV, v.cfg.Camera.Near, v.cfg.Camera.Far)
		v.motion.Update(v.model, now.Sub(start).Seconds(), dt)

		if v.watcher != nil && v.watcher.Poll(now) {
			v.reload(v.model.Path)
		}

		w, h := v.window.Size()
		v.device.Begin(gpu.Frame{
			ClearColor: v.cfg.Render.ClearColor,
			DepthTest:  v.cfg.Render.DepthTest,
			Wireframe:  v.wireframe,
		}, w, h)
		v.model.Draw(v.shader, v.camera)
		if v.screenshot {
			v.screenshot = false
			v.capture(w, h)
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.camera.SetViewport(v.window.Size())
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F1:
				v.wireframe = !v.wireframe
			case sdl.SCANCODE_R:
				v.reload(v.model.Path)
			case sdl.SCANCODE_F12:
				v.screenshot = true
			}
		case input.EventDrop:
			v.reload(event.File)
		}
	}
}

// reload swaps in the model at path, carrying over the current model-wide
// transform. On failure the current model stays.
func (v *Viewer) reload(path string) {
	next, err := model.Load(path, v.device, model.Options{})
	if err != nil {
		logger.Error("reload failed, keeping current model", zap.String("path", path), zap.Error(err))
		return
	}
	next.SetPosition(v.model.Position())
	next.SetRotation(v.model.Rotation())
	next.SetScale(v.model.Scale())

	v.model.Release()
	v.model = next
	v.modelLoaded()

	if v.watcher != nil && v.watcher.dir != filepath.Dir(path) {
		v.watcher.Close()
		v.watcher, err = NewWatcher(path)
		if err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
			v.watcher = nil
		}
	}
}

func (v *Viewer) modelLoaded() {
	b := v.model.Bounds()
	size := b.Size().Array()
	logger.Info("model ready",
		zap.String("path", v.model.Path),
		zap.Int("meshes", len(v.model.Meshes())),
		zap.Int("instances", len(v.model.Instances())),
		zap.Int("textures", v.model.Textures().Len()),
		zap.Float32s("size", size[:]),
	)
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.cfg.Window.Title, filepath.Base(v.model.Path)))
	if v.camera.Mode == camera.Orbit && !b.Empty() {
		v.camera.FitBounds(b.Min, b.Max)
	}
}

func (v *Viewer) capture(width, height int) {
	path, err := v.shots.Save(v.device.ReadPixels(width, height), width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// controls maps held keys and mouse state to camera input.
func controls(in *input.Input) camera.Controls {
	dx, dy := in.MouseDelta()
	return camera.Controls{
		Forward: in.IsKeyHeld(sdl.SCANCODE_W),
		Back:    in.IsKeyHeld(sdl.SCANCODE_S),
		Left:    in.IsKeyHeld(sdl.SCANCODE_A),
		Right:   in.IsKeyHeld(sdl.SCANCODE_D),
		Up:      in.IsKeyHeld(sdl.SCANCODE_SPACE),
		Down:    in.IsKeyHeld(sdl.SCANCODE_LCTRL),
		Fast:    in.IsKeyHeld(sdl.SCANCODE_LSHIFT),
		Look:    in.IsButtonHeld(sdl.BUTTON_LEFT),
		DeltaX:  dx,
		DeltaY:  dy,
		Zoom:    in.Wheel(),
	}
}

// Close releases the model, shader and window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.model != nil {
		v.model.Release()
	}
	if v.shader != nil {
		v.shader.Delete()
	}
	if v.window != nil {
		v.window.Close()
	}
}
