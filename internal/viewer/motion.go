package viewer

import (
	gomath "math"

	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Transformable is the part of a model the motion driver moves.
type Transformable interface {
	Rotate(delta math.Vec3)
	SetScale(s math.Vec3)
	SetPosition(p math.Vec3)
}

// Motion animates a model: a steady spin about Y, a uniform scale pulsing
// between MinScale and MinScale+ScaleAmplitude, and a Z offset swinging
// around the base position.
type Motion struct {
	cfg  config.MotionConfig
	base math.Vec3
}

// NewMotion creates a driver oscillating around base.
func NewMotion(cfg config.MotionConfig, base math.Vec3) *Motion {
	return &Motion{cfg: cfg, base: base}
}

// Update applies one frame. elapsed is seconds since the viewer started and
// dt the frame time in seconds.
func (m *Motion) Update(t Transformable, elapsed, dt float64) {
	if !m.cfg.Enabled {
		return
	}
	t.Rotate(math.Vec3{Y: m.cfg.RotationSpeed * float32(dt)})

	pulse := float32(gomath.Sin(elapsed*float64(m.cfg.ScaleSpeed)))*0.5 + 0.5
	s := m.cfg.MinScale + m.cfg.ScaleAmplitude*pulse
	t.SetScale(math.Vec3{X: s, Y: s, Z: s})

	z := m.cfg.PositionAmplitude * float32(gomath.Sin(elapsed*float64(m.cfg.PositionSpeed)))
	t.SetPosition(math.Vec3{X: m.base.X, Y: m.base.Y, Z: m.base.Z + z})
}
