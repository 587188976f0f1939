package viewer

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/pkg/math"
)

type recorder struct {
	rotation math.Vec3
	scale    math.Vec3
	position math.Vec3
}

func (r *recorder) Rotate(d math.Vec3)      { r.rotation = r.rotation.Add(d) }
func (r *recorder) SetScale(s math.Vec3)    { r.scale = s }
func (r *recorder) SetPosition(p math.Vec3) { r.position = p }

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func TestMotionUpdate(t *testing.T) {
	cfg := config.Default().Motion
	base := math.Vec3{Y: -0.5}

	tests := []struct {
		name      string
		elapsed   float64
		wantScale float32
		wantZ     float32
	}{
		{"start", 0, 1.25, 0},
		{"scale peak", gomath.Pi / 4, 1.5, float32(gomath.Sin(gomath.Pi / 4))},
		{"position peak", gomath.Pi / 2, 1.25, 1},
		{"scale trough", 3 * gomath.Pi / 4, 1, float32(gomath.Sin(3 * gomath.Pi / 4))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			NewMotion(cfg, base).Update(r, tt.elapsed, 0.1)

			if !near(r.rotation.Y, 5) {
				t.Errorf("rotation = %v, want 5 degrees", r.rotation.Y)
			}
			if !near(r.scale.X, tt.wantScale) || r.scale.X != r.scale.Y || r.scale.Y != r.scale.Z {
				t.Errorf("scale = %+v, want uniform %v", r.scale, tt.wantScale)
			}
			if !near(r.position.Z, tt.wantZ) || r.position.Y != -0.5 || r.position.X != 0 {
				t.Errorf("position = %+v, want z %v", r.position, tt.wantZ)
			}
		})
	}
}

func TestMotionAccumulatesRotation(t *testing.T) {
	r := &recorder{}
	m := NewMotion(config.Default().Motion, math.Vec3{})
	for i := 0; i < 10; i++ {
		m.Update(r, float64(i)*0.1, 0.1)
	}
	if !near(r.rotation.Y, 50) {
		t.Errorf("rotation after 1s = %v, want 50", r.rotation.Y)
	}
}

func TestMotionDisabled(t *testing.T) {
	cfg := config.Default().Motion
	cfg.Enabled = false
	r := &recorder{}
	NewMotion(cfg, math.Vec3{}).Update(r, 1, 1)
	if r.rotation != (math.Vec3{}) || r.scale != (math.Vec3{}) {
		t.Errorf("disabled motion changed state: %+v", r)
	}
}
