package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gltfview/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestUpdateMatrixMatchesMathgl(t *testing.T) {
	c := New(800, 600, math.Vec3{X: 0, Y: 0, Z: 3})
	c.UpdateMatrix(45, 0.1, 100)

	eye := mgl32.Vec3{0, 0, 3}
	want := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100).
		Mul4(mgl32.LookAtV(eye, eye.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 1, 0}))

	got := c.Matrix()
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFlyMovement(t *testing.T) {
	tests := []struct {
		name string
		ctl  Controls
		want math.Vec3
	}{
		{"forward", Controls{Forward: true}, math.Vec3{Z: 2}},
		{"back", Controls{Back: true}, math.Vec3{Z: 4}},
		{"left", Controls{Left: true}, math.Vec3{X: -1, Z: 3}},
		{"right", Controls{Right: true}, math.Vec3{X: 1, Z: 3}},
		{"up", Controls{Up: true}, math.Vec3{Y: 1, Z: 3}},
		{"down fast", Controls{Down: true, Fast: true}, math.Vec3{Y: -4, Z: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(800, 800, math.Vec3{Z: 3})
			c.Speed, c.FastSpeed = 2, 8
			c.HandleInput(tt.ctl, 0.5)
			if !nearVec(c.Position(), tt.want) {
				t.Errorf("position = %+v, want %+v", c.Position(), tt.want)
			}
		})
	}
}

func TestFlyLookRequiresButton(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	c.HandleInput(Controls{DeltaX: 200}, 0.016)
	if !nearVec(c.Orientation, math.Vec3{Z: -1}) {
		t.Errorf("orientation changed without Look: %+v", c.Orientation)
	}
}

func TestFlyYaw(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	c.Sensitivity = 90
	// A full window width of travel turns 90 degrees to the right.
	c.HandleInput(Controls{Look: true, DeltaX: 800}, 0.016)
	if !nearVec(c.Orientation, math.Vec3{X: 1}) {
		t.Errorf("orientation = %+v, want +X", c.Orientation)
	}
}

func TestFlyPitchClamp(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	// Each step looks up 10 degrees.
	for i := 0; i < 8; i++ {
		c.HandleInput(Controls{Look: true, DeltaY: -80}, 0.016)
	}
	if got := 90 - angleDegrees(c.Orientation, c.Up); !near(got, 80) {
		t.Fatalf("pitch = %v, want 80", got)
	}
	for i := 0; i < 5; i++ {
		c.HandleInput(Controls{Look: true, DeltaY: -80}, 0.016)
	}
	if got := 90 - angleDegrees(c.Orientation, c.Up); !near(got, 80) {
		t.Errorf("pitch after clamp = %v, want 80", got)
	}
}

func TestOrbitPosition(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	c.Mode = Orbit
	c.Target = math.Vec3{X: 1}
	c.Distance = 2

	if got := c.Position(); !nearVec(got, math.Vec3{X: 1, Z: 2}) {
		t.Errorf("position = %+v", got)
	}

	c.Yaw = float32(gomath.Pi / 2)
	if got := c.Position(); !nearVec(got, math.Vec3{X: 3}) {
		t.Errorf("position after yaw = %+v", got)
	}

	c.UpdateMatrix(45, 0.1, 100)
	// The target projects to the center of the screen.
	p := c.Matrix().TransformPoint(c.Target.Array())
	if !near(p[0], 0) || !near(p[1], 0) {
		t.Errorf("target projects to %v, want screen center", p)
	}
}

func TestOrbitZoomClamp(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	c.Mode = Orbit
	c.MinDistance, c.MaxDistance = 1, 10

	for i := 0; i < 100; i++ {
		c.HandleInput(Controls{Zoom: 5}, 0.016)
	}
	if c.Distance != 1 {
		t.Errorf("distance = %v, want clamp at 1", c.Distance)
	}
	for i := 0; i < 100; i++ {
		c.HandleInput(Controls{Zoom: -5}, 0.016)
	}
	if c.Distance != 10 {
		t.Errorf("distance = %v, want clamp at 10", c.Distance)
	}
}

func TestOrbitPitchClamp(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	c.Mode = Orbit
	c.HandleInput(Controls{Look: true, DeltaY: 100000}, 0.016)
	if !near(c.Pitch, math.Radians(maxPitch)) {
		t.Errorf("pitch = %v, want %v", c.Pitch, math.Radians(maxPitch))
	}
}

func TestFitBounds(t *testing.T) {
	c := New(800, 800, math.Vec3{Z: 3})
	c.FitBounds(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 3, Y: 1, Z: 1})

	if !nearVec(c.Target, math.Vec3{X: 1}) {
		t.Errorf("target = %+v", c.Target)
	}
	radius := float32(gomath.Sqrt(16+4+4)) / 2
	if !near(c.Distance, radius*2.5) {
		t.Errorf("distance = %v, want %v", c.Distance, radius*2.5)
	}
	if !nearVec(c.Eye, math.Vec3{X: 1, Z: radius * 2.5}) {
		t.Errorf("eye = %+v", c.Eye)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("orbit") != Orbit || ParseMode("fly") != Fly || ParseMode("") != Fly {
		t.Error("ParseMode mapping wrong")
	}
}
