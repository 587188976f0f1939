// Package camera provides the viewer's fly and orbit cameras.
package camera

import (
	gomath "math"

	"github.com/Faultbox/gltfview/pkg/math"
)

// Mode selects how input moves the camera.
type Mode int

const (
	// Fly moves the eye freely and turns it with the mouse.
	Fly Mode = iota
	// Orbit circles a target point.
	Orbit
)

// ParseMode maps a config name to a Mode, defaulting to Fly.
func ParseMode(name string) Mode {
	if name == "orbit" {
		return Orbit
	}
	return Fly
}

// Controls is one frame of camera input.
type Controls struct {
	Forward, Back  bool
	Left, Right    bool
	Up, Down       bool
	Fast           bool
	Look           bool    // mouse-look / orbit drag active
	DeltaX, DeltaY float32 // mouse motion in pixels
	Zoom           float32 // wheel steps, positive zooms in
}

// maxPitch keeps the view direction off the poles, in degrees from the horizon.
const maxPitch = 85

// Camera produces a combined view-projection matrix.
type Camera struct {
	Mode Mode

	// Fly state.
	Eye         math.Vec3
	Orientation math.Vec3
	Up          math.Vec3

	// Orbit state. Yaw and Pitch are radians.
	Target      math.Vec3
	Distance    float32
	Yaw         float32
	Pitch       float32
	MinDistance float32
	MaxDistance float32

	Width, Height int
	Speed         float32 // units per second
	FastSpeed     float32
	Sensitivity   float32 // degrees per window-width of mouse travel

	matrix math.Mat4
}

// New creates a camera at eye looking down -Z.
func New(width, height int, eye math.Vec3) *Camera {
	c := &Camera{
		Eye:         eye,
		Orientation: math.Vec3{X: 0, Y: 0, Z: -1},
		Up:          math.Vec3{X: 0, Y: 1, Z: 0},
		Distance:    eye.Length(),
		MinDistance: 0.1,
		MaxDistance: 1000,
		Width:       width,
		Height:      height,
		Speed:       3,
		FastSpeed:   12,
		Sensitivity: 100,
		matrix:      math.Identity(),
	}
	if c.Distance < c.MinDistance {
		c.Distance = 3
	}
	return c
}

// SetViewport updates the aspect ratio source.
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = width, height
}

// Position returns the eye position in world space.
func (c *Camera) Position() math.Vec3 {
	if c.Mode == Orbit {
		cp := float32(gomath.Cos(float64(c.Pitch)))
		return c.Target.Add(math.Vec3{
			X: c.Distance * cp * float32(gomath.Sin(float64(c.Yaw))),
			Y: c.Distance * float32(gomath.Sin(float64(c.Pitch))),
			Z: c.Distance * cp * float32(gomath.Cos(float64(c.Yaw))),
		})
	}
	return c.Eye
}

// ViewMatrix returns the world-to-eye transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	eye := c.Position()
	if c.Mode == Orbit {
		return math.LookAt(eye, c.Target, c.Up)
	}
	return math.LookAt(eye, eye.Add(c.Orientation), c.Up)
}

// UpdateMatrix recomputes projection * view for a vertical fov in degrees.
func (c *Camera) UpdateMatrix(fovDeg, near, far float32) {
	aspect := float32(1)
	if c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	c.matrix = math.Perspective(math.Radians(fovDeg), aspect, near, far).Mul(c.ViewMatrix())
}

// Matrix returns the matrix computed by the last UpdateMatrix.
func (c *Camera) Matrix() math.Mat4 {
	return c.matrix
}

// HandleInput applies one frame of controls over dt seconds.
func (c *Camera) HandleInput(ctl Controls, dt float32) {
	if c.Mode == Orbit {
		c.handleOrbit(ctl, dt)
		return
	}
	c.handleFly(ctl, dt)
}

func (c *Camera) step(ctl Controls, dt float32) float32 {
	if ctl.Fast {
		return c.FastSpeed * dt
	}
	return c.Speed * dt
}

func (c *Camera) handleFly(ctl Controls, dt float32) {
	step := c.step(ctl, dt)
	right := c.Orientation.Cross(c.Up).Normalize()

	if ctl.Forward {
		c.Eye = c.Eye.Add(c.Orientation.Scale(step))
	}
	if ctl.Back {
		c.Eye = c.Eye.Sub(c.Orientation.Scale(step))
	}
	if ctl.Left {
		c.Eye = c.Eye.Sub(right.Scale(step))
	}
	if ctl.Right {
		c.Eye = c.Eye.Add(right.Scale(step))
	}
	if ctl.Up {
		c.Eye = c.Eye.Add(c.Up.Scale(step))
	}
	if ctl.Down {
		c.Eye = c.Eye.Sub(c.Up.Scale(step))
	}

	if !ctl.Look || (ctl.DeltaX == 0 && ctl.DeltaY == 0) {
		return
	}
	rotX, rotY := c.lookDegrees(ctl)

	pitch := math.QuatFromAxisAngle(right, math.Radians(-rotX))
	if abs(angleDegrees(rotate(pitch, c.Orientation), c.Up)-90) > maxPitch {
		pitch = math.QuatIdentity()
	}
	yaw := math.QuatFromAxisAngle(c.Up.Normalize(), math.Radians(-rotY))
	c.Orientation = rotate(yaw.Mul(pitch), c.Orientation).Normalize()
}

func (c *Camera) handleOrbit(ctl Controls, dt float32) {
	if ctl.Look {
		rotX, rotY := c.lookDegrees(ctl)
		c.Yaw -= math.Radians(rotY)
		c.Pitch += math.Radians(rotX)
		limit := math.Radians(maxPitch)
		c.Pitch = min(max(c.Pitch, -limit), limit)
	}

	if ctl.Zoom != 0 {
		c.Distance -= ctl.Zoom * c.Distance * 0.1
		c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
	}

	// Pan the target on the ground plane, relative to the view.
	step := c.step(ctl, dt) * max(c.Distance/3, 0.1)
	sin, cos := float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))
	forward := math.Vec3{X: -sin, Z: -cos}
	right := math.Vec3{X: cos, Z: -sin}
	if ctl.Forward {
		c.Target = c.Target.Add(forward.Scale(step))
	}
	if ctl.Back {
		c.Target = c.Target.Sub(forward.Scale(step))
	}
	if ctl.Left {
		c.Target = c.Target.Sub(right.Scale(step))
	}
	if ctl.Right {
		c.Target = c.Target.Add(right.Scale(step))
	}
	if ctl.Up {
		c.Target.Y += step
	}
	if ctl.Down {
		c.Target.Y -= step
	}
}

// lookDegrees converts mouse motion to pitch and yaw deltas in degrees.
func (c *Camera) lookDegrees(ctl Controls) (rotX, rotY float32) {
	w, h := float32(max(c.Width, 1)), float32(max(c.Height, 1))
	return c.Sensitivity * ctl.DeltaY / h, c.Sensitivity * ctl.DeltaX / w
}

// FitBounds frames an axis-aligned box: the orbit target moves to its
// center and the distance fits its radius; a fly camera backs off along +Z.
func (c *Camera) FitBounds(lo, hi math.Vec3) {
	center := lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length() / 2
	if radius <= 0 {
		radius = 1
	}
	dist := min(max(radius*2.5, c.MinDistance), c.MaxDistance)

	c.Target = center
	c.Distance = dist
	c.Yaw, c.Pitch = 0, 0
	c.Eye = center.Add(math.Vec3{Z: dist})
	c.Orientation = math.Vec3{X: 0, Y: 0, Z: -1}
}

func rotate(q math.Quat, v math.Vec3) math.Vec3 {
	return math.Vec3FromArray(q.ToMat4().TransformPoint(v.Array()))
}

func angleDegrees(a, b math.Vec3) float32 {
	cos := a.Normalize().Dot(b.Normalize())
	cos = min(max(cos, -1), 1)
	return float32(gomath.Acos(float64(cos)) * 180 / gomath.Pi)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
