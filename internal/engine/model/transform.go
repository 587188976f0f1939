package model

import "github.com/Faultbox/gltfview/pkg/math"

// SetPosition replaces the model-wide translation.
func (m *Model) SetPosition(p math.Vec3) { m.position = p }

// SetRotation replaces the model-wide Euler rotation, in degrees.
func (m *Model) SetRotation(deg math.Vec3) { m.rotation = deg }

// SetScale replaces the model-wide scale.
func (m *Model) SetScale(s math.Vec3) { m.scale = s }

// Rotate adds delta degrees to the model-wide rotation.
func (m *Model) Rotate(delta math.Vec3) { m.rotation = m.rotation.Add(delta) }

// Position returns the model-wide translation.
func (m *Model) Position() math.Vec3 { return m.position }

// Rotation returns the model-wide Euler rotation in degrees.
func (m *Model) Rotation() math.Vec3 { return m.rotation }

// Scale returns the model-wide scale.
func (m *Model) Scale() math.Vec3 { return m.scale }

// Matrix returns Translate(position) * Rx * Ry * Rz * Scale(scale), applied
// outside every instance's world matrix.
func (m *Model) Matrix() math.Mat4 {
	return math.Translate(m.position.X, m.position.Y, m.position.Z).
		Mul(math.RotateEulerDegrees(m.rotation)).
		Mul(math.Scale(m.scale.X, m.scale.Y, m.scale.Z))
}
