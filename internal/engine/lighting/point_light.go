// Package lighting provides the viewer's point light.
package lighting

import "github.com/Faultbox/gltfview/pkg/math"

// Uniform names the light is uploaded to.
const (
	UniformColor    = "lightColor"
	UniformPosition = "lightPos"
)

// Uniforms is the part of a shader program the light writes to.
type Uniforms interface {
	Activate()
	SetVec3(name string, v math.Vec3)
	SetVec4(name string, v [4]float32)
}

// PointLight is a single light with an RGBA color.
type PointLight struct {
	Color    [4]float32
	Position math.Vec3
}

// NewPointLight creates a light, clamping color channels to [0, 1].
func NewPointLight(color [4]float32, position [3]float32) PointLight {
	for i, c := range color {
		color[i] = min(max(c, 0), 1)
	}
	return PointLight{Color: color, Position: math.Vec3FromArray(position)}
}

// Apply activates the program and uploads the light.
func (l PointLight) Apply(u Uniforms) {
	u.Activate()
	u.SetVec4(UniformColor, l.Color)
	u.SetVec3(UniformPosition, l.Position)
}
