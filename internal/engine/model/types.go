// Package model resolves a glTF scene graph into drawable mesh instances and
// applies a model-wide transform at draw time.
package model

import (
	"image"

	"github.com/Faultbox/gltfview/pkg/math"
)

// Vertex is one interleaved vertex as uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
	TexCoord [2]float32
}

// Vertex layout: attribute locations and byte offsets within Vertex.
const (
	VertexSize = 11 * 4

	AttribPosition = 0
	AttribNormal   = 1
	AttribColor    = 2
	AttribTexCoord = 3

	OffsetPosition = 0
	OffsetNormal   = 3 * 4
	OffsetColor    = 6 * 4
	OffsetTexCoord = 9 * 4
)

// DefaultColor is the vertex color used when a primitive has no COLOR_0.
var DefaultColor = [3]float32{1, 1, 1}

// TextureType is the shader slot a texture binds to.
type TextureType string

// Texture types and their fixed texture units.
const (
	TextureDiffuse  TextureType = "diffuse"
	TextureSpecular TextureType = "specular"
)

// Unit returns the texture unit for the type.
func (t TextureType) Unit() uint32 {
	if t == TextureSpecular {
		return 1
	}
	return 0
}

// Texture is a GPU texture handle tagged with its slot.
type Texture struct {
	Type   TextureType
	Handle uint32
	Key    string
}

// GPUMesh holds the GPU objects of an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Empty reports whether no point has been added to the box.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X
}

// Size returns the box extent along each axis.
func (b Bounds) Size() math.Vec3 {
	if b.Empty() {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func emptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e30, Y: 1e30, Z: 1e30},
		Max: math.Vec3{X: -1e30, Y: -1e30, Z: -1e30},
	}
}

func (b *Bounds) add(p [3]float32) {
	v := math.Vec3FromArray(p)
	b.Min = b.Min.Min(v)
	b.Max = b.Max.Max(v)
}

// Device is the GPU backend a model uploads to and draws with. All calls
// happen on the thread that owns the rendering context.
type Device interface {
	UploadMesh(vertices []Vertex, indices []uint32) (GPUMesh, error)
	UploadTexture(img *image.RGBA) (uint32, error)
	BindTexture(unit, handle uint32)
	DrawIndexed(mesh GPUMesh)
	ReleaseMesh(mesh GPUMesh)
	ReleaseTexture(handle uint32)
}

// Shader sets uniforms by name on the active program.
type Shader interface {
	Activate()
	SetMat4(name string, m math.Mat4)
	SetVec3(name string, v math.Vec3)
	SetVec4(name string, v [4]float32)
	SetInt(name string, v int32)
}

// Camera supplies the view-projection matrix and eye position.
type Camera interface {
	Matrix() math.Mat4
	Position() math.Vec3
}

// Uniform names set by Draw.
const (
	UniformModel       = "model"
	UniformCamMatrix   = "camMatrix"
	UniformCamPos      = "camPos"
	UniformBaseColor   = "baseColor"
	UniformHasDiffuse  = "hasDiffuse"
	UniformHasSpecular = "hasSpecular"
	UniformDiffuse     = "diffuse0"
	UniformSpecular    = "specular0"
)
