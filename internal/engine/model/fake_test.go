package model

import (
	"image"

	"github.com/Faultbox/gltfview/pkg/math"
)

// fakeDevice records uploads and draws instead of talking to a GPU.
type fakeDevice struct {
	next uint32

	meshUploads    int
	textureUploads int
	bound          map[uint32]uint32 // unit -> handle
	draws          []GPUMesh
	releasedMesh   int
	releasedTex    []uint32
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{bound: make(map[uint32]uint32)}
}

func (d *fakeDevice) UploadMesh(vertices []Vertex, indices []uint32) (GPUMesh, error) {
	d.meshUploads++
	d.next++
	return GPUMesh{VAO: d.next, VBO: d.next, EBO: d.next, IndexCount: int32(len(indices))}, nil
}

func (d *fakeDevice) UploadTexture(img *image.RGBA) (uint32, error) {
	d.textureUploads++
	d.next++
	return d.next, nil
}

func (d *fakeDevice) BindTexture(unit, handle uint32) { d.bound[unit] = handle }

func (d *fakeDevice) DrawIndexed(mesh GPUMesh) { d.draws = append(d.draws, mesh) }

func (d *fakeDevice) ReleaseMesh(mesh GPUMesh) { d.releasedMesh++ }

func (d *fakeDevice) ReleaseTexture(handle uint32) { d.releasedTex = append(d.releasedTex, handle) }

// fakeShader keeps the last value of every uniform and each model matrix in order.
type fakeShader struct {
	activations int
	mat4        map[string]math.Mat4
	vec3        map[string]math.Vec3
	vec4        map[string][4]float32
	ints        map[string]int32
	models      []math.Mat4
}

func newFakeShader() *fakeShader {
	return &fakeShader{
		mat4: make(map[string]math.Mat4),
		vec3: make(map[string]math.Vec3),
		vec4: make(map[string][4]float32),
		ints: make(map[string]int32),
	}
}

func (s *fakeShader) Activate() { s.activations++ }

func (s *fakeShader) SetMat4(name string, m math.Mat4) {
	s.mat4[name] = m
	if name == UniformModel {
		s.models = append(s.models, m)
	}
}

func (s *fakeShader) SetVec3(name string, v math.Vec3) { s.vec3[name] = v }

func (s *fakeShader) SetVec4(name string, v [4]float32) { s.vec4[name] = v }

func (s *fakeShader) SetInt(name string, v int32) { s.ints[name] = v }

type fakeCamera struct {
	matrix math.Mat4
	pos    math.Vec3
}

func (c fakeCamera) Matrix() math.Mat4   { return c.matrix }
func (c fakeCamera) Position() math.Vec3 { return c.pos }
