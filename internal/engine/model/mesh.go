package model

import (
	"fmt"

	"github.com/Faultbox/gltfview/pkg/gltf"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Mesh is decoded geometry plus its textures, uploaded once and immutable
// afterwards.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Textures  []Texture
	BaseColor [4]float32
	Bounds    Bounds

	gpu GPUMesh
}

// NewMesh uploads vertices and indices through dev. A nil indices slice
// draws the vertices in order; an empty one is an error, as are empty
// vertices.
func NewMesh(dev Device, name string, vertices []Vertex, indices []uint32, textures []Texture, baseColor [4]float32) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: mesh %q has no vertices", gltf.ErrDecode, name)
	}
	if indices != nil && len(indices) == 0 {
		return nil, fmt.Errorf("%w: mesh %q has no indices", gltf.ErrDecode, name)
	}
	if indices == nil {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: mesh %q: index %d at %d out of range (%d vertices)", gltf.ErrDecode, name, idx, i, len(vertices))
		}
	}

	m := &Mesh{
		Name:      name,
		Vertices:  vertices,
		Indices:   indices,
		Textures:  textures,
		BaseColor: baseColor,
		Bounds:    emptyBounds(),
	}
	for _, v := range vertices {
		m.Bounds.add(v.Position)
	}

	gpu, err := dev.UploadMesh(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: upload: %w", name, err)
	}
	m.gpu = gpu
	return m, nil
}

// Draw binds the mesh's textures, uploads its uniforms and issues one
// indexed draw. Only the first texture of each type is bound.
func (m *Mesh) Draw(dev Device, sh Shader, cam Camera, world math.Mat4) {
	sh.Activate()

	var hasDiffuse, hasSpecular int32
	for _, tex := range m.Textures {
		switch {
		case tex.Type == TextureDiffuse && hasDiffuse == 0:
			dev.BindTexture(tex.Type.Unit(), tex.Handle)
			sh.SetInt(UniformDiffuse, int32(tex.Type.Unit()))
			hasDiffuse = 1
		case tex.Type == TextureSpecular && hasSpecular == 0:
			dev.BindTexture(tex.Type.Unit(), tex.Handle)
			sh.SetInt(UniformSpecular, int32(tex.Type.Unit()))
			hasSpecular = 1
		}
	}
	sh.SetInt(UniformHasDiffuse, hasDiffuse)
	sh.SetInt(UniformHasSpecular, hasSpecular)
	sh.SetVec4(UniformBaseColor, m.BaseColor)

	sh.SetMat4(UniformModel, world)
	sh.SetMat4(UniformCamMatrix, cam.Matrix())
	sh.SetVec3(UniformCamPos, cam.Position())

	dev.DrawIndexed(m.gpu)
}

// GPU returns the uploaded buffer handles.
func (m *Mesh) GPU() GPUMesh { return m.gpu }

// release frees the mesh buffers. Textures belong to the model's cache.
func (m *Mesh) release(dev Device) {
	dev.ReleaseMesh(m.gpu)
	m.gpu = GPUMesh{}
}
