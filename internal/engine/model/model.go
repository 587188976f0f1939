package model

import (
	"fmt"
	"path/filepath"
	"slices"

	qgltf "github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/pkg/gltf"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Instance places a shared mesh in the model's frame.
type Instance struct {
	Mesh  *Mesh
	World math.Mat4
	Node  int
}

// Model is a loaded glTF scene: its meshes, their instances and a mutable
// model-wide transform.
type Model struct {
	Path string

	dev       Device
	meshes    []*Mesh
	instances []Instance
	textures  *TextureCache

	position math.Vec3
	rotation math.Vec3
	scale    math.Vec3
}

// Options tunes model loading.
type Options struct {
	// Decode overrides image decoding; nil uses texture.Decode.
	Decode DecodeFunc
}

// Load reads a .gltf or .glb file and uploads its geometry and textures
// through dev. On error nothing stays allocated on the device.
func Load(path string, dev Device, opts Options) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", filepath.Base(path), err)
	}
	m, err := FromDocument(doc, dev, opts)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", filepath.Base(path), err)
	}
	m.Path = path
	return m, nil
}

// FromDocument builds a model from an already opened document.
func FromDocument(doc *gltf.Document, dev Device, opts Options) (*Model, error) {
	log := logger.Named("model")
	m := &Model{
		dev:      dev,
		textures: NewTextureCache(dev, opts.Decode),
		scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}

	loaded := make(map[int]*Mesh)
	for _, ni := range Traverse(doc.Nodes, doc.Roots()) {
		mesh, ok := loaded[ni.Mesh]
		if !ok {
			var err error
			mesh, err = m.loadMesh(doc, ni.Mesh)
			if err != nil {
				m.Release()
				return nil, err
			}
			loaded[ni.Mesh] = mesh
			m.meshes = append(m.meshes, mesh)
			log.Debug("mesh uploaded",
				zap.Int("mesh", ni.Mesh),
				zap.String("name", mesh.Name),
				zap.Int("vertices", len(mesh.Vertices)),
				zap.Int("indices", len(mesh.Indices)))
		}
		m.instances = append(m.instances, Instance{Mesh: mesh, World: ni.World, Node: ni.Node})
	}

	log.Debug("model loaded",
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(m.meshes)),
		zap.Int("instances", len(m.instances)),
		zap.Int("textures", m.textures.Len()))
	return m, nil
}

// loadMesh decodes mesh i's single triangle primitive and uploads it.
func (m *Model) loadMesh(doc *gltf.Document, i int) (*Mesh, error) {
	gm := doc.Meshes[i]
	if len(gm.Primitives) != 1 {
		return nil, fmt.Errorf("mesh %d: %w: %d primitives", i, gltf.ErrUnsupportedFeature, len(gm.Primitives))
	}
	prim := gm.Primitives[0]
	if prim.Mode != qgltf.PrimitiveTriangles {
		return nil, fmt.Errorf("mesh %d: %w: primitive mode %s", i, gltf.ErrUnsupportedFeature, prim.Mode)
	}

	vertices, err := readVertices(doc, prim)
	if err != nil {
		return nil, fmt.Errorf("mesh %d: %w", i, err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = doc.ReadIndices(int(*prim.Indices))
		if err != nil {
			return nil, fmt.Errorf("mesh %d: indices: %w", i, err)
		}
	}

	baseColor := [4]float32{1, 1, 1, 1}
	var textures []Texture
	if prim.Material != nil {
		mat := doc.Materials[*prim.Material]
		if mat.PBRMetallicRoughness != nil {
			baseColor = mat.PBRMetallicRoughness.BaseColorFactorOrDefault()
		}
		textures, err = m.materialTextures(doc, mat)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	mesh, err := NewMesh(m.dev, gm.Name, vertices, indices, textures, baseColor)
	if err != nil {
		return nil, fmt.Errorf("mesh %d: %w", i, err)
	}
	return mesh, nil
}

// attributeTypes lists the accessor element types accepted per attribute.
var attributeTypes = map[string][]qgltf.AccessorType{
	qgltf.POSITION:   {qgltf.AccessorVec3},
	qgltf.NORMAL:     {qgltf.AccessorVec3},
	qgltf.TEXCOORD_0: {qgltf.AccessorVec2},
	qgltf.COLOR_0:    {qgltf.AccessorVec3, qgltf.AccessorVec4},
}

func readVertices(doc *gltf.Document, prim *qgltf.Primitive) ([]Vertex, error) {
	read := func(attr string) ([]float32, qgltf.AccessorType, bool, error) {
		idx, ok := prim.Attributes[attr]
		if !ok {
			return nil, 0, false, nil
		}
		data, err := doc.ReadFloats(int(idx))
		if err != nil {
			return nil, 0, true, fmt.Errorf("%s: %w", attr, err)
		}
		typ := doc.Accessors[idx].Type
		if !slices.Contains(attributeTypes[attr], typ) {
			return nil, 0, true, fmt.Errorf("%w: %s accessor %d is %s, want one of %v",
				gltf.ErrDecode, attr, idx, typ, attributeTypes[attr])
		}
		return data, typ, true, nil
	}

	pos, _, _, err := read(qgltf.POSITION)
	if err != nil {
		return nil, err
	}
	positions := GroupVec3(pos)

	var normals [][3]float32
	if nrm, _, ok, err := read(qgltf.NORMAL); err != nil {
		return nil, err
	} else if ok {
		normals = GroupVec3(nrm)
	}

	var texCoords [][2]float32
	if uv, _, ok, err := read(qgltf.TEXCOORD_0); err != nil {
		return nil, err
	} else if ok {
		texCoords = GroupVec2(uv)
	}

	var colors [][3]float32
	if col, typ, ok, err := read(qgltf.COLOR_0); err != nil {
		return nil, err
	} else if ok && typ == qgltf.AccessorVec4 {
		colors = make([][3]float32, 0, len(col)/4)
		for _, c := range GroupVec4(col) {
			colors = append(colors, [3]float32{c[0], c[1], c[2]})
		}
	} else if ok {
		colors = GroupVec3(col)
	}

	return AssembleVertices(positions, normals, texCoords, colors)
}

// materialTextures resolves a material's base color and metallic-roughness
// textures through the cache.
func (m *Model) materialTextures(doc *gltf.Document, mat *qgltf.Material) ([]Texture, error) {
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return nil, nil
	}

	var out []Texture
	for _, ref := range []struct {
		info *qgltf.TextureInfo
		typ  TextureType
	}{
		{pbr.BaseColorTexture, TextureDiffuse},
		{pbr.MetallicRoughnessTexture, TextureSpecular},
	} {
		if ref.info == nil {
			continue
		}
		src := doc.Textures[ref.info.Index].Source
		if src == nil {
			continue
		}
		handle, key, err := m.textures.Get(doc, int(*src))
		if err != nil {
			return nil, err
		}
		out = append(out, Texture{Type: ref.typ, Handle: handle, Key: key})
	}
	return out, nil
}

// Draw renders every instance in traversal order with Matrix() applied
// outside its world matrix.
func (m *Model) Draw(sh Shader, cam Camera) {
	outer := m.Matrix()
	for _, inst := range m.instances {
		inst.Mesh.Draw(m.dev, sh, cam, outer.Mul(inst.World))
	}
}

// Instances returns the mesh instances in traversal order.
func (m *Model) Instances() []Instance { return m.instances }

// Meshes returns the distinct meshes in load order.
func (m *Model) Meshes() []*Mesh { return m.meshes }

// Textures returns the model's texture cache.
func (m *Model) Textures() *TextureCache { return m.textures }

// Bounds returns the box enclosing every instance in the model's own frame,
// before the model-wide transform.
func (m *Model) Bounds() Bounds {
	b := emptyBounds()
	for _, inst := range m.instances {
		if inst.Mesh.Bounds.Empty() {
			continue
		}
		lo, hi := inst.Mesh.Bounds.Min, inst.Mesh.Bounds.Max
		for c := 0; c < 8; c++ {
			corner := [3]float32{lo.X, lo.Y, lo.Z}
			if c&1 != 0 {
				corner[0] = hi.X
			}
			if c&2 != 0 {
				corner[1] = hi.Y
			}
			if c&4 != 0 {
				corner[2] = hi.Z
			}
			b.add(inst.World.TransformPoint(corner))
		}
	}
	return b
}

// Release frees all GPU resources owned by the model.
func (m *Model) Release() {
	for _, mesh := range m.meshes {
		mesh.release(m.dev)
	}
	m.textures.Release()
	m.meshes = nil
	m.instances = nil
}
