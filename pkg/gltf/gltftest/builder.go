// Package gltftest builds small glTF assets for tests.
package gltftest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
)

// Builder accumulates a document and a single binary buffer.
type Builder struct {
	Doc *gltf.Document
	bin []byte
}

// New returns a builder with an empty glTF 2.0 document.
func New() *Builder {
	return &Builder{Doc: &gltf.Document{Asset: gltf.Asset{Version: "2.0", Generator: "gltftest"}}}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// AddView appends raw bytes as a new bufferView and returns its index.
func (b *Builder) AddView(data []byte, stride uint32) uint32 {
	for len(b.bin)%4 != 0 {
		b.bin = append(b.bin, 0)
	}
	b.Doc.BufferViews = append(b.Doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(len(b.bin)),
		ByteLength: uint32(len(data)),
		ByteStride: stride,
	})
	b.bin = append(b.bin, data...)
	return uint32(len(b.Doc.BufferViews) - 1)
}

// AddAccessor appends an accessor and returns its index.
func (b *Builder) AddAccessor(acc gltf.Accessor) uint32 {
	b.Doc.Accessors = append(b.Doc.Accessors, &acc)
	return uint32(len(b.Doc.Accessors) - 1)
}

// AddFloats stores tightly packed float32 values as an accessor of type typ.
func (b *Builder) AddFloats(typ gltf.AccessorType, values []float32) uint32 {
	var buf bytes.Buffer
	for _, v := range values {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
	}
	view := b.AddView(buf.Bytes(), 0)
	return b.AddAccessor(gltf.Accessor{
		BufferView:    gltf.Index(view),
		ComponentType: gltf.ComponentFloat,
		Count:         uint32(len(values)) / typ.Components(),
		Type:          typ,
	})
}

// AddVec3 stores vec3 elements and returns the accessor index.
func (b *Builder) AddVec3(vs ...[3]float32) uint32 {
	flat := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		flat = append(flat, v[:]...)
	}
	return b.AddFloats(gltf.AccessorVec3, flat)
}

// AddVec2 stores vec2 elements and returns the accessor index.
func (b *Builder) AddVec2(vs ...[2]float32) uint32 {
	flat := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		flat = append(flat, v[:]...)
	}
	return b.AddFloats(gltf.AccessorVec2, flat)
}

// AddIndices stores UNSIGNED_SHORT indices and returns the accessor index.
func (b *Builder) AddIndices(idx ...uint16) uint32 {
	data := make([]byte, 2*len(idx))
	for i, v := range idx {
		binary.LittleEndian.PutUint16(data[2*i:], v)
	}
	view := b.AddView(data, 0)
	return b.AddAccessor(gltf.Accessor{
		BufferView:    gltf.Index(view),
		ComponentType: gltf.ComponentUshort,
		Count:         uint32(len(idx)),
		Type:          gltf.AccessorScalar,
	})
}

// AddMesh appends a mesh with the given primitives.
func (b *Builder) AddMesh(prims ...*gltf.Primitive) uint32 {
	b.Doc.Meshes = append(b.Doc.Meshes, &gltf.Mesh{Primitives: prims})
	return uint32(len(b.Doc.Meshes) - 1)
}

// AddTriangle adds a unit triangle mesh with normals, texcoords and indices
// and returns the mesh index.
func (b *Builder) AddTriangle(material *uint32) uint32 {
	pos := b.AddVec3([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0})
	nrm := b.AddVec3([3]float32{0, 0, 1}, [3]float32{0, 0, 1}, [3]float32{0, 0, 1})
	uv := b.AddVec2([2]float32{0, 0}, [2]float32{1, 0}, [2]float32{0, 1})
	idx := b.AddIndices(0, 1, 2)
	return b.AddMesh(&gltf.Primitive{
		Attributes: gltf.Attribute{
			gltf.POSITION:   pos,
			gltf.NORMAL:     nrm,
			gltf.TEXCOORD_0: uv,
		},
		Indices:  gltf.Index(idx),
		Material: material,
	})
}

// AddNode appends a node and returns its index.
func (b *Builder) AddNode(n gltf.Node) uint32 {
	b.Doc.Nodes = append(b.Doc.Nodes, &n)
	return uint32(len(b.Doc.Nodes) - 1)
}

// AddScene appends a scene over the given root nodes.
func (b *Builder) AddScene(nodes ...uint32) uint32 {
	b.Doc.Scenes = append(b.Doc.Scenes, &gltf.Scene{Nodes: nodes})
	return uint32(len(b.Doc.Scenes) - 1)
}

// AddImage appends an external image reference.
func (b *Builder) AddImage(uri string) uint32 {
	b.Doc.Images = append(b.Doc.Images, &gltf.Image{URI: uri})
	return uint32(len(b.Doc.Images) - 1)
}

// AddTexture appends a texture sourcing image img.
func (b *Builder) AddTexture(img uint32) uint32 {
	b.Doc.Textures = append(b.Doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
	return uint32(len(b.Doc.Textures) - 1)
}

// AddMaterial appends a material with optional base color and
// metallic-roughness textures (nil to omit).
func (b *Builder) AddMaterial(baseColor, metallicRoughness *uint32) uint32 {
	pbr := &gltf.PBRMetallicRoughness{}
	if baseColor != nil {
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: *baseColor}
	}
	if metallicRoughness != nil {
		pbr.MetallicRoughnessTexture = &gltf.TextureInfo{Index: *metallicRoughness}
	}
	b.Doc.Materials = append(b.Doc.Materials, &gltf.Material{PBRMetallicRoughness: pbr})
	return uint32(len(b.Doc.Materials) - 1)
}

// Bin returns the accumulated binary buffer.
func (b *Builder) Bin() []byte { return b.bin }

// Document returns a copy of the document whose single buffer holds the
// accumulated bytes at uri.
func (b *Builder) Document(uri string) *gltf.Document {
	doc := *b.Doc
	doc.Buffers = nil
	if len(b.bin) > 0 {
		doc.Buffers = []*gltf.Buffer{{URI: uri, ByteLength: uint32(len(b.bin)), Data: b.bin}}
	}
	return &doc
}

// JSON encodes the document as a .gltf manifest with its buffer at uri. An
// empty uri embeds the buffer as a base64 data uri.
func (b *Builder) JSON(uri string) []byte {
	return b.encode(b.Document(uri), false)
}

// GLB encodes the document as a binary glTF container.
func (b *Builder) GLB() []byte {
	return b.encode(b.Document(""), true)
}

func (b *Builder) encode(doc *gltf.Document, asBinary bool) []byte {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = asBinary
	if err := enc.Encode(doc); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteFiles writes name.gltf and name.bin into dir and returns the manifest path.
func (b *Builder) WriteFiles(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".gltf")
	if err := os.WriteFile(path, b.JSON(name+".bin"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if len(b.bin) > 0 {
		if err := os.WriteFile(filepath.Join(dir, name+".bin"), b.bin, 0o644); err != nil {
			t.Fatalf("write buffer: %v", err)
		}
	}
	return path
}

// WriteGLB writes name.glb into dir and returns its path.
func (b *Builder) WriteGLB(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".glb")
	if err := os.WriteFile(path, b.GLB(), 0o644); err != nil {
		t.Fatalf("write glb: %v", err)
	}
	return path
}

// WritePNG writes a w×h PNG filled with c to path.
func WritePNG(t testing.TB, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}
