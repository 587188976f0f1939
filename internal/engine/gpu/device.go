// Package gpu implements model.Device on OpenGL 4.1 core.
package gpu

import (
	"errors"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gltfview/internal/engine/model"
)

// Device uploads meshes and textures and issues draws on the current GL
// context. Every method must run on the thread that owns the context.
type Device struct {
	// Anisotropy is the max anisotropic filtering level; 0 disables it.
	Anisotropy float32
}

// New returns a device with default texture filtering.
func New() *Device {
	return &Device{Anisotropy: 8}
}

// UploadMesh creates a VAO with an interleaved vertex buffer and an index buffer.
func (d *Device) UploadMesh(vertices []model.Vertex, indices []uint32) (model.GPUMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return model.GPUMesh{}, errors.New("gpu: empty mesh")
	}

	var m model.GPUMesh
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*model.VertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	attribs := []struct {
		loc    uint32
		size   int32
		offset uintptr
	}{
		{model.AttribPosition, 3, model.OffsetPosition},
		{model.AttribNormal, 3, model.OffsetNormal},
		{model.AttribColor, 3, model.OffsetColor},
		{model.AttribTexCoord, 2, model.OffsetTexCoord},
	}
	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.loc, a.size, gl.FLOAT, false, model.VertexSize, a.offset)
		gl.EnableVertexAttribArray(a.loc)
	}

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	m.IndexCount = int32(len(indices))

	gl.BindVertexArray(0)
	return m, nil
}

// UploadTexture creates a mipmapped, repeating RGBA texture.
func (d *Device) UploadTexture(img *image.RGBA) (uint32, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, errors.New("gpu: empty texture")
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if d.Anisotropy > 0 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, d.Anisotropy)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex, nil
}

// BindTexture binds handle to the given texture unit.
func (d *Device) BindTexture(unit, handle uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, handle)
}

// DrawIndexed draws the mesh as triangles.
func (d *Device) DrawIndexed(m model.GPUMesh) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// ReleaseMesh deletes the mesh's buffers and VAO.
func (d *Device) ReleaseMesh(m model.GPUMesh) {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
	}
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
	}
}

// ReleaseTexture deletes a texture.
func (d *Device) ReleaseTexture(handle uint32) {
	if handle != 0 {
		gl.DeleteTextures(1, &handle)
	}
}

// Frame holds per-frame GL state.
type Frame struct {
	ClearColor [4]float32
	DepthTest  bool
	Wireframe  bool
}

// Begin sets the viewport and GL state and clears color and depth.
func (d *Device) Begin(f Frame, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	if f.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if f.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.ClearColor(f.ClearColor[0], f.ClearColor[1], f.ClearColor[2], f.ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}

var _ model.Device = (*Device)(nil)
