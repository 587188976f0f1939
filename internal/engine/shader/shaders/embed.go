// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// DefaultVertexShader transforms vertices by the model and camera matrices.
//
//go:embed default.vert
var DefaultVertexShader string

// DefaultFragmentShader applies a point light to the diffuse and specular
// textures, or to the flat base color when a mesh has no texture.
//
//go:embed default.frag
var DefaultFragmentShader string
