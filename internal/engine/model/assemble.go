package model

import (
	"fmt"

	qgltf "github.com/qmuntal/gltf"

	"github.com/Faultbox/gltfview/pkg/gltf"
)

// GroupVec2 groups a flat float slice into pairs. A trailing partial chunk is dropped.
func GroupVec2(flat []float32) [][2]float32 {
	out := make([][2]float32, len(flat)/2)
	for i := range out {
		out[i] = [2]float32{flat[2*i], flat[2*i+1]}
	}
	return out
}

// GroupVec3 groups a flat float slice into triples. A trailing partial chunk is dropped.
func GroupVec3(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}

// GroupVec4 groups a flat float slice into quadruples. A trailing partial chunk is dropped.
func GroupVec4(flat []float32) [][4]float32 {
	out := make([][4]float32, len(flat)/4)
	for i := range out {
		out[i] = [4]float32{flat[4*i], flat[4*i+1], flat[4*i+2], flat[4*i+3]}
	}
	return out
}

// AssembleVertices zips positions, normals, texture coordinates and colors
// index-wise into vertices. Every non-nil attribute must have exactly one
// element per position; nil normals and texture coordinates become zero and
// nil colors become DefaultColor.
func AssembleVertices(positions, normals [][3]float32, texCoords [][2]float32, colors [][3]float32) ([]Vertex, error) {
	n := len(positions)
	for _, a := range []struct {
		name string
		len  int
		set  bool
	}{
		{qgltf.NORMAL, len(normals), normals != nil},
		{qgltf.TEXCOORD_0, len(texCoords), texCoords != nil},
		{qgltf.COLOR_0, len(colors), colors != nil},
	} {
		if a.set && a.len != n {
			return nil, fmt.Errorf("%w: %s has %d elements, %s has %d",
				gltf.ErrDecode, a.name, a.len, qgltf.POSITION, n)
		}
	}

	vertices := make([]Vertex, n)
	for i, p := range positions {
		v := Vertex{Position: p, Color: DefaultColor}
		if normals != nil {
			v.Normal = normals[i]
		}
		if texCoords != nil {
			v.TexCoord = texCoords[i]
		}
		if colors != nil {
			v.Color = colors[i]
		}
		vertices[i] = v
	}
	return vertices, nil
}
