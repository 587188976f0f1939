package gltf

import (
	"fmt"
	"strings"

	qgltf "github.com/qmuntal/gltf"
)

// validate checks the references the viewer follows (scenes, nodes, meshes,
// materials, textures, images) and the shape of the node graph. Accessor
// and buffer ranges are checked when data is decoded.
func (d *Document) validate() error {
	if v := d.Asset.Version; v != "" && !strings.HasPrefix(v, "2.") {
		return fmt.Errorf("%w: asset version %q", ErrUnsupportedFeature, v)
	}
	if err := d.checkNull(); err != nil {
		return err
	}

	nodes := uint32(len(d.Nodes))
	if d.Scene != nil && int(*d.Scene) >= len(d.Scenes) {
		return fmt.Errorf("%w: scene %d out of range (%d scenes)", ErrParse, *d.Scene, len(d.Scenes))
	}
	for si, sc := range d.Scenes {
		for _, n := range sc.Nodes {
			if n >= nodes {
				return fmt.Errorf("%w: scene %d: node %d out of range", ErrParse, si, n)
			}
		}
	}

	if err := d.validateNodes(); err != nil {
		return err
	}

	for mi, mesh := range d.Meshes {
		if len(mesh.Primitives) == 0 {
			return fmt.Errorf("%w: mesh %d has no primitives", ErrParse, mi)
		}
		for pi, prim := range mesh.Primitives {
			if prim == nil {
				return fmt.Errorf("%w: mesh %d primitive %d is null", ErrParse, mi, pi)
			}
			if _, ok := prim.Attributes[qgltf.POSITION]; !ok {
				return fmt.Errorf("%w: mesh %d primitive %d: missing %s attribute", ErrParse, mi, pi, qgltf.POSITION)
			}
			if prim.Material != nil && int(*prim.Material) >= len(d.Materials) {
				return fmt.Errorf("%w: mesh %d primitive %d: material %d out of range", ErrParse, mi, pi, *prim.Material)
			}
		}
	}

	for mi, mat := range d.Materials {
		pbr := mat.PBRMetallicRoughness
		if pbr == nil {
			continue
		}
		for _, ti := range []*qgltf.TextureInfo{pbr.BaseColorTexture, pbr.MetallicRoughnessTexture} {
			if ti != nil && int(ti.Index) >= len(d.Textures) {
				return fmt.Errorf("%w: material %d: texture %d out of range", ErrParse, mi, ti.Index)
			}
		}
	}

	for ti, tex := range d.Textures {
		if tex.Source != nil && int(*tex.Source) >= len(d.Images) {
			return fmt.Errorf("%w: texture %d: image %d out of range", ErrParse, ti, *tex.Source)
		}
	}

	for ii, img := range d.Images {
		if img.URI == "" && img.BufferView == nil {
			return fmt.Errorf("%w: image %d has neither uri nor bufferView", ErrParse, ii)
		}
	}
	return nil
}

// checkNull rejects null entries in the arrays the viewer walks.
func (d *Document) checkNull() error {
	return firstErr(
		nullEntry("scene", d.Scenes),
		nullEntry("node", d.Nodes),
		nullEntry("mesh", d.Meshes),
		nullEntry("accessor", d.Accessors),
		nullEntry("bufferView", d.BufferViews),
		nullEntry("buffer", d.Buffers),
		nullEntry("material", d.Materials),
		nullEntry("texture", d.Textures),
		nullEntry("image", d.Images),
	)
}

func nullEntry[T any](kind string, s []*T) error {
	for i, v := range s {
		if v == nil {
			return fmt.Errorf("%w: %s %d is null", ErrParse, kind, i)
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// validateNodes checks mesh and child references and that the node graph is
// a forest: every node has at most one parent and no node is its own ancestor.
func (d *Document) validateNodes() error {
	parent := make([]int, len(d.Nodes))
	for i := range parent {
		parent[i] = -1
	}

	for i, n := range d.Nodes {
		if n.Mesh != nil && int(*n.Mesh) >= len(d.Meshes) {
			return fmt.Errorf("%w: node %d: mesh %d out of range", ErrParse, i, *n.Mesh)
		}
		for _, uc := range n.Children {
			c := int(uc)
			if c >= len(d.Nodes) {
				return fmt.Errorf("%w: node %d: child %d out of range", ErrParse, i, c)
			}
			if c == i {
				return fmt.Errorf("%w: node %d lists itself as a child", ErrParse, i)
			}
			if parent[c] != -1 {
				return fmt.Errorf("%w: node %d has two parents (%d and %d)", ErrParse, c, parent[c], i)
			}
			parent[c] = i
		}
	}

	// With single parents a cycle shows up as a parent chain longer than the
	// node count.
	for i := range d.Nodes {
		steps := 0
		for p := parent[i]; p != -1; p = parent[p] {
			steps++
			if steps > len(d.Nodes) {
				return fmt.Errorf("%w: node %d is part of a cycle", ErrParse, i)
			}
		}
	}
	return nil
}

// Roots returns the root node indices to render: the nodes of the default
// scene, else of the first scene, else every node without a parent.
func (d *Document) Roots() []int {
	switch {
	case d.Scene != nil:
		return toInts(d.Scenes[*d.Scene].Nodes)
	case len(d.Scenes) > 0:
		return toInts(d.Scenes[0].Nodes)
	}

	child := make([]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	roots := make([]int, 0, len(d.Nodes))
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

func toInts(s []uint32) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = int(v)
	}
	return out
}
