package model

import (
	qgltf "github.com/qmuntal/gltf"

	"github.com/Faultbox/gltfview/pkg/math"
)

// NodeInstance is a mesh-bearing node with its accumulated world matrix.
type NodeInstance struct {
	Node  int
	Mesh  int
	World math.Mat4
}

// LocalMatrix returns a node's local transform: its matrix verbatim when one
// other than identity is set, otherwise T*R*S with absent components at their
// defaults.
func LocalMatrix(n *qgltf.Node) math.Mat4 {
	if n.Matrix != qgltf.DefaultMatrix && n.Matrix != ([16]float32{}) {
		return math.Mat4(n.Matrix)
	}
	t := math.Vec3FromArray(n.TranslationOrDefault())
	r := math.QuatFromArray(n.RotationOrDefault()).Normalize()
	s := math.Vec3FromArray(n.ScaleOrDefault())
	return math.TRS(t, r, s)
}

// Traverse walks the node forest depth-first from roots, each starting at
// identity, and returns the mesh-bearing nodes in visit order: roots in the
// given order, children in declared order. The nodes must have passed
// validation, so references are in range and the graph is acyclic.
func Traverse(nodes []*qgltf.Node, roots []int) []NodeInstance {
	type frame struct {
		node   int
		parent math.Mat4
	}

	var out []NodeInstance
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i], parent: math.Identity()})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := nodes[f.node]
		world := f.parent.Mul(LocalMatrix(node))
		if node.Mesh != nil {
			out = append(out, NodeInstance{Node: f.node, Mesh: int(*node.Mesh), World: world})
		}

		// Push in reverse so the first child is visited next.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: int(node.Children[i]), parent: world})
		}
	}
	return out
}
