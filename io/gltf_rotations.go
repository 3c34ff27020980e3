package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"hypercomplex/math"
)

// NodeRotation is the orientation of one glTF node.
type NodeRotation struct {
	Index  int
	Name   string
	Parent int             // -1 for nodes without a parent
	Local  math.Quaternion // rotation relative to the parent
	World  math.Quaternion // accumulated rotation from the scene root
}

// RotationSet holds the rotations of every node in a document, indexed the
// same way as the document's node list.
type RotationSet struct {
	Nodes []NodeRotation
	Roots []int
}

// LoadRotations opens a .glb or .gltf file and returns the local and world
// rotation of every node.
func LoadRotations(path string) (*RotationSet, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return Rotations(doc), nil
}

// Rotations extracts node rotations from an already opened document. glTF
// stores rotations as [x, y, z, w]; they map to (s=w, i=x, j=y, k=z).
func Rotations(doc *gltf.Document) *RotationSet {
	set := &RotationSet{Nodes: make([]NodeRotation, len(doc.Nodes))}

	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		set.Nodes[i] = NodeRotation{
			Index:  i,
			Name:   name,
			Parent: -1,
			Local:  localRotation(gn),
		}
	}

	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(set.Nodes) && set.Nodes[c].Parent == -1 {
				set.Nodes[c].Parent = i
			}
		}
	}

	set.Roots = rootNodes(doc, set)

	visited := make([]bool, len(set.Nodes))
	var walk func(idx int, parent math.Quaternion)
	walk = func(idx int, parent math.Quaternion) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		n := &set.Nodes[idx]
		n.World = parent.Mul(n.Local)
		for _, c := range doc.Nodes[idx].Children {
			if c >= 0 && c < len(set.Nodes) && set.Nodes[c].Parent == idx {
				walk(c, n.World)
			}
		}
	}
	for _, r := range set.Roots {
		walk(r, math.QuaternionIdentity())
	}
	// Nodes outside the default scene still get a world rotation.
	for i := range set.Nodes {
		if !visited[i] && set.Nodes[i].Parent == -1 {
			walk(i, math.QuaternionIdentity())
		}
	}

	return set
}

// ApplyRootRotation pre-multiplies the rotation of every scene root by q, so
// the whole scene turns by q about the origin. Results are re-normalised.
// Roots stored as a matrix keep the matrix form, with their translation and
// scale untouched.
func ApplyRootRotation(doc *gltf.Document, q math.Quaternion) {
	set := Rotations(doc)
	for _, r := range set.Roots {
		gn := doc.Nodes[r]
		if hasMatrix(gn) {
			gn.Matrix = rotateMatrix(gn.Matrix, q.Normalize())
			continue
		}
		rotated := q.Mul(set.Nodes[r].Local).Normalize()
		gn.Rotation = toGLTF(rotated)
	}
}

// RotateFile applies q to the scene roots of the document at in and writes
// the result to out. An out path ending in .glb is written as binary glTF.
func RotateFile(in, out string, q math.Quaternion) error {
	doc, err := gltf.Open(in)
	if err != nil {
		return fmt.Errorf("gltf open %q: %w", in, err)
	}

	ApplyRootRotation(doc, q)

	if strings.EqualFold(filepath.Ext(out), ".glb") {
		err = gltf.SaveBinary(doc, out)
	} else {
		err = gltf.Save(doc, out)
	}
	if err != nil {
		return fmt.Errorf("gltf save %q: %w", out, err)
	}
	return nil
}

func rootNodes(doc *gltf.Document, set *RotationSet) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		var roots []int
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx >= 0 && idx < len(set.Nodes) {
				roots = append(roots, idx)
			}
		}
		return roots
	}

	// No default scene: every parentless node is a root
	var roots []int
	for i, n := range set.Nodes {
		if n.Parent == -1 {
			roots = append(roots, i)
		}
	}
	return roots
}

// A node carries either a matrix or TRS properties, never both.
func hasMatrix(gn *gltf.Node) bool {
	return gn.MatrixOrDefault() != gltf.DefaultMatrix
}

func localRotation(gn *gltf.Node) math.Quaternion {
	if !hasMatrix(gn) {
		return fromGLTF(gn.RotationOrDefault())
	}
	m := matrixFromGLTF(gn.Matrix)
	for row := range 3 {
		scale := math.NewVec3(m[row][0], m[row][1], m[row][2]).Length()
		if scale == 0 {
			return math.QuaternionIdentity()
		}
		for col := range 3 {
			m[row][col] /= scale
		}
	}
	return math.QuaternionFromMat4(m)
}

// rotateMatrix applies q after the matrix's own rotation and scale, leaving
// the translation in place: in row-vector form M' = (S·R)·Q then T.
func rotateMatrix(arr [16]float64, q math.Quaternion) [16]float64 {
	m := matrixFromGLTF(arr)
	translation := m[3]
	m[3] = [4]float32{0, 0, 0, 1}
	m = m.Mul(q.ToMat4())
	m[3] = translation
	return matrixToGLTF(m)
}

// glTF matrices are column-major, which is the memory layout of the
// row-vector Mat4.
func matrixFromGLTF(arr [16]float64) math.Mat4 {
	var m math.Mat4
	for i := range 4 {
		for j := range 4 {
			m[i][j] = float32(arr[i*4+j])
		}
	}
	return m
}

func matrixToGLTF(m math.Mat4) [16]float64 {
	var arr [16]float64
	for i := range 4 {
		for j := range 4 {
			arr[i*4+j] = float64(m[i][j])
		}
	}
	return arr
}

func fromGLTF(r [4]float64) math.Quaternion {
	return math.QuaternionFromVec4(math.Vec4{
		X: float32(r[0]), Y: float32(r[1]),
		Z: float32(r[2]), W: float32(r[3]),
	})
}

func toGLTF(q math.Quaternion) [4]float64 {
	v := q.Vec4()
	return [4]float64{float64(v.X), float64(v.Y), float64(v.Z), float64(v.W)}
}
