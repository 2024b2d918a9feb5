// Package mesh defines the indexed triangle mesh produced by the shape
// generators. Positions, normals and texture coordinates are deduplicated
// independently and every triangle corner references all three through an
// IndexTriplet.
package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// IndexTriplet references one triangle corner. Each field indexes its own
// attribute array, so a corner may share a position with another corner
// while carrying a different normal or texture coordinate.
type IndexTriplet struct {
	Pos  uint32
	UV   uint32
	Norm uint32
}

// Mesh is a triangle mesh with independently indexed attributes.
// Indices holds three triplets per triangle.
type Mesh struct {
	Positions []v3.Vec
	Normals   []v3.Vec
	Texcoords []v2.Vec
	Indices   []IndexTriplet
}

// VertexCount returns the number of distinct positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0 && len(m.Indices) == 0
}

// Triangle returns the three corners of triangle i.
func (m *Mesh) Triangle(i int) [3]IndexTriplet {
	return [3]IndexTriplet{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// Corner resolves a triplet to its attribute values.
func (m *Mesh) Corner(t IndexTriplet) (pos v3.Vec, uv v2.Vec, norm v3.Vec) {
	return m.Positions[t.Pos], m.Texcoords[t.UV], m.Normals[t.Norm]
}
