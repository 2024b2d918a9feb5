package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Builder accumulates a mesh one corner at a time. It owns one indexer per
// attribute kind and the growing triplet list. A Builder is meant for a
// single generator call.
type Builder struct {
	pos     *Indexer[v3.Vec, Vec3Key]
	norm    *Indexer[v3.Vec, Vec3Key]
	uv      *Indexer[v2.Vec, Vec2Key]
	indices []IndexTriplet
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		pos:  NewVec3Indexer(),
		norm: NewVec3Indexer(),
		uv:   NewVec2Indexer(),
	}
}

// Position registers a position and returns its index.
func (b *Builder) Position(p v3.Vec) uint32 { return b.pos.Add(p) }

// Normal registers a normal and returns its index.
func (b *Builder) Normal(n v3.Vec) uint32 { return b.norm.Add(n) }

// UV registers a texture coordinate and returns its index.
func (b *Builder) UV(t v2.Vec) uint32 { return b.uv.Add(t) }

// Corner registers all three attributes of a corner.
func (b *Builder) Corner(p v3.Vec, uv v2.Vec, n v3.Vec) IndexTriplet {
	return IndexTriplet{Pos: b.pos.Add(p), UV: b.uv.Add(uv), Norm: b.norm.Add(n)}
}

// Triangle appends one triangle. Corners are expected counter-clockwise as
// seen from the side the surface faces.
func (b *Builder) Triangle(c0, c1, c2 IndexTriplet) {
	b.indices = append(b.indices, c0, c1, c2)
}

// Quad appends the two triangles (c0, c1, c2) and (c2, c1, c3) of a grid
// cell whose corners are bottom-left, bottom-right, top-left, top-right.
func (b *Builder) Quad(c0, c1, c2, c3 IndexTriplet) {
	b.indices = append(b.indices, c0, c1, c2, c2, c1, c3)
}

// Mesh returns the accumulated mesh. The builder must not be used after.
func (b *Builder) Mesh() *Mesh {
	if len(b.indices) == 0 && b.pos.Len() == 0 {
		return &Mesh{}
	}
	return &Mesh{
		Positions: b.pos.Data(),
		Normals:   b.norm.Data(),
		Texcoords: b.uv.Data(),
		Indices:   b.indices,
	}
}
