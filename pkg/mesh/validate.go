package mesh

import "fmt"

// Validate checks that the index list forms whole triangles and that every
// triplet references existing attributes. It returns the first problem.
func Validate(m *Mesh) error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: %d index triplets is not a multiple of 3", len(m.Indices))
	}
	for i, t := range m.Indices {
		if int(t.Pos) >= len(m.Positions) {
			return fmt.Errorf("mesh: triplet %d: position index %d out of range [0,%d)", i, t.Pos, len(m.Positions))
		}
		if int(t.UV) >= len(m.Texcoords) {
			return fmt.Errorf("mesh: triplet %d: texcoord index %d out of range [0,%d)", i, t.UV, len(m.Texcoords))
		}
		if int(t.Norm) >= len(m.Normals) {
			return fmt.Errorf("mesh: triplet %d: normal index %d out of range [0,%d)", i, t.Norm, len(m.Normals))
		}
	}
	return nil
}

// DuplicateCount reports how many attribute entries repeat an earlier entry
// bit for bit. A mesh built through a Builder always reports zeros.
type DuplicateCount struct {
	Positions int
	Normals   int
	Texcoords int
}

// Total returns the number of duplicates across all attributes.
func (d DuplicateCount) Total() int {
	return d.Positions + d.Normals + d.Texcoords
}

// Duplicates counts bit-identical repeats in each attribute array.
func Duplicates(m *Mesh) DuplicateCount {
	var d DuplicateCount
	seen3 := make(map[Vec3Key]struct{}, len(m.Positions))
	for _, p := range m.Positions {
		k := KeyVec3(p)
		if _, ok := seen3[k]; ok {
			d.Positions++
		}
		seen3[k] = struct{}{}
	}
	clear(seen3)
	for _, n := range m.Normals {
		k := KeyVec3(n)
		if _, ok := seen3[k]; ok {
			d.Normals++
		}
		seen3[k] = struct{}{}
	}
	seen2 := make(map[Vec2Key]struct{}, len(m.Texcoords))
	for _, t := range m.Texcoords {
		k := KeyVec2(t)
		if _, ok := seen2[k]; ok {
			d.Texcoords++
		}
		seen2[k] = struct{}{}
	}
	return d
}

// Edge is an undirected edge between two position indices, stored with
// the smaller index first.
type Edge [2]uint32

// EdgeUses counts how many triangles use each undirected position edge.
// On a closed, watertight surface every count is exactly 2.
func EdgeUses(m *Mesh) map[Edge]int {
	uses := make(map[Edge]int, len(m.Indices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i].Pos, m.Indices[i+1].Pos, m.Indices[i+2].Pos
		for _, e := range [3][2]uint32{{a, b}, {b, c}, {c, a}} {
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			uses[Edge(e)]++
		}
	}
	return uses
}
