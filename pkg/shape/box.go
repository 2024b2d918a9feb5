package shape

import (
	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// boxFace identifies one side of a Box.
type boxFace int

const (
	faceFront  boxFace = iota // +Z
	faceBack                  // -Z
	faceLeft                  // -X
	faceRight                 // +X
	faceTop                   // +Y
	faceBottom                // -Y
)

var boxNormals = [6]v3.Vec{
	faceFront:  {X: 0, Y: 0, Z: 1},
	faceBack:   {X: 0, Y: 0, Z: -1},
	faceLeft:   {X: -1, Y: 0, Z: 0},
	faceRight:  {X: 1, Y: 0, Z: 0},
	faceTop:    {X: 0, Y: 1, Z: 0},
	faceBottom: {X: 0, Y: -1, Z: 0},
}

// Box returns an axis-aligned cube of the given edge size centered at the
// origin. Each face is split into divisions x divisions cells and carries
// its own outward normal and texture orientation.
func Box(size float64, divisions int) *mesh.Mesh {
	if divisions < 1 {
		return &mesh.Mesh{}
	}

	b := mesh.NewBuilder()
	h := size / 2
	coord := func(i int) float64 { return size*frac(i, divisions) - h }

	for face := faceFront; face <= faceBottom; face++ {
		n := boxNormals[face]

		for i := 0; i < divisions; i++ {
			for j := 0; j < divisions; j++ {
				a0, a1 := coord(i), coord(i+1)
				b0, b1 := coord(j), coord(j+1)
				s0, s1 := frac(i, divisions), frac(i+1, divisions)
				t0, t1 := frac(j, divisions), frac(j+1, divisions)

				p, uv := boxCell(face, h, a0, a1, b0, b1, s0, s1, t0, t1)

				c0 := b.Corner(p[0], uv[0], n)
				c1 := b.Corner(p[1], uv[1], n)
				c2 := b.Corner(p[2], uv[2], n)
				c3 := b.Corner(p[3], uv[3], n)
				b.Quad(c0, c1, c2, c3)
			}
		}
	}

	return b.Mesh()
}

// boxCell lays out the four corners of one face cell in the order
// bottom-left, bottom-right, top-left, top-right as seen from outside.
// a and b are the face's in-plane coordinates, s and t its texture
// coordinates. Back and right faces swap U, left mirrors U, bottom swaps V.
func boxCell(face boxFace, h, a0, a1, b0, b1, s0, s1, t0, t1 float64) (p [4]v3.Vec, uv [4]v2.Vec) {
	uv = [4]v2.Vec{{X: s0, Y: t0}, {X: s1, Y: t0}, {X: s0, Y: t1}, {X: s1, Y: t1}}

	switch face {
	case faceFront:
		p = [4]v3.Vec{{X: a0, Y: b0, Z: h}, {X: a1, Y: b0, Z: h}, {X: a0, Y: b1, Z: h}, {X: a1, Y: b1, Z: h}}
	case faceBack:
		p = [4]v3.Vec{{X: a1, Y: b0, Z: -h}, {X: a0, Y: b0, Z: -h}, {X: a1, Y: b1, Z: -h}, {X: a0, Y: b1, Z: -h}}
		uv = [4]v2.Vec{{X: s1, Y: t0}, {X: s0, Y: t0}, {X: s1, Y: t1}, {X: s0, Y: t1}}
	case faceLeft:
		p = [4]v3.Vec{{X: -h, Y: b0, Z: a0}, {X: -h, Y: b0, Z: a1}, {X: -h, Y: b1, Z: a0}, {X: -h, Y: b1, Z: a1}}
		uv = [4]v2.Vec{{X: 1 - s0, Y: t0}, {X: 1 - s1, Y: t0}, {X: 1 - s0, Y: t1}, {X: 1 - s1, Y: t1}}
	case faceRight:
		p = [4]v3.Vec{{X: h, Y: b0, Z: a1}, {X: h, Y: b0, Z: a0}, {X: h, Y: b1, Z: a1}, {X: h, Y: b1, Z: a0}}
		uv = [4]v2.Vec{{X: s1, Y: t0}, {X: s0, Y: t0}, {X: s1, Y: t1}, {X: s0, Y: t1}}
	case faceTop:
		p = [4]v3.Vec{{X: a0, Y: h, Z: b1}, {X: a1, Y: h, Z: b1}, {X: a0, Y: h, Z: b0}, {X: a1, Y: h, Z: b0}}
	case faceBottom:
		p = [4]v3.Vec{{X: a0, Y: -h, Z: b0}, {X: a1, Y: -h, Z: b0}, {X: a0, Y: -h, Z: b1}, {X: a1, Y: -h, Z: b1}}
		uv = [4]v2.Vec{{X: s0, Y: t1}, {X: s1, Y: t1}, {X: s0, Y: t0}, {X: s1, Y: t0}}
	}
	return p, uv
}
