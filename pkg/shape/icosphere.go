package shape

import (
	"math"

	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// icosahedronFaces lists the 20 faces of the base icosahedron, wound
// counter-clockwise from outside.
var icosahedronFaces = [][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// icosahedron returns the unit-length vertices and the faces of a regular
// icosahedron.
func icosahedron() ([]v3.Vec, [][3]int) {
	t := (1 + math.Sqrt(5)) / 2
	raw := []v3.Vec{
		{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
		{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
		{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
	}
	verts := make([]v3.Vec, len(raw))
	for i, v := range raw {
		verts[i] = normalize(v)
	}
	faces := make([][3]int, len(icosahedronFaces))
	copy(faces, icosahedronFaces)
	return verts, faces
}

// edgeKey is an unordered vertex pair with the smaller index first.
type edgeKey [2]int

// subdivider splits every face into four, sharing edge midpoints between
// neighbouring faces.
type subdivider struct {
	verts []v3.Vec
	mids  map[edgeKey]int
}

// midpoint returns the index of the unit-sphere midpoint of edge (a, b),
// creating it on first use.
func (s *subdivider) midpoint(a, b int) int {
	if a > b {
		a, b = b, a
	}
	k := edgeKey{a, b}
	if i, ok := s.mids[k]; ok {
		return i
	}
	m := normalize(s.verts[a].Add(s.verts[b]).MulScalar(0.5))
	i := len(s.verts)
	s.verts = append(s.verts, m)
	s.mids[k] = i
	return i
}

// subdivide performs one round of 1-to-4 face splitting.
func subdivide(verts []v3.Vec, faces [][3]int) ([]v3.Vec, [][3]int) {
	s := &subdivider{verts: verts, mids: make(map[edgeKey]int, len(faces)*3/2)}
	out := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		a, b, c := f[0], f[1], f[2]
		ab := s.midpoint(a, b)
		bc := s.midpoint(b, c)
		ca := s.midpoint(c, a)
		out = append(out,
			[3]int{a, ab, ca},
			[3]int{ab, b, bc},
			[3]int{bc, c, ca},
			[3]int{ab, bc, ca},
		)
	}
	return s.verts, out
}

// sphereUV maps a unit direction to equirectangular texture coordinates.
func sphereUV(n v3.Vec) v2.Vec {
	y := math.Max(-1, math.Min(1, n.Y))
	return v2.Vec{
		X: math.Atan2(n.Z, n.X)/(2*math.Pi) + 0.5,
		Y: math.Acos(y) / math.Pi,
	}
}

// unwrapSeam shifts the low U values of a triangle that straddles the
// U=0/U=1 seam up by one, so the texture does not run backwards across
// the whole map. U may end up slightly above 1.
func unwrapSeam(uv *[3]v2.Vec) {
	lo := math.Min(uv[0].X, math.Min(uv[1].X, uv[2].X))
	hi := math.Max(uv[0].X, math.Max(uv[1].X, uv[2].X))
	if hi-lo <= 0.5 {
		return
	}
	for i := range uv {
		if uv[i].X < 0.5 {
			uv[i].X += 1
		}
	}
}

// Icosphere returns a sphere built by subdividing a regular icosahedron.
// subdivisions 1 is the bare icosahedron (20 triangles); every further
// level splits each triangle into four. subdivisions < 1 yields an empty
// mesh.
func Icosphere(radius float64, subdivisions int) *mesh.Mesh {
	if subdivisions < 1 {
		return &mesh.Mesh{}
	}

	verts, faces := icosahedron()
	for i := 1; i < subdivisions; i++ {
		verts, faces = subdivide(verts, faces)
	}

	b := mesh.NewBuilder()
	for _, f := range faces {
		var uv [3]v2.Vec
		for k, vi := range f {
			uv[k] = sphereUV(verts[vi])
		}
		unwrapSeam(&uv)

		var c [3]mesh.IndexTriplet
		for k, vi := range f {
			n := verts[vi]
			c[k] = b.Corner(n.MulScalar(radius), uv[k], n)
		}
		b.Triangle(c[0], c[1], c[2])
	}

	return b.Mesh()
}
