package shape

import (
	"github.com/chazu/meshgen/pkg/mesh"
	"github.com/chazu/meshgen/pkg/patch"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// bezierBasis is the cubic Bernstein basis matrix in row-major order. It is
// symmetric, so it doubles as its own transpose.
var bezierBasis = sdf.NewM44([16]float64{
	-1, 3, -3, 1,
	3, -6, 3, 0,
	-3, 3, 0, 0,
	1, 0, 0, 0,
})

// bezierCoefficients returns the row-major values of B*P*B for each axis,
// where P holds that axis of the 16 control points in row-major order.
func bezierCoefficients(cp [patch.PointsPerPatch]v3.Vec) [3][16]float64 {
	var px, py, pz [16]float64
	for i, p := range cp {
		px[i], py[i], pz[i] = p.X, p.Y, p.Z
	}
	coef := func(axis [16]float64) [16]float64 {
		return bezierBasis.Mul(sdf.NewM44(axis)).Mul(bezierBasis).Values()
	}
	return [3][16]float64{coef(px), coef(py), coef(pz)}
}

// evalCubic computes [u^3 u^2 u 1] * m * [v^3 v^2 v 1]^T for row-major m.
func evalCubic(m [16]float64, u, v float64) float64 {
	uu := [4]float64{u * u * u, u * u, u, 1}
	vv := [4]float64{v * v * v, v * v, v, 1}
	var s float64
	for i := 0; i < 4; i++ {
		var row float64
		for j := 0; j < 4; j++ {
			row += m[i*4+j] * vv[j]
		}
		s += uu[i] * row
	}
	return s
}

// PatchGrid is the (Level+1) x (Level+1) sample grid of one Bezier patch.
// Sample (j, k) lies at u = j/Level, v = k/Level.
type PatchGrid struct {
	Level     int
	Positions []v3.Vec
	Normals   []v3.Vec
	Texcoords []v2.Vec
}

// At returns the flat index of sample (j, k).
func (g *PatchGrid) At(j, k int) int {
	return j*(g.Level+1) + k
}

// BezierPatch samples a bicubic Bezier patch on a regular grid. Normals
// are estimated from finite differences of neighbouring samples: central
// inside the grid, one sided at its border. A level < 1 yields an empty
// grid.
func BezierPatch(cp [patch.PointsPerPatch]v3.Vec, level int) *PatchGrid {
	g := &PatchGrid{Level: level}
	if level < 1 {
		g.Level = 0
		return g
	}

	coef := bezierCoefficients(cp)
	side := level + 1
	g.Positions = make([]v3.Vec, side*side)
	g.Normals = make([]v3.Vec, side*side)
	g.Texcoords = make([]v2.Vec, side*side)

	for j := 0; j < side; j++ {
		u := frac(j, level)
		for k := 0; k < side; k++ {
			v := frac(k, level)
			i := g.At(j, k)
			g.Positions[i] = v3.Vec{
				X: evalCubic(coef[0], u, v),
				Y: evalCubic(coef[1], u, v),
				Z: evalCubic(coef[2], u, v),
			}
			g.Texcoords[i] = v2.Vec{X: u, Y: v}
		}
	}

	// neighbours clamps a central difference to the grid.
	neighbours := func(i int) (int, int) {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > level {
			hi = level
		}
		return lo, hi
	}

	for j := 0; j < side; j++ {
		j0, j1 := neighbours(j)
		for k := 0; k < side; k++ {
			k0, k1 := neighbours(k)
			tu := g.Positions[g.At(j1, k)].Sub(g.Positions[g.At(j0, k)])
			tv := g.Positions[g.At(j, k1)].Sub(g.Positions[g.At(j, k0)])
			g.Normals[g.At(j, k)] = normalize(tv.Cross(tu))
		}
	}

	g.repairNormals()
	return g
}

// repairNormals fills zero normals, left by collapsed patch edges, from the
// nearest sample along u, then along v, falling back to +Y.
func (g *PatchGrid) repairNormals() {
	side := g.Level + 1
	zero := v3.Vec{}
	for j := 0; j < side; j++ {
		for k := 0; k < side; k++ {
			i := g.At(j, k)
			if g.Normals[i] != zero {
				continue
			}
			g.Normals[i] = g.borrowNormal(j, k)
		}
	}
}

func (g *PatchGrid) borrowNormal(j, k int) v3.Vec {
	side := g.Level + 1
	zero := v3.Vec{}
	for d := 1; d < side; d++ {
		for _, jj := range [2]int{j + d, j - d} {
			if jj >= 0 && jj < side && g.Normals[g.At(jj, k)] != zero {
				return g.Normals[g.At(jj, k)]
			}
		}
		for _, kk := range [2]int{k + d, k - d} {
			if kk >= 0 && kk < side && g.Normals[g.At(j, kk)] != zero {
				return g.Normals[g.At(j, kk)]
			}
		}
	}
	return v3.Vec{X: 0, Y: 1, Z: 0}
}

// emit registers the grid samples in b and appends 2*Level^2 triangles
// wound to agree with the sample normals.
func (g *PatchGrid) emit(b *mesh.Builder) {
	side := g.Level + 1
	corners := make([]mesh.IndexTriplet, side*side)
	for i := range corners {
		corners[i] = b.Corner(g.Positions[i], g.Texcoords[i], g.Normals[i])
	}
	for j := 0; j < g.Level; j++ {
		for k := 0; k < g.Level; k++ {
			c00 := corners[g.At(j, k)]
			c01 := corners[g.At(j, k+1)]
			c10 := corners[g.At(j+1, k)]
			c11 := corners[g.At(j+1, k+1)]
			b.Triangle(c00, c01, c11)
			b.Triangle(c00, c11, c10)
		}
	}
}

// BezierSurface tessellates every patch of s at the given level into one
// mesh. Adjacent patches share vertices only where their samples are bit
// identical.
func BezierSurface(s *patch.Set, level int) *mesh.Mesh {
	if s == nil || level < 1 {
		return &mesh.Mesh{}
	}
	b := mesh.NewBuilder()
	for i := 0; i < s.Len(); i++ {
		BezierPatch(s.Patch(i), level).emit(b)
	}
	return b.Mesh()
}

// BezierSurfaceFile loads the patch file at path and tessellates it. When
// the file cannot be read the mesh is empty and the error says why.
func BezierSurfaceFile(path string, level int) (*mesh.Mesh, error) {
	s, err := patch.Load(path)
	if err != nil {
		return &mesh.Mesh{}, err
	}
	return BezierSurface(s, level), nil
}
