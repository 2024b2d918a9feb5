package shape

import (
	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane returns a square of side length centered at the origin in the XZ
// plane, facing +Y, split into divisions x divisions cells.
func Plane(length float64, divisions int) *mesh.Mesh {
	if divisions < 1 {
		return &mesh.Mesh{}
	}

	b := mesh.NewBuilder()
	half := length / 2
	up := v3.Vec{X: 0, Y: 1, Z: 0}
	coord := func(i int) float64 { return length*frac(i, divisions) - half }

	for x := 0; x < divisions; x++ {
		for z := 0; z < divisions; z++ {
			x0, x1 := coord(x), coord(x+1)
			z0, z1 := coord(z), coord(z+1)
			u0, u1 := frac(x, divisions), frac(x+1, divisions)
			v0, v1 := frac(z, divisions), frac(z+1, divisions)

			c0 := b.Corner(v3.Vec{X: x0, Z: z0}, v2.Vec{X: u0, Y: v0}, up)
			c1 := b.Corner(v3.Vec{X: x1, Z: z0}, v2.Vec{X: u1, Y: v0}, up)
			c2 := b.Corner(v3.Vec{X: x0, Z: z1}, v2.Vec{X: u0, Y: v1}, up)
			c3 := b.Corner(v3.Vec{X: x1, Z: z1}, v2.Vec{X: u1, Y: v1}, up)

			b.Triangle(c1, c0, c2)
			b.Triangle(c1, c2, c3)
		}
	}

	return b.Mesh()
}
