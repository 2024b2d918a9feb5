package shape

import (
	"math"

	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Cylinder returns a closed cylinder centered at the origin with its axis
// along Y. The lateral surface has purely radial normals; both caps are
// triangle fans whose texture coordinates are a disk projection.
func Cylinder(radius, height float64, slices, stacks int) *mesh.Mesh {
	if slices < 1 || stacks < 1 {
		return &mesh.Mesh{}
	}

	b := mesh.NewBuilder()
	half := height / 2

	ring := func(slice int, y float64) v3.Vec {
		a := turn(slice, slices)
		return v3.Vec{X: radius * math.Cos(a), Y: y, Z: radius * math.Sin(a)}
	}
	radial := func(slice int) v3.Vec {
		a := turn(slice, slices)
		return v3.Vec{X: math.Cos(a), Y: 0, Z: math.Sin(a)}
	}

	// Sides
	for slice := 0; slice < slices; slice++ {
		n0, n1 := radial(slice), radial(slice+1)
		u0, u1 := frac(slice, slices), frac(slice+1, slices)

		for stack := 0; stack < stacks; stack++ {
			v0, v1 := frac(stack, stacks), frac(stack+1, stacks)
			y0, y1 := height*v0-half, height*v1-half

			bl := b.Corner(ring(slice, y0), v2.Vec{X: u0, Y: v0}, n0)
			br := b.Corner(ring(slice+1, y0), v2.Vec{X: u1, Y: v0}, n1)
			tl := b.Corner(ring(slice, y1), v2.Vec{X: u0, Y: v1}, n0)
			tr := b.Corner(ring(slice+1, y1), v2.Vec{X: u1, Y: v1}, n1)

			b.Triangle(bl, tl, br)
			b.Triangle(tl, tr, br)
		}
	}

	// Caps
	center := v2.Vec{X: 0.5, Y: 0.5}
	down := v3.Vec{X: 0, Y: -1, Z: 0}
	up := v3.Vec{X: 0, Y: 1, Z: 0}
	base := b.Corner(v3.Vec{X: 0, Y: -half, Z: 0}, center, down)
	top := b.Corner(v3.Vec{X: 0, Y: half, Z: 0}, center, up)

	disk := func(slice int) v2.Vec {
		a := turn(slice, slices)
		return v2.Vec{X: 0.5 + 0.5*math.Cos(a), Y: 0.5 + 0.5*math.Sin(a)}
	}

	for slice := 0; slice < slices; slice++ {
		t1, t2 := disk(slice), disk(slice+1)

		b1 := b.Corner(ring(slice, -half), t1, down)
		b2 := b.Corner(ring(slice+1, -half), t2, down)
		b.Triangle(base, b1, b2)

		c1 := b.Corner(ring(slice, half), t1, up)
		c2 := b.Corner(ring(slice+1, half), t2, up)
		b.Triangle(top, c2, c1)
	}

	return b.Mesh()
}
