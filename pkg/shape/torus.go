package shape

import (
	"math"

	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Torus returns a ring torus centered at the origin lying in the XZ plane.
// radius is the distance from the center to the middle of the tube; stacks
// subdivide the major circle and slices subdivide the tube.
func Torus(radius, tubeRadius float64, slices, stacks int) *mesh.Mesh {
	if slices < 1 || stacks < 1 {
		return &mesh.Mesh{}
	}

	b := mesh.NewBuilder()

	corner := func(stack, slice int) mesh.IndexTriplet {
		theta, phi := turn(stack, stacks), turn(slice, slices)
		ring := radius + tubeRadius*math.Cos(phi)
		p := v3.Vec{
			X: ring * math.Cos(theta),
			Y: tubeRadius * math.Sin(phi),
			Z: ring * math.Sin(theta),
		}
		// Direction from the major circle through the surface point.
		n := v3.Vec{
			X: math.Cos(phi) * math.Cos(theta),
			Y: math.Sin(phi),
			Z: math.Cos(phi) * math.Sin(theta),
		}
		if tubeRadius < 0 {
			n = n.MulScalar(-1)
		}
		uv := v2.Vec{X: frac(stack, stacks), Y: frac(slice, slices)}
		return b.Corner(p, uv, n)
	}

	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			tl := corner(stack, slice)
			tr := corner(stack+1, slice)
			bl := corner(stack, slice+1)
			br := corner(stack+1, slice+1)

			b.Triangle(tl, bl, br)
			b.Triangle(tl, br, tr)
		}
	}

	return b.Mesh()
}
