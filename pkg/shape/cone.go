package shape

import (
	"math"

	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Cone returns a cone standing on the XZ plane with its base centered at
// the origin and its apex at (0, height, 0). The lateral surface is a
// stack of frustum rings whose radius shrinks linearly to zero at the apex.
func Cone(radius, height float64, slices, stacks int) *mesh.Mesh {
	if slices < 1 || stacks < 1 {
		return &mesh.Mesh{}
	}

	b := mesh.NewBuilder()

	// Lateral normals lean upward by the half-angle of the cone.
	halfAngle := math.Atan2(radius, height)

	point := func(stack, slice int) v3.Vec {
		t := frac(stack, stacks)
		r := radius * (1 - t)
		y := height * t
		if r == 0 {
			return v3.Vec{X: 0, Y: y, Z: 0}
		}
		return PolarToCartesian(r, turn(slice, slices), y)
	}
	corner := func(stack, slice int) mesh.IndexTriplet {
		n := SphericalToCartesian(1, turn(slice, slices), halfAngle)
		uv := v2.Vec{X: frac(slice, slices), Y: frac(stack, stacks)}
		return b.Corner(point(stack, slice), uv, n)
	}

	for stack := 0; stack < stacks; stack++ {
		apex := radius*(1-frac(stack+1, stacks)) == 0

		for slice := 0; slice < slices; slice++ {
			bl := corner(stack, slice)
			br := corner(stack, slice+1)
			tl := corner(stack+1, slice)
			tr := corner(stack+1, slice+1)

			b.Triangle(bl, br, tl)
			if !apex {
				b.Triangle(tl, br, tr)
			}
		}
	}

	down := v3.Vec{X: 0, Y: -1, Z: 0}
	center := b.Corner(v3.Vec{}, v2.Vec{X: 0.5, Y: 0.5}, down)

	for slice := 0; slice < slices; slice++ {
		left := b.Corner(point(0, slice), v2.Vec{X: frac(slice, slices), Y: 0}, down)
		right := b.Corner(point(0, slice+1), v2.Vec{X: frac(slice+1, slices), Y: 0}, down)
		b.Triangle(center, right, left)
	}

	return b.Mesh()
}
