package shape

import (
	"math"

	"github.com/chazu/meshgen/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Sphere returns a UV sphere centered at the origin. Stacks sweep the
// elevation from the south pole (-pi/2) to the north pole (pi/2); slices
// sweep the azimuth once around the Y axis. Normals are the normalized
// positions, so a negative radius still gets normals facing away from the
// center.
func Sphere(radius float64, slices, stacks int) *mesh.Mesh {
	if slices < 1 || stacks < 1 {
		return &mesh.Mesh{}
	}

	b := mesh.NewBuilder()

	elevation := func(stack int) float64 {
		return math.Pi*frac(stack, stacks) - math.Pi/2
	}
	corner := func(slice, stack int) mesh.IndexTriplet {
		az, el := turn(slice, slices), elevation(stack)
		uv := v2.Vec{X: frac(slice, slices), Y: frac(stack, stacks)}
		pos := SphericalToCartesian(radius, az, el)
		n := normalize(pos)
		if radius == 0 {
			n = SphericalToCartesian(1, az, el)
		}
		return b.Corner(pos, uv, n)
	}

	for slice := 0; slice < slices; slice++ {
		for stack := 0; stack < stacks; stack++ {
			bl := corner(slice, stack)
			br := corner(slice+1, stack)
			tl := corner(slice, stack+1)
			tr := corner(slice+1, stack+1)
			b.Quad(bl, br, tl, tr)
		}
	}

	return b.Mesh()
}
