// Package shape synthesizes parametric meshes: planes, boxes, cones,
// spheres, cylinders, tori, icospheres and bicubic Bezier surfaces.
//
// Every generator builds its mesh through a fresh mesh.Builder, so
// attributes are deduplicated by exact bit pattern and triangles are wound
// counter-clockwise as seen from outside the solid. Generators are pure and
// synchronous; invalid subdivision counts yield an empty mesh.
package shape

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PolarToCartesian maps a point on a circle of the given radius at height
// y to Cartesian space. Angle zero lies on +Z and increases towards +X.
func PolarToCartesian(radius, angle, y float64) v3.Vec {
	return v3.Vec{
		X: radius * math.Sin(angle),
		Y: y,
		Z: radius * math.Cos(angle),
	}
}

// SphericalToCartesian maps azimuth and elevation (radians, elevation
// measured from the equator) on a sphere of the given radius to Cartesian
// space.
func SphericalToCartesian(radius, azimuth, elevation float64) v3.Vec {
	return v3.Vec{
		X: radius * math.Cos(elevation) * math.Sin(azimuth),
		Y: radius * math.Sin(elevation),
		Z: radius * math.Cos(elevation) * math.Cos(azimuth),
	}
}

// frac returns i/n. frac(n, n) is exactly 1.
func frac(i, n int) float64 {
	return float64(i) / float64(n)
}

// turn returns the angle of grid line i out of n around a full circle.
// Line n wraps to line 0 so the closing seam reuses the first line's
// positions bit for bit.
func turn(i, n int) float64 {
	return 2 * math.Pi * frac(i%n, n)
}

// normalize returns v scaled to unit length, or v unchanged when it has
// zero length.
func normalize(v v3.Vec) v3.Vec {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.DivScalar(l)
}
