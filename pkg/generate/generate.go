// Package generate turns plan jobs into meshes and runs whole plans,
// exporting one file per job.
package generate

import (
	"fmt"

	"github.com/chazu/meshgen/pkg/mesh"
	"github.com/chazu/meshgen/pkg/plan"
	"github.com/chazu/meshgen/pkg/shape"
)

// generator builds the mesh for one kind of parameters.
type generator func(p plan.Params) (*mesh.Mesh, error)

// generators maps every kind to its mesh builder.
var generators = map[plan.Kind]generator{
	plan.KindSphere: func(p plan.Params) (*mesh.Mesh, error) {
		sp := p.(plan.SphereParams)
		return shape.Sphere(sp.Radius, sp.Slices, sp.Stacks), nil
	},
	plan.KindBox: func(p plan.Params) (*mesh.Mesh, error) {
		bp := p.(plan.BoxParams)
		return shape.Box(bp.Length, bp.Divisions), nil
	},
	plan.KindCone: func(p plan.Params) (*mesh.Mesh, error) {
		cp := p.(plan.ConeParams)
		return shape.Cone(cp.Radius, cp.Height, cp.Slices, cp.Stacks), nil
	},
	plan.KindPlane: func(p plan.Params) (*mesh.Mesh, error) {
		pp := p.(plan.PlaneParams)
		return shape.Plane(pp.Length, pp.Divisions), nil
	},
	plan.KindCylinder: func(p plan.Params) (*mesh.Mesh, error) {
		cp := p.(plan.CylinderParams)
		return shape.Cylinder(cp.Radius, cp.Height, cp.Slices, cp.Stacks), nil
	},
	plan.KindTorus: func(p plan.Params) (*mesh.Mesh, error) {
		tp := p.(plan.TorusParams)
		return shape.Torus(tp.Radius, tp.TubeRadius, tp.Slices, tp.Stacks), nil
	},
	plan.KindIcosphere: func(p plan.Params) (*mesh.Mesh, error) {
		ip := p.(plan.IcosphereParams)
		return shape.Icosphere(ip.Radius, ip.Subdivisions), nil
	},
	plan.KindPatch: func(p plan.Params) (*mesh.Mesh, error) {
		pp := p.(plan.PatchParams)
		return shape.BezierSurfaceFile(pp.File, pp.Tessellation)
	},
}

// Generate builds the mesh described by j. Generate never returns a nil
// mesh for a well-formed job: when a patch file cannot be read the mesh is
// empty and the load error is returned alongside it.
func Generate(j *plan.Job) (*mesh.Mesh, error) {
	if j == nil {
		return nil, fmt.Errorf("generate: nil job")
	}
	gen, ok := generators[j.Kind]
	if !ok {
		return nil, fmt.Errorf("generate: job %s: unknown kind %d", j.Name, int(j.Kind))
	}
	params := plan.Deref(j.Params)
	if params == nil {
		return nil, fmt.Errorf("generate: job %s: missing parameters", j.Name)
	}
	if params.Kind() != j.Kind {
		return nil, fmt.Errorf("generate: job %s: %s job carries %s parameters", j.Name, j.Kind, params.Kind())
	}

	m, err := gen(params)
	if err != nil {
		return m, fmt.Errorf("generate: job %s: %w", j.Name, err)
	}
	return m, nil
}
