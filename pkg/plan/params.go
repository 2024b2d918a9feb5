package plan

import (
	"strconv"
	"strings"
)

// Params is implemented by the parameter struct of each Kind.
type Params interface {
	Kind() Kind
	fields() []field // marker method restricting implementations to this package
}

// field is one named parameter value. Counts are subdivision numbers that
// must be at least 1; measures are lengths that should be positive.
type field struct {
	name  string
	value float64
	count bool
}

func measure(name string, v float64) field { return field{name: name, value: v} }
func count(name string, v int) field       { return field{name: name, value: float64(v), count: true} }

// SphereParams configures a UV sphere.
type SphereParams struct {
	Radius float64 `yaml:"radius"`
	Slices int     `yaml:"slices"`
	Stacks int     `yaml:"stacks"`
}

func (SphereParams) Kind() Kind { return KindSphere }
func (p SphereParams) fields() []field {
	return []field{measure("radius", p.Radius), count("slices", p.Slices), count("stacks", p.Stacks)}
}

// BoxParams configures a subdivided cube.
type BoxParams struct {
	Length    float64 `yaml:"length"`
	Divisions int     `yaml:"divisions"`
}

func (BoxParams) Kind() Kind { return KindBox }
func (p BoxParams) fields() []field {
	return []field{measure("length", p.Length), count("divisions", p.Divisions)}
}

// ConeParams configures a cone standing on the XZ plane.
type ConeParams struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
	Slices int     `yaml:"slices"`
	Stacks int     `yaml:"stacks"`
}

func (ConeParams) Kind() Kind { return KindCone }
func (p ConeParams) fields() []field {
	return []field{measure("radius", p.Radius), measure("height", p.Height), count("slices", p.Slices), count("stacks", p.Stacks)}
}

// PlaneParams configures a subdivided square.
type PlaneParams struct {
	Length    float64 `yaml:"length"`
	Divisions int     `yaml:"divisions"`
}

func (PlaneParams) Kind() Kind { return KindPlane }
func (p PlaneParams) fields() []field {
	return []field{measure("length", p.Length), count("divisions", p.Divisions)}
}

// CylinderParams configures a closed cylinder.
type CylinderParams struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
	Slices int     `yaml:"slices"`
	Stacks int     `yaml:"stacks"`
}

func (CylinderParams) Kind() Kind { return KindCylinder }
func (p CylinderParams) fields() []field {
	return []field{measure("radius", p.Radius), measure("height", p.Height), count("slices", p.Slices), count("stacks", p.Stacks)}
}

// TorusParams configures a ring torus. A negative tube radius turns the
// surface inside out.
type TorusParams struct {
	Radius     float64 `yaml:"radius"`
	TubeRadius float64 `yaml:"tube_radius"`
	Slices     int     `yaml:"slices"`
	Stacks     int     `yaml:"stacks"`
}

func (TorusParams) Kind() Kind { return KindTorus }
func (p TorusParams) fields() []field {
	return []field{measure("radius", p.Radius), measure("tube radius", p.TubeRadius), count("slices", p.Slices), count("stacks", p.Stacks)}
}

// IcosphereParams configures a subdivided icosahedron.
type IcosphereParams struct {
	Radius       float64 `yaml:"radius"`
	Subdivisions int     `yaml:"subdivisions"`
}

func (IcosphereParams) Kind() Kind { return KindIcosphere }
func (p IcosphereParams) fields() []field {
	return []field{measure("radius", p.Radius), count("subdivisions", p.Subdivisions)}
}

// PatchParams configures a Bezier surface read from a patch file.
type PatchParams struct {
	File         string `yaml:"file"`
	Tessellation int    `yaml:"tessellation"`
}

func (PatchParams) Kind() Kind { return KindPatch }
func (p PatchParams) fields() []field {
	return []field{count("tessellation", p.Tessellation)}
}

// paramsFor returns a pointer to the zero parameter struct of k, ready to
// be decoded into.
func paramsFor(k Kind) Params {
	switch k {
	case KindSphere:
		return &SphereParams{}
	case KindBox:
		return &BoxParams{}
	case KindCone:
		return &ConeParams{}
	case KindPlane:
		return &PlaneParams{}
	case KindCylinder:
		return &CylinderParams{}
	case KindTorus:
		return &TorusParams{}
	case KindIcosphere:
		return &IcosphereParams{}
	case KindPatch:
		return &PatchParams{}
	}
	return nil
}

// Deref returns p as a value. Parameters may be built as pointers, as the
// decoders do; a nil pointer yields nil.
func Deref(p Params) Params {
	switch v := p.(type) {
	case *SphereParams:
		return derefPtr(v)
	case *BoxParams:
		return derefPtr(v)
	case *ConeParams:
		return derefPtr(v)
	case *PlaneParams:
		return derefPtr(v)
	case *CylinderParams:
		return derefPtr(v)
	case *TorusParams:
		return derefPtr(v)
	case *IcosphereParams:
		return derefPtr(v)
	case *PatchParams:
		return derefPtr(v)
	}
	return p
}

func derefPtr[T Params](v *T) Params {
	if v == nil {
		return nil
	}
	return *v
}

// Job is one mesh to generate.
type Job struct {
	Kind   Kind
	Name   string
	Output string
	Params Params
}

// Describe returns the progress line printed before the job runs.
func (j *Job) Describe() string {
	params := Deref(j.Params)
	if p, ok := params.(PatchParams); ok {
		return "Generating model from patch file " + p.File +
			", tessellation " + strconv.Itoa(p.Tessellation) +
			" | Output: " + j.Output
	}

	var b strings.Builder
	b.WriteString("Generating ")
	b.WriteString(j.Kind.String())
	if params != nil {
		for i, f := range params.fields() {
			if i == 0 {
				b.WriteString(" with ")
			} else {
				b.WriteString(", ")
			}
			b.WriteString(f.name)
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(f.value, 'g', -1, 64))
		}
	}
	b.WriteString(" | Output: ")
	b.WriteString(j.Output)
	return b.String()
}
