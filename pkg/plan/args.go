package plan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrArgCount reports a command invoked with the wrong number of
// positional arguments.
var ErrArgCount = errors.New("incorrect number of arguments")

// argReader converts positional strings, remembering the first failure.
type argReader struct {
	args []string
	err  error
}

func (r *argReader) fail(i int, what string) {
	if r.err == nil {
		r.err = fmt.Errorf("argument %d: %s %q", i+1, what, r.args[i])
	}
}

func (r *argReader) float(i int) float64 {
	v, err := strconv.ParseFloat(r.args[i], 64)
	if err != nil {
		r.fail(i, "invalid number")
	}
	return v
}

// int accepts integers and, like a C stoi on the integral prefix, numbers
// with a fractional part, which are truncated.
func (r *argReader) int(i int) int {
	if v, err := strconv.Atoi(r.args[i]); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(r.args[i], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(i, "invalid integer")
		return 0
	}
	return int(math.Trunc(f))
}

// ParseArgs builds a job of kind k from the positional command arguments
// that follow the shape name. The last argument is the output file.
func ParseArgs(k Kind, args []string) (*Job, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	if len(args) != k.Arity() {
		return nil, fmt.Errorf("%w for '%s' (expected %d after command)", ErrArgCount, k, k.Arity())
	}

	r := &argReader{args: args}
	var p Params
	switch k {
	case KindSphere:
		p = SphereParams{Radius: r.float(0), Slices: r.int(1), Stacks: r.int(2)}
	case KindBox:
		p = BoxParams{Length: r.float(0), Divisions: r.int(1)}
	case KindCone:
		p = ConeParams{Radius: r.float(0), Height: r.float(1), Slices: r.int(2), Stacks: r.int(3)}
	case KindPlane:
		p = PlaneParams{Length: r.float(0), Divisions: r.int(1)}
	case KindCylinder:
		p = CylinderParams{Radius: r.float(0), Height: r.float(1), Slices: r.int(2), Stacks: r.int(3)}
	case KindTorus:
		p = TorusParams{Radius: r.float(0), TubeRadius: r.float(1), Slices: r.int(2), Stacks: r.int(3)}
	case KindIcosphere:
		p = IcosphereParams{Radius: r.float(0), Subdivisions: r.int(1)}
	case KindPatch:
		p = PatchParams{File: args[0], Tessellation: r.int(1)}
	}
	if r.err != nil {
		return nil, fmt.Errorf("%s: %w", k, r.err)
	}

	return &Job{Kind: k, Output: args[len(args)-1], Params: p}, nil
}
