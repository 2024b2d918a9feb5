// Package plan describes mesh generation jobs: which shape to build, with
// which parameters, and where to write it. A Plan is produced by the CLI,
// by a batch file or by a script, validated, then handed to the runner.
package plan

import (
	"fmt"
	"strings"
)

// Kind enumerates the shapes a job can generate.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindCone
	KindPlane
	KindCylinder
	KindTorus
	KindIcosphere
	KindPatch
)

// kindInfo is the static description of a Kind: its command name and its
// positional arguments, output file excluded.
type kindInfo struct {
	name string
	args []string
}

var kinds = [...]kindInfo{
	KindSphere:    {"sphere", []string{"radius", "slices", "stacks"}},
	KindBox:       {"box", []string{"length", "divisions"}},
	KindCone:      {"cone", []string{"radius", "height", "slices", "stacks"}},
	KindPlane:     {"plane", []string{"length", "divisions"}},
	KindCylinder:  {"cylinder", []string{"radius", "height", "slices", "stacks"}},
	KindTorus:     {"torus", []string{"radius", "tube_radius", "slices", "stacks"}},
	KindIcosphere: {"icosphere", []string{"radius", "subdivisions"}},
	KindPatch:     {"patch", []string{"patch_file", "tessellation"}},
}

func (k Kind) valid() bool {
	return k >= KindSphere && int(k) < len(kinds)
}

func (k Kind) String() string {
	if !k.valid() {
		return "unknown"
	}
	return kinds[k].name
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k := range kinds {
		if kinds[k].name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// Kinds returns every Kind in command order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	for i := range kinds {
		out[i] = Kind(i)
	}
	return out
}

// Arity is the number of positional arguments the command for k takes,
// including the output file.
func (k Kind) Arity() int {
	if !k.valid() {
		return 0
	}
	return len(kinds[k].args) + 1
}

// Usage returns the command line synopsis for k.
func (k Kind) Usage() string {
	if !k.valid() {
		return ""
	}
	var b strings.Builder
	b.WriteString("generator ")
	b.WriteString(k.String())
	for _, a := range kinds[k].args {
		fmt.Fprintf(&b, " <%s>", a)
	}
	b.WriteString(" <output_file>")
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
