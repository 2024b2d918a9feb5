package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// batchFile is the top level of a YAML batch file:
//
//	jobs:
//	  - kind: sphere
//	    name: ball
//	    out: ball.3d
//	    radius: 1
//	    slices: 16
//	    stacks: 8
//
// Each job mapping carries kind, name and out next to the parameters of
// its kind.
type batchFile struct {
	Jobs []yaml.Node `yaml:"jobs"`
}

type jobHeader struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	Out  string `yaml:"out"`
}

// LoadYAML reads a batch file. An empty document yields an empty plan.
func LoadYAML(r io.Reader) (*Plan, error) {
	var f batchFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("plan: %w", err)
	}

	p := New()
	for i := range f.Jobs {
		n := &f.Jobs[i]

		var h jobHeader
		if err := n.Decode(&h); err != nil {
			return nil, fmt.Errorf("plan: job %d (line %d): %w", i+1, n.Line, err)
		}
		if h.Kind == "" {
			return nil, fmt.Errorf("plan: job %d (line %d): missing kind", i+1, n.Line)
		}
		k, err := ParseKind(h.Kind)
		if err != nil {
			return nil, fmt.Errorf("plan: job %d (line %d): %w", i+1, n.Line, err)
		}

		params := paramsFor(k)
		if err := n.Decode(params); err != nil {
			return nil, fmt.Errorf("plan: job %d (line %d): %w", i+1, n.Line, err)
		}

		p.Add(&Job{Kind: k, Name: h.Name, Output: h.Out, Params: Deref(params)})
	}

	return p, nil
}

// LoadYAMLFile reads the batch file at path. Relative output and patch
// file paths are resolved against the batch file's directory.
func LoadYAMLFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	defer f.Close()

	p, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Resolve(filepath.Dir(path))
	return p, nil
}

// Resolve rebases relative output and patch file paths onto dir.
func (p *Plan) Resolve(dir string) {
	rebase := func(s string) string {
		if s == "" || filepath.IsAbs(s) {
			return s
		}
		return filepath.Join(dir, s)
	}
	for _, j := range p.Jobs {
		j.Output = rebase(j.Output)
		if pp, ok := Deref(j.Params).(PatchParams); ok {
			pp.File = rebase(pp.File)
			j.Params = pp
		}
	}
}

// WriteYAML writes p in the batch file layout LoadYAML reads.
func WriteYAML(w io.Writer, p *Plan) error {
	jobs := make([]map[string]any, 0, p.Len())
	for _, j := range p.Jobs {
		var m map[string]any
		raw, err := yaml.Marshal(j.Params)
		if err != nil {
			return fmt.Errorf("plan: job %s: %w", j.Name, err)
		}
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("plan: job %s: %w", j.Name, err)
		}
		if m == nil {
			m = make(map[string]any)
		}
		m["kind"] = j.Kind.String()
		m["name"] = j.Name
		m["out"] = j.Output
		jobs = append(jobs, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"jobs": jobs}); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	return enc.Close()
}
