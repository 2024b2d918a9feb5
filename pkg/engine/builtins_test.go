package engine

import (
	"strings"
	"testing"

	"github.com/chazu/meshgen/pkg/plan"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :out "ball.3d")`,
			expect: `(sphere "__kw_out" "ball.3d")`,
		},
		{
			name:   "multiple keywords",
			input:  `(box :length 2 :divisions 3)`,
			expect: `(box "__kw_length" 2 "__kw_divisions" 3)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(output-of ref)`,
			expect: `(output_of ref)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(torus :tube-radius -0.5)`,
			expect: `(torus "__kw_tube-radius" -0.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "backtick string preserved",
			input:  "`a :b c-d`",
			expect: "`a :b c-d`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalPlan evaluates source and fails the test on any error.
func evalPlan(t *testing.T, source string) *plan.Plan {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if p == nil {
		t.Fatal("expected non-nil plan")
	}
	return p
}

// ---------------------------------------------------------------------------
// Shape builtins
// ---------------------------------------------------------------------------

func TestShapeBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   plan.Kind
		want   plan.Params
	}{
		{
			name:   "sphere",
			source: `(sphere :radius 1.5 :slices 12 :stacks 6 :out "s.3d")`,
			kind:   plan.KindSphere,
			want:   plan.SphereParams{Radius: 1.5, Slices: 12, Stacks: 6},
		},
		{
			name:   "box",
			source: `(box :length 2 :divisions 3 :out "s.3d")`,
			kind:   plan.KindBox,
			want:   plan.BoxParams{Length: 2, Divisions: 3},
		},
		{
			name:   "cone",
			source: `(cone :radius 1 :height 2 :slices 8 :stacks 2 :out "s.3d")`,
			kind:   plan.KindCone,
			want:   plan.ConeParams{Radius: 1, Height: 2, Slices: 8, Stacks: 2},
		},
		{
			name:   "plane",
			source: `(plane :length 4 :divisions 2 :out "s.3d")`,
			kind:   plan.KindPlane,
			want:   plan.PlaneParams{Length: 4, Divisions: 2},
		},
		{
			name:   "cylinder",
			source: `(cylinder :radius 0.5 :height 3 :slices 10 :stacks 4 :out "s.3d")`,
			kind:   plan.KindCylinder,
			want:   plan.CylinderParams{Radius: 0.5, Height: 3, Slices: 10, Stacks: 4},
		},
		{
			name:   "torus",
			source: `(torus :radius 2 :tube-radius 0.5 :slices 12 :stacks 24 :out "s.3d")`,
			kind:   plan.KindTorus,
			want:   plan.TorusParams{Radius: 2, TubeRadius: 0.5, Slices: 12, Stacks: 24},
		},
		{
			name:   "icosphere",
			source: `(icosphere :radius 1 :subdivisions 2.0 :out "s.3d")`,
			kind:   plan.KindIcosphere,
			want:   plan.IcosphereParams{Radius: 1, Subdivisions: 2},
		},
		{
			name:   "patch",
			source: `(patch :file "teapot.patch" :tessellation 4 :out "s.3d")`,
			kind:   plan.KindPatch,
			want:   plan.PatchParams{File: "teapot.patch", Tessellation: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := evalPlan(t, tt.source)
			if p.Len() != 1 {
				t.Fatalf("expected 1 job, got %d", p.Len())
			}
			j := p.Jobs[0]
			if j.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", j.Kind, tt.kind)
			}
			if j.Params != tt.want {
				t.Errorf("params = %+v, want %+v", j.Params, tt.want)
			}
			if j.Output != "s.3d" {
				t.Errorf("output = %q, want s.3d", j.Output)
			}
		})
	}
}

func TestShapeDefaults(t *testing.T) {
	p := evalPlan(t, `(sphere :out "a.3d") (torus :out "b.3d") (icosphere :out "c.3d") (patch :file "f" :out "d.3d")`)

	want := []plan.Params{
		plan.SphereParams{Radius: 1, Slices: 16, Stacks: 8},
		plan.TorusParams{Radius: 1, TubeRadius: 0.25, Slices: 16, Stacks: 8},
		plan.IcosphereParams{Radius: 1, Subdivisions: 3},
		plan.PatchParams{File: "f", Tessellation: 8},
	}
	for i, w := range want {
		if p.Jobs[i].Params != w {
			t.Errorf("job %d params = %+v, want %+v", i, p.Jobs[i].Params, w)
		}
	}
}

// ---------------------------------------------------------------------------
// Variables and control flow
// ---------------------------------------------------------------------------

func TestVariableReference(t *testing.T) {
	source := `
(def r 2.5)
(sphere :name "ball" :radius r :slices 8 :stacks 4 :out "ball.3d")
`
	p := evalPlan(t, source)

	ball := p.Lookup("ball")
	if ball == nil {
		t.Fatal("expected job named 'ball'")
	}
	sp, ok := ball.Params.(plan.SphereParams)
	if !ok {
		t.Fatalf("expected SphereParams, got %T", ball.Params)
	}
	if sp.Radius != 2.5 {
		t.Errorf("expected radius=2.5 (from variable), got %f", sp.Radius)
	}
}

func TestLoopQueuesJobsInOrder(t *testing.T) {
	source := `
(for [(def i 1) (<= i 3) (set i (+ i 1))]
  (icosphere :subdivisions i :out "ico.3d"))
`
	p := evalPlan(t, source)
	if p.Len() != 3 {
		t.Fatalf("expected 3 jobs, got %d", p.Len())
	}
	for i, j := range p.Jobs {
		ip := j.Params.(plan.IcosphereParams)
		if ip.Subdivisions != i+1 {
			t.Errorf("job %d subdivisions = %d, want %d", i, ip.Subdivisions, i+1)
		}
	}
}

func TestJobLookup(t *testing.T) {
	source := `
(box :name "crate" :out "crate.obj")
(def o (output-of (job "crate")))
(plane :name "floor" :out o)
`
	p := evalPlan(t, source)
	if got := p.Lookup("floor").Output; got != "crate.obj" {
		t.Errorf("floor output = %q, want crate.obj", got)
	}
	// Sharing an output is legal to evaluate and caught by validation.
	if !plan.HasErrors(plan.Validate(p)) {
		t.Error("expected validation to reject the shared output")
	}
}

// ---------------------------------------------------------------------------
// Builtin errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"missing out", `(sphere :radius 1)`, "missing :out"},
		{"unknown keyword", `(box :width 2 :out "b.3d")`, "unknown keyword :width"},
		{"positional argument", `(box 2 :out "b.3d")`, "unexpected positional argument"},
		{"fractional count", `(sphere :slices 2.5 :out "s.3d")`, "slices: expected integer"},
		{"string radius", `(cone :radius "big" :out "c.3d")`, "radius: expected number"},
		{"missing patch file", `(patch :out "p.3d")`, "missing :file"},
		{"keyword as output", `(plane :out :here)`, "out: expected string"},
		{"unknown job", `(job "ghost")`, `no job named "ghost"`},
		{"output-of non job", `(output-of 3)`, "expected job reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if p != nil {
				t.Fatal("expected nil plan on builtin error")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected an eval error")
			}
			if !strings.Contains(evalErrs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", evalErrs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestKwArgsCheck(t *testing.T) {
	pa := parseArgs(nil)
	if err := pa.check("out"); err != nil {
		t.Errorf("empty args: %v", err)
	}
}
