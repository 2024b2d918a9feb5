package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/meshgen/pkg/plan"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys.
// It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: tube-radius -> tube_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpJobRef is returned by every shape builtin so scripts can hold on to
// the job they just queued.
type sexpJobRef struct {
	name   string
	output string
}

func (r *sexpJobRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(job %q)", r.name)
}
func (r *sexpJobRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword without a value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// check rejects positional arguments and keywords outside allowed.
func (a kwArgs) check(allowed ...string) error {
	if len(a.positional) > 0 {
		return fmt.Errorf("unexpected positional argument %s", a.positional[0].SexpString(nil))
	}
	var unknown []string
	for k := range a.kw {
		found := false
		for _, ok := range allowed {
			if k == ok {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, ":"+k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keyword %s", strings.Join(unknown, ", "))
	}
	return nil
}

// number returns keyword k as a number, or def when absent.
func (a kwArgs) number(k string, def float64) (float64, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

// count returns keyword k as an integer, or def when absent.
func (a kwArgs) count(k string, def int) (int, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

// text returns keyword k as a string, or def when absent.
func (a kwArgs) text(k string, def string) (string, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", k, err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp. Floats are accepted only when they
// hold an integral value.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && math.Abs(v.Val) <= math.MaxInt32 {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp. Keywords are not strings.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// Defaults applied when a script omits a keyword.
const (
	defaultRadius       = 1.0
	defaultLength       = 1.0
	defaultHeight       = 1.0
	defaultTubeRadius   = 0.25
	defaultSlices       = 16
	defaultStacks       = 8
	defaultDivisions    = 1
	defaultSubdivisions = 3
	defaultTessellation = 8
)

// shapeBuilder turns the keyword arguments of one builtin into parameters.
type shapeBuilder struct {
	kind     plan.Kind
	keywords []string
	build    func(a kwArgs) (plan.Params, error)
}

// shapeBuiltins lists one builtin per shape kind. The builtin name is the
// kind name; :out is mandatory and :name optional for all of them.
var shapeBuiltins = []shapeBuilder{
	{
		kind:     plan.KindSphere,
		keywords: []string{"radius", "slices", "stacks"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.SphereParams
			var err error
			if p.Radius, err = a.number("radius", defaultRadius); err != nil {
				return nil, err
			}
			if p.Slices, err = a.count("slices", defaultSlices); err != nil {
				return nil, err
			}
			if p.Stacks, err = a.count("stacks", defaultStacks); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindBox,
		keywords: []string{"length", "divisions"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.BoxParams
			var err error
			if p.Length, err = a.number("length", defaultLength); err != nil {
				return nil, err
			}
			if p.Divisions, err = a.count("divisions", defaultDivisions); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindCone,
		keywords: []string{"radius", "height", "slices", "stacks"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.ConeParams
			var err error
			if p.Radius, err = a.number("radius", defaultRadius); err != nil {
				return nil, err
			}
			if p.Height, err = a.number("height", defaultHeight); err != nil {
				return nil, err
			}
			if p.Slices, err = a.count("slices", defaultSlices); err != nil {
				return nil, err
			}
			if p.Stacks, err = a.count("stacks", defaultStacks); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindPlane,
		keywords: []string{"length", "divisions"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.PlaneParams
			var err error
			if p.Length, err = a.number("length", defaultLength); err != nil {
				return nil, err
			}
			if p.Divisions, err = a.count("divisions", defaultDivisions); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindCylinder,
		keywords: []string{"radius", "height", "slices", "stacks"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.CylinderParams
			var err error
			if p.Radius, err = a.number("radius", defaultRadius); err != nil {
				return nil, err
			}
			if p.Height, err = a.number("height", defaultHeight); err != nil {
				return nil, err
			}
			if p.Slices, err = a.count("slices", defaultSlices); err != nil {
				return nil, err
			}
			if p.Stacks, err = a.count("stacks", defaultStacks); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindTorus,
		keywords: []string{"radius", "tube-radius", "slices", "stacks"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.TorusParams
			var err error
			if p.Radius, err = a.number("radius", defaultRadius); err != nil {
				return nil, err
			}
			if p.TubeRadius, err = a.number("tube-radius", defaultTubeRadius); err != nil {
				return nil, err
			}
			if p.Slices, err = a.count("slices", defaultSlices); err != nil {
				return nil, err
			}
			if p.Stacks, err = a.count("stacks", defaultStacks); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindIcosphere,
		keywords: []string{"radius", "subdivisions"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.IcosphereParams
			var err error
			if p.Radius, err = a.number("radius", defaultRadius); err != nil {
				return nil, err
			}
			if p.Subdivisions, err = a.count("subdivisions", defaultSubdivisions); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		kind:     plan.KindPatch,
		keywords: []string{"file", "tessellation"},
		build: func(a kwArgs) (plan.Params, error) {
			var p plan.PatchParams
			var err error
			if p.File, err = a.text("file", ""); err != nil {
				return nil, err
			}
			if p.File == "" {
				return nil, fmt.Errorf("missing :file")
			}
			if p.Tessellation, err = a.count("tessellation", defaultTessellation); err != nil {
				return nil, err
			}
			return p, nil
		},
	},
}

// registerBuiltins installs the shape builtins into a zygomys environment.
// Each call appends a job to p in evaluation order.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *plan.Plan) {
	for _, sb := range shapeBuiltins {
		sb := sb
		kind := sb.kind.String()
		allowed := append([]string{"out", "name"}, sb.keywords...)

		// (sphere :radius 1 :slices 16 :stacks 8 :out "ball.3d" :name "ball")
		env.AddFunction(kind, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if err := pa.check(allowed...); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}

			out, err := pa.text("out", "")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			if out == "" {
				return zygo.SexpNull, fmt.Errorf("%s: missing :out", kind)
			}
			jobName, err := pa.text("name", "")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}

			params, err := sb.build(pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}

			j := &plan.Job{Kind: sb.kind, Name: jobName, Output: out, Params: params}
			p.Add(j)

			return &sexpJobRef{name: j.Name, output: j.Output}, nil
		})
	}

	// (output-of (job "ball")) returns the output path of a queued job.
	env.AddFunction("output_of", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("output-of requires a job reference")
		}
		ref, ok := args[0].(*sexpJobRef)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("output-of: expected job reference, got %T (%s)", args[0], args[0].SexpString(nil))
		}
		return &zygo.SexpStr{S: ref.output}, nil
	})

	// (job "ball")
	env.AddFunction("job", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("job requires a name argument")
		}
		jobName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("job: name: %w", err)
		}
		j := p.Lookup(jobName)
		if j == nil {
			return zygo.SexpNull, fmt.Errorf("job: no job named %q", jobName)
		}
		return &sexpJobRef{name: j.Name, output: j.Output}, nil
	})
}
