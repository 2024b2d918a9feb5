package patch

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// bracketPattern captures the contents of the first [...] group on a line.
var bracketPattern = regexp.MustCompile(`\[(.*?)\]`)

// ribPrecision is the number of decimals control points are rounded to
// before deduplication.
const ribPrecision = 1e6

// ParseRIB converts the bicubic patches of a RenderMan RIB stream into a
// patch Set. Translate, Scale and Rotate statements compose onto the
// current transform; TransformBegin and TransformEnd save and restore it.
// Transformed control points are rounded to six decimals and shared
// between patches that reference the same rounded point.
func ParseRIB(r io.Reader) (*Set, error) {
	stack := []sdf.M44{sdf.Identity3d()}
	top := func() sdf.M44 { return stack[len(stack)-1] }

	s := &Set{}
	index := make(map[v3.Vec]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch {
		case fields[0] == "TransformBegin":
			stack = append(stack, top())

		case fields[0] == "TransformEnd":
			if len(stack) == 1 {
				return nil, fmt.Errorf("rib: line %d: TransformEnd without TransformBegin", lineNo)
			}
			stack = stack[:len(stack)-1]

		case fields[0] == "Translate":
			v, err := ribFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("rib: line %d: Translate: %w", lineNo, err)
			}
			stack[len(stack)-1] = top().Mul(sdf.Translate3d(v3.Vec{X: v[0], Y: v[1], Z: v[2]}))

		case fields[0] == "Scale":
			v, err := ribFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("rib: line %d: Scale: %w", lineNo, err)
			}
			stack[len(stack)-1] = top().Mul(sdf.Scale3d(v3.Vec{X: v[0], Y: v[1], Z: v[2]}))

		case fields[0] == "Rotate":
			v, err := ribFloats(fields[1:], 4)
			if err != nil {
				return nil, fmt.Errorf("rib: line %d: Rotate: %w", lineNo, err)
			}
			axis := v3.Vec{X: v[1], Y: v[2], Z: v[3]}
			if axis.Length() == 0 {
				return nil, fmt.Errorf("rib: line %d: Rotate: zero axis", lineNo)
			}
			angle := v[0] * math.Pi / 180
			stack[len(stack)-1] = top().Mul(sdf.Rotate3d(axis.DivScalar(axis.Length()), angle))

		case strings.Contains(line, `Patch "bicubic"`):
			m := bracketPattern.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("rib: line %d: malformed Patch line", lineNo)
			}
			nums, err := ribFloats(strings.Fields(m[1]), 3*PointsPerPatch)
			if err != nil {
				return nil, fmt.Errorf("rib: line %d: Patch: %w", lineNo, err)
			}

			var p [PointsPerPatch]int
			for j := range p {
				pt := top().MulPosition(v3.Vec{X: nums[3*j], Y: nums[3*j+1], Z: nums[3*j+2]})
				pt = v3.Vec{X: roundRIB(pt.X), Y: roundRIB(pt.Y), Z: roundRIB(pt.Z)}
				idx, ok := index[pt]
				if !ok {
					idx = len(s.Points)
					s.Points = append(s.Points, pt)
					index[pt] = idx
				}
				p[j] = idx
			}
			s.Patches = append(s.Patches, p)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("rib: %w", err)
	}

	return s, nil
}

// ribFloats parses exactly n numbers.
func ribFloats(fields []string, n int) ([]float64, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func roundRIB(x float64) float64 {
	r := math.Round(x*ribPrecision) / ribPrecision
	if r == 0 {
		return 0
	}
	return r
}
