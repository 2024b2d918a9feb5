package plan

import "fmt"

// Plan is an ordered list of jobs with a name index. Jobs run in the
// order they were added.
type Plan struct {
	Jobs      []*Job
	NameIndex map[string]int

	// auto counts unnamed jobs per kind so generated names stay stable
	// for a given source.
	auto map[Kind]int
}

// New returns an empty Plan.
func New() *Plan {
	return &Plan{
		NameIndex: make(map[string]int),
		auto:      make(map[Kind]int),
	}
}

// Add appends j. An unnamed job is named after its kind and position
// among unnamed jobs of that kind ("sphere-1", "sphere-2", ...). Add does
// not reject duplicates; Validate reports them.
func (p *Plan) Add(j *Job) {
	if j.Name == "" {
		p.auto[j.Kind]++
		j.Name = fmt.Sprintf("%s-%d", j.Kind, p.auto[j.Kind])
	}
	if _, taken := p.NameIndex[j.Name]; !taken {
		p.NameIndex[j.Name] = len(p.Jobs)
	}
	p.Jobs = append(p.Jobs, j)
}

// Lookup returns the first job with the given name, or nil.
func (p *Plan) Lookup(name string) *Job {
	i, ok := p.NameIndex[name]
	if !ok {
		return nil
	}
	return p.Jobs[i]
}

// Len returns the number of jobs.
func (p *Plan) Len() int {
	return len(p.Jobs)
}
