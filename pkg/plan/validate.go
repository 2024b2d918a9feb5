package plan

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks the
// run or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the run
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Job      string             // job name (empty if plan-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Job == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] job %s: %s", e.Severity, e.Job, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks every job of p and the plan as a whole. An empty result
// means the plan is valid. Validate never mutates p.
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateJobs(p)...)
	errs = append(errs, validateNames(p)...)
	errs = append(errs, validateOutputs(p)...)
	return errs
}

// validateJobs checks each job's kind and parameters.
func validateJobs(p *Plan) []ValidationError {
	var errs []ValidationError

	for _, j := range p.Jobs {
		if !j.Kind.valid() {
			errs = append(errs, ValidationError{
				Job:      j.Name,
				Message:  fmt.Sprintf("invalid kind %d", int(j.Kind)),
				Severity: SeverityError,
			})
			continue
		}
		params := Deref(j.Params)
		if params == nil {
			errs = append(errs, ValidationError{
				Job:      j.Name,
				Message:  "missing parameters",
				Severity: SeverityError,
			})
			continue
		}
		if params.Kind() != j.Kind {
			errs = append(errs, ValidationError{
				Job:      j.Name,
				Message:  fmt.Sprintf("%s job carries %s parameters", j.Kind, params.Kind()),
				Severity: SeverityError,
			})
			continue
		}

		for _, f := range params.fields() {
			switch {
			case f.count && f.value < 1:
				errs = append(errs, ValidationError{
					Job:      j.Name,
					Message:  fmt.Sprintf("%s must be at least 1, got %g", f.name, f.value),
					Severity: SeverityError,
				})
			case !f.count && f.value <= 0:
				errs = append(errs, ValidationError{
					Job:      j.Name,
					Message:  fmt.Sprintf("%s is not positive (%g)", f.name, f.value),
					Severity: SeverityWarning,
				})
			}
		}

		if pp, ok := params.(PatchParams); ok && pp.File == "" {
			errs = append(errs, ValidationError{
				Job:      j.Name,
				Message:  "patch file is empty",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateNames checks that job names are unique.
func validateNames(p *Plan) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]int)
	for _, j := range p.Jobs {
		seen[j.Name]++
	}
	for _, j := range p.Jobs {
		if n := seen[j.Name]; n > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d jobs", j.Name, n),
				Severity: SeverityError,
			})
			seen[j.Name] = 0
		}
	}

	return errs
}

// validateOutputs checks that every job writes somewhere and that no two
// jobs write the same file.
func validateOutputs(p *Plan) []ValidationError {
	var errs []ValidationError

	owner := make(map[string]string)
	for _, j := range p.Jobs {
		if j.Output == "" {
			errs = append(errs, ValidationError{
				Job:      j.Name,
				Message:  "output file is empty",
				Severity: SeverityError,
			})
			continue
		}
		if prev, ok := owner[j.Output]; ok {
			errs = append(errs, ValidationError{
				Job:      j.Name,
				Message:  fmt.Sprintf("output %q already written by job %s", j.Output, prev),
				Severity: SeverityError,
			})
			continue
		}
		owner[j.Output] = j.Name
	}

	return errs
}
