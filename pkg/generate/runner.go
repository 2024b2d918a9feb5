package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/meshgen/pkg/export"
	"github.com/chazu/meshgen/pkg/mesh"
	"github.com/chazu/meshgen/pkg/plan"
)

// Result reports what happened to one job.
type Result struct {
	Job       *plan.Job
	Positions int
	Triangles int

	// Warning is a generation problem that still produced a file, such
	// as an unreadable patch file exported as an empty model.
	Warning error

	// Err is set when nothing was written.
	Err error
}

// Runner executes plans sequentially in job order.
type Runner struct {
	// Format is used for outputs whose extension names no known format.
	Format export.Format

	// Progress receives one Describe line per job. Nil discards them.
	Progress io.Writer

	// Logger receives per-job outcomes. Nil uses slog.Default().
	Logger *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// RunJob generates and exports a single job.
func (r *Runner) RunJob(j *plan.Job) Result {
	log := r.logger()
	res := Result{Job: j}

	if r.Progress != nil {
		fmt.Fprintln(r.Progress, j.Describe())
	}

	m, err := Generate(j)
	if m == nil {
		res.Err = err
		log.Error("generation failed", "job", j.Name, "err", err)
		return res
	}
	if err != nil {
		res.Warning = err
		log.Error("generation degraded, exporting empty model", "job", j.Name, "err", err)
	}

	if log.Enabled(context.Background(), slog.LevelDebug) {
		if d := mesh.Duplicates(m); d.Total() > 0 {
			log.Debug("duplicate attribute values", "job", j.Name, "count", d.Total())
		}
	}

	if err := export.Save(m, j.Output, r.Format); err != nil {
		res.Err = err
		log.Error("export failed", "job", j.Name, "out", j.Output, "err", err)
		return res
	}

	res.Positions = len(m.Positions)
	res.Triangles = m.TriangleCount()
	log.Info("generated",
		"shape", j.Kind.String(),
		"out", j.Output,
		"positions", res.Positions,
		"triangles", res.Triangles,
	)
	return res
}

// Run executes every job of p. It stops early only when ctx is done. The
// returned error joins the errors of all jobs that wrote nothing.
func (r *Runner) Run(ctx context.Context, p *plan.Plan) ([]Result, error) {
	if p == nil {
		return nil, nil
	}

	results := make([]Result, 0, p.Len())
	var errs []error
	for _, j := range p.Jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res := r.RunJob(j)
		results = append(results, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", j.Name, res.Err))
		}
	}
	return results, errors.Join(errs...)
}
