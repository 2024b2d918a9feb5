package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/meshgen/pkg/config"
	"github.com/chazu/meshgen/pkg/engine"
	"github.com/chazu/meshgen/pkg/generate"
	"github.com/chazu/meshgen/pkg/patch"
	"github.com/chazu/meshgen/pkg/plan"
)

// App ties the script engine, plan validation and the runner together.
type App struct {
	cfg    config.Config
	log    *slog.Logger
	engine *engine.Engine
	runner *generate.Runner
}

// NewApp creates an App that prints progress lines to stdout.
func NewApp(cfg config.Config, logger *slog.Logger, stdout io.Writer) *App {
	eng := engine.NewEngine()
	eng.SetTimeout(cfg.ScriptTimeout)
	return &App{
		cfg:    cfg,
		log:    logger,
		engine: eng,
		runner: &generate.Runner{
			Format:   cfg.Format,
			Progress: stdout,
			Logger:   logger,
		},
	}
}

// Shape writes the single model described by a shape command. Parameters
// are not validated: degenerate counts produce an empty model.
func (a *App) Shape(j *plan.Job) error {
	res := a.runner.RunJob(j)
	return res.Err
}

// Script evaluates the script at path and runs the resulting plan.
func (a *App) Script(ctx context.Context, path string) error {
	p, err := a.evaluate(path)
	if err != nil {
		return err
	}
	return a.runPlan(ctx, p)
}

// Batch runs the plan stored in the YAML file at path.
func (a *App) Batch(ctx context.Context, path string) error {
	p, err := plan.LoadYAMLFile(path)
	if err != nil {
		return err
	}
	return a.runPlan(ctx, p)
}

// Compile evaluates a script and stores its plan as a batch file.
// Paths in the batch file are the ones the script produced, resolved
// against the script's directory.
func (a *App) Compile(scriptPath, outPath string) error {
	p, err := a.evaluate(scriptPath)
	if err != nil {
		return err
	}
	if err := a.check(p); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if err := plan.WriteYAML(f, p); err != nil {
		f.Close()
		return fmt.Errorf("compile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	a.log.Info("compiled", "script", scriptPath, "out", outPath, "jobs", p.Len())
	return nil
}

// RIBToPatch converts the bicubic patches of a RIB file to a patch file.
func (a *App) RIBToPatch(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("rib2patch: %w", err)
	}
	defer in.Close()

	s, err := patch.ParseRIB(in)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := patch.Save(outPath, s); err != nil {
		return err
	}
	a.log.Info("converted", "in", inPath, "out", outPath, "patches", s.Len(), "points", len(s.Points))
	return nil
}

// evaluate runs the script engine on path and turns eval errors into one
// error.
func (a *App) evaluate(path string) (*plan.Plan, error) {
	p, evalErrs, err := a.engine.EvaluateFile(path)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			a.log.Error("script error", "file", path, "line", e.Line, "msg", e.Message)
		}
		return nil, fmt.Errorf("%s: %w", path, evalErrs[0])
	}
	return p, nil
}

// check validates p, logging warnings and failing on errors.
func (a *App) check(p *plan.Plan) error {
	findings := plan.Validate(p)
	for _, f := range findings {
		if f.Severity == plan.SeverityWarning {
			a.log.Warn("plan", "job", f.Job, "msg", f.Message)
		} else {
			a.log.Error("plan", "job", f.Job, "msg", f.Message)
		}
	}
	if plan.HasErrors(findings) {
		return fmt.Errorf("plan has %d problem(s)", countErrors(findings))
	}
	return nil
}

func countErrors(findings []plan.ValidationError) int {
	n := 0
	for _, f := range findings {
		if f.Severity == plan.SeverityError {
			n++
		}
	}
	return n
}

// runPlan validates and runs p.
func (a *App) runPlan(ctx context.Context, p *plan.Plan) error {
	if err := a.check(p); err != nil {
		return err
	}
	if p.Len() == 0 {
		a.log.Warn("plan has no jobs")
		return nil
	}
	_, err := a.runner.Run(ctx, p)
	return err
}
