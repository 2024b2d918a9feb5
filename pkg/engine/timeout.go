package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/chazu/meshgen/pkg/plan"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult carries one evaluation's outcome back from its goroutine.
type evalResult struct {
	plan   *plan.Plan
	errors []EvalError
	err    error
}

// awaitResult returns the result sent on ch, or a timeout error once
// timeout elapses. A timed out evaluation keeps running in the background;
// ch must be buffered so its late send does not block.
func awaitResult(ch <-chan evalResult, timeout time.Duration) (*plan.Plan, []EvalError, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case res := <-ch:
		return res.plan, res.errors, res.err
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
