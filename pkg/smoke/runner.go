/*
Copyright 2026 the Stockroom Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package smoke

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/stockroom-labs/api-smoke/pkg/client"
)

// Options are the inputs of a run.
type Options struct {
	Credentials client.Credentials
	Product     client.Product
	// NewQuantity is sent to the quantity update endpoint.
	NewQuantity int
	// ExpectedQuantity is what the listing must report for the product.
	ExpectedQuantity int
}

// Runner executes the smoke sequence.
type Runner struct {
	client   Client
	reporter Reporter
	options  Options
}

// New creates a runner.
func New(api Client, reporter Reporter, options Options) *Runner {
	return &Runner{
		client:   api,
		reporter: reporter,
		options:  options,
	}
}

type stepFunc func(ctx context.Context, rc RunContext) (RunContext, StepResult, error)

// step is one entry of the plan.  The run continues only if the step
// leaves the context at the reach stage, otherwise notice is printed.
type step struct {
	run    stepFunc
	reach  Stage
	notice string
}

func (r *Runner) plan() []step {
	return []step{
		{run: r.register, reach: StageRegistered},
		{run: r.login, reach: StageLoggedIn, notice: NoticeLoginFailed},
		{run: r.createProduct, reach: StageProductCreated, notice: NoticeProductFailed},
		{run: r.updateQuantity, reach: StageQuantityUpdated},
		{run: r.listProducts, reach: StageProductsListed},
	}
}

// Run executes the sequence once.  Step failures are reported and recorded
// in the summary, an error is only returned when the API could not be
// reached at all, in which case the summary holds the steps completed so far.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	log := logr.FromContextOrDiscard(ctx)

	rc := NewRunContext()
	summary := &Summary{}

	for _, s := range r.plan() {
		next, result, err := s.run(ctx, rc)
		if err != nil {
			summary.Context = rc

			return summary, err
		}

		r.reporter.Report(result)

		summary.Results = append(summary.Results, result)
		summary.Context = next

		if next.Stage() < s.reach {
			log.Info("run halted", "step", result.Name, "stage", next.Stage().String(), "required", s.reach.String())

			r.reporter.Halt(s.notice)

			summary.Halted = true
			summary.Notice = s.notice

			return summary, nil
		}

		rc = next
	}

	log.V(1).Info("run complete", "passed", summary.Passed())

	return summary, nil
}
