// Package application contains the use-case services of a stale-issue run.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/stale-issues/internal/config"
	"github.com/ericfisherdev/stale-issues/internal/domain/model"
	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

// OutputClosedIssues is the name of the output listing closed issue numbers.
const OutputClosedIssues = "closed-issues"

// RunResult summarizes a successful run.
type RunResult struct {
	Config       *model.RunConfig
	StaleDate    time.Time
	ClosedIssues []int
}

// Runner drives a full run: resolve config, scan, close, report.
type Runner struct {
	resolver *ConfigResolver
	scanner  *StaleScanner
	closer   *IssueCloser
	reporter driven.Reporter
}

// NewRunner creates a Runner from its services.
func NewRunner(resolver *ConfigResolver, scanner *StaleScanner, closer *IssueCloser, reporter driven.Reporter) *Runner {
	return &Runner{
		resolver: resolver,
		scanner:  scanner,
		closer:   closer,
		reporter: reporter,
	}
}

// Run closes every stale issue one at a time and publishes the closed issue
// numbers as the closed-issues output. The first failure stops the run and is
// reported once through the reporter; issues closed before it stay closed.
func (r *Runner) Run(ctx context.Context, in *config.Inputs) (*RunResult, error) {
	res, err := r.run(ctx, in)
	if err != nil {
		r.reporter.Fail(err.Error())
		return nil, err
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, in *config.Inputs) (res *RunResult, err error) {
	defer func() {
		if v := recover(); v != nil {
			slog.Error("run panicked", "panic", v)
			res, err = nil, errors.New(failureMessage(v))
		}
	}()

	cfg, err := r.resolver.Resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	staleDate, issues := r.scanner.Scan(ctx, cfg)

	closed := []int{}
	for issue, err := range issues {
		if err != nil {
			return nil, err
		}
		if err := r.closer.Close(ctx, cfg, issue); err != nil {
			return nil, err
		}
		closed = append(closed, issue.Number)
	}

	if err := r.reporter.SetOutput(OutputClosedIssues, closed); err != nil {
		return nil, err
	}

	slog.Info("run complete",
		"repo", cfg.Repository.FullName(),
		"dry_run", cfg.DryRun,
		"closed", len(closed),
	)

	return &RunResult{Config: cfg, StaleDate: staleDate, ClosedIssues: closed}, nil
}

// failureMessage renders whatever aborted a run as a single message.
func failureMessage(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
