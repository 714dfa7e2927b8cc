package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

// IssueCloser comments on and closes stale issues.
type IssueCloser struct {
	writer   driven.IssueWriter
	reporter driven.Reporter
}

// NewIssueCloser creates an IssueCloser. writer may be nil when every run
// is a dry run.
func NewIssueCloser(writer driven.IssueWriter, reporter driven.Reporter) *IssueCloser {
	return &IssueCloser{writer: writer, reporter: reporter}
}

// Close posts the close message on issue and closes it as not planned.
// In dry-run mode it only reports what would happen. Errors from GitHub are
// returned as is; a failed close leaves the comment in place.
func (c *IssueCloser) Close(ctx context.Context, cfg *model.RunConfig, issue model.StaleIssue) error {
	if cfg.DryRun {
		c.reporter.Info(fmt.Sprintf("Issue #%d (%s) is stale since %s and would have been closed (dry-run)",
			issue.Number, issue.URL, issue.StaleSince))
		return nil
	}

	if c.writer == nil {
		return fmt.Errorf("closing %s#%d: no issue writer configured", cfg.Repository.FullName(), issue.Number)
	}

	if err := c.writer.CreateIssueComment(ctx, cfg.Repository, issue.Number, cfg.CloseMessage); err != nil {
		return err
	}

	if err := c.writer.CloseIssue(ctx, cfg.Repository, issue.Number, model.StateReasonNotPlanned); err != nil {
		return err
	}

	c.reporter.Info(fmt.Sprintf("Issue #%d (%s) is stale since %s and has been closed",
		issue.Number, issue.URL, issue.StaleSince))
	return nil
}
