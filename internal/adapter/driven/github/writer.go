package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueWriter = (*Client)(nil)

// CreateIssueComment creates a top-level comment on an issue.
func (c *Client) CreateIssueComment(ctx context.Context, repo model.Repository, number int, body string) error {
	_, resp, err := c.gh.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s#%d: %w", repo.FullName(), number, err)
	}

	logRateLimit(resp, repo.FullName()+"/comments", 0, 1)

	return nil
}

// CloseIssue closes an issue, recording reason as its state reason.
func (c *Client) CloseIssue(ctx context.Context, repo model.Repository, number int, reason model.StateReason) error {
	_, resp, err := c.gh.Issues.Edit(ctx, repo.Owner, repo.Name, number, &gh.IssueRequest{
		State:       gh.Ptr(string(model.IssueStateClosed)),
		StateReason: gh.Ptr(string(reason)),
	})
	if err != nil {
		return fmt.Errorf("closing %s#%d: %w", repo.FullName(), number, err)
	}

	logRateLimit(resp, repo.FullName()+"/issues", 0, 1)

	return nil
}
