package driven

import (
	"context"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
)

// IssueWriter defines the driven port for GitHub issue mutations.
// It is kept separate from IssueReader so dry runs can be wired without one.
type IssueWriter interface {
	// CreateIssueComment posts a comment on an issue.
	CreateIssueComment(ctx context.Context, repo model.Repository, number int, body string) error

	// CloseIssue transitions an issue to closed with the given reason.
	CloseIssue(ctx context.Context, repo model.Repository, number int, reason model.StateReason) error
}
