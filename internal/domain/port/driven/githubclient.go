package driven

import (
	"context"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
)

// IssueReader defines the driven port for reading issue data from GitHub.
type IssueReader interface {
	// GetLabel succeeds if the label exists in the repository and the
	// repository is accessible.
	GetLabel(ctx context.Context, repo model.Repository, name string) error

	// ListLabeledIssues returns up to first open issues carrying label,
	// newest first by creation time, together with the total match count.
	ListLabeledIssues(ctx context.Context, repo model.Repository, label string, first int) (*model.CandidatePage, error)

	// FetchLabeledEvents returns up to last labeled events of an issue that
	// precede the before cursor. An empty cursor starts at the newest event.
	FetchLabeledEvents(ctx context.Context, issueNodeID string, before string, last int) (*model.TimelinePage, error)
}
