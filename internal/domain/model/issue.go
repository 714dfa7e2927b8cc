package model

import "time"

// CandidateIssue is an open issue carrying the stale label, as returned by the
// issue listing before any staleness check.
type CandidateIssue struct {
	NodeID    string // GraphQL node ID, only used to look up the timeline.
	Number    int
	URL       string
	CreatedAt time.Time
}

// CandidatePage is one page of candidate issues. TotalCount is the number of
// matching issues on GitHub, which may exceed len(Issues).
type CandidatePage struct {
	TotalCount int
	Issues     []CandidateIssue
}

// LabelEvent records a label being applied to an issue.
type LabelEvent struct {
	Label     string
	CreatedAt time.Time
}

// TimelinePage is one page of label events, in chronological order.
// HasPreviousPage and StartCursor drive pagination toward older events.
type TimelinePage struct {
	Events          []LabelEvent
	HasPreviousPage bool
	StartCursor     string
}

// StaleIssue is an issue confirmed to have carried the stale label for longer
// than the configured threshold.
type StaleIssue struct {
	Number     int
	URL        string
	LabeledAt  time.Time
	StaleSince string // Human-readable, measured from LabeledAt to the stale date.
}
