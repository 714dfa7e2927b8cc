package model

// IssueState represents the state of a GitHub issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// StateReason explains why an issue changed state.
type StateReason string

const (
	StateReasonCompleted  StateReason = "completed"
	StateReasonNotPlanned StateReason = "not_planned"
	StateReasonReopened   StateReason = "reopened"
)
