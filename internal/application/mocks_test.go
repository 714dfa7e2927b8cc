package application_test

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
)

// --- Mock implementations ---

type timelineCall struct {
	NodeID string
	Before string
	Last   int
}

type mockIssueReader struct {
	getLabelErr   error
	labelCalls    []string
	candidates    *model.CandidatePage
	listErr       error
	listCalls     int
	timelines     map[string][]model.TimelinePage // Keyed by node ID, newest page first.
	timelineErr   error
	timelineCalls []timelineCall
}

func (m *mockIssueReader) GetLabel(_ context.Context, _ model.Repository, name string) error {
	m.labelCalls = append(m.labelCalls, name)
	return m.getLabelErr
}

func (m *mockIssueReader) ListLabeledIssues(_ context.Context, _ model.Repository, _ string, _ int) (*model.CandidatePage, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.candidates, nil
}

func (m *mockIssueReader) FetchLabeledEvents(_ context.Context, nodeID string, before string, last int) (*model.TimelinePage, error) {
	m.timelineCalls = append(m.timelineCalls, timelineCall{NodeID: nodeID, Before: before, Last: last})
	if m.timelineErr != nil {
		return nil, m.timelineErr
	}

	pages := m.timelines[nodeID]
	idx := 0
	for _, c := range m.timelineCalls[:len(m.timelineCalls)-1] {
		if c.NodeID == nodeID {
			idx++
		}
	}
	if idx >= len(pages) {
		return nil, fmt.Errorf("unexpected timeline page %d for %s", idx, nodeID)
	}
	page := pages[idx]
	return &page, nil
}

type writerCall struct {
	Method string
	Number int
	Body   string
	Reason model.StateReason
}

type mockIssueWriter struct {
	calls      []writerCall
	commentErr error
	closeErr   error
}

func (m *mockIssueWriter) CreateIssueComment(_ context.Context, _ model.Repository, number int, body string) error {
	m.calls = append(m.calls, writerCall{Method: "comment", Number: number, Body: body})
	return m.commentErr
}

func (m *mockIssueWriter) CloseIssue(_ context.Context, _ model.Repository, number int, reason model.StateReason) error {
	m.calls = append(m.calls, writerCall{Method: "close", Number: number, Reason: reason})
	return m.closeErr
}

type mockReporter struct {
	infos    []string
	warnings []string
	outputs  map[string]any
	failures []string
}

func (m *mockReporter) Info(msg string)    { m.infos = append(m.infos, msg) }
func (m *mockReporter) Warning(msg string) { m.warnings = append(m.warnings, msg) }
func (m *mockReporter) Fail(msg string)    { m.failures = append(m.failures, msg) }

func (m *mockReporter) SetOutput(name string, value any) error {
	if m.outputs == nil {
		m.outputs = map[string]any{}
	}
	m.outputs[name] = value
	return nil
}

// --- Fixtures ---

var testRepo = model.Repository{Owner: "directus", Name: "stale-issues-action"}

// fixedNow is the clock used by scanner tests; with a 7 day threshold the
// stale date is 2024-08-05.
func fixedNow() time.Time {
	return time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)
}

func day(d int) time.Time {
	return time.Date(2024, 8, d, 0, 0, 0, 0, time.UTC)
}

func candidate(number int, created time.Time) model.CandidateIssue {
	return model.CandidateIssue{
		NodeID:    fmt.Sprintf("I_%d", number),
		Number:    number,
		URL:       issueURL(number),
		CreatedAt: created,
	}
}

func issueURL(number int) string {
	return fmt.Sprintf("https://github.com/directus/stale-issues-action/issues/%d", number)
}

func labeled(label string, at time.Time) model.LabelEvent {
	return model.LabelEvent{Label: label, CreatedAt: at}
}

func lastPage(events ...model.LabelEvent) model.TimelinePage {
	return model.TimelinePage{Events: events, HasPreviousPage: false, StartCursor: "start"}
}

func testRunConfig(dryRun bool) *model.RunConfig {
	return &model.RunConfig{
		Repository:      testRepo,
		StaleLabel:      "stale",
		DaysBeforeClose: 7,
		CloseMessage:    "Closing this issue as it has been stale for too long.",
		DryRun:          dryRun,
	}
}
