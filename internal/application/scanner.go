package application

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

const (
	// candidateLimit is the number of labeled issues fetched per run.
	candidateLimit = 50
	// timelinePageSize is the number of labeled events fetched per page.
	timelinePageSize = 10
)

// labelSearch is the state of the backward walk through an issue's timeline.
type labelSearch int

const (
	searching labelSearch = iota
	found
	exhausted
)

// StaleScanner finds issues that have carried the stale label for longer
// than the configured threshold.
type StaleScanner struct {
	reader   driven.IssueReader
	reporter driven.Reporter
	now      func() time.Time
}

// NewStaleScanner creates a StaleScanner. now is called once per Scan.
func NewStaleScanner(reader driven.IssueReader, reporter driven.Reporter, now func() time.Time) *StaleScanner {
	return &StaleScanner{
		reader:   reader,
		reporter: reporter,
		now:      now,
	}
}

// StaleDate returns the cutoff before which a label must have been applied
// for an issue to count as stale.
func StaleDate(now time.Time, daysBeforeClose int) time.Time {
	return now.AddDate(0, 0, -daysBeforeClose)
}

// Scan fixes the stale date and returns it together with a lazy sequence of
// stale issues. Issues are requested from GitHub only as the sequence is
// consumed. An error is yielded at most once and ends the sequence.
func (s *StaleScanner) Scan(ctx context.Context, cfg *model.RunConfig) (time.Time, iter.Seq2[model.StaleIssue, error]) {
	staleDate := StaleDate(s.now(), cfg.DaysBeforeClose)

	return staleDate, func(yield func(model.StaleIssue, error) bool) {
		slog.Debug("scanning for stale issues",
			"repo", cfg.Repository.FullName(),
			"label", cfg.StaleLabel,
			"stale_date", staleDate,
		)

		page, err := s.reader.ListLabeledIssues(ctx, cfg.Repository, cfg.StaleLabel, candidateLimit)
		if err != nil {
			yield(model.StaleIssue{}, err)
			return
		}

		s.reporter.Info(fmt.Sprintf("Found %d %s with stale label", page.TotalCount, pluralIssues(page.TotalCount)))

		for _, issue := range page.Issues {
			// Candidates are newest first: once one is younger than the stale
			// date, every remaining one is too.
			if issue.CreatedAt.After(staleDate) {
				s.reporter.Info(fmt.Sprintf("Stopping at issue #%d (%s) because it's %s younger than the configured stale date",
					issue.Number, issue.URL, relativeDuration(staleDate, issue.CreatedAt)))
				return
			}

			event, ok, err := s.lastLabeledEvent(ctx, issue, cfg.StaleLabel)
			if err != nil {
				yield(model.StaleIssue{}, err)
				return
			}
			if !ok {
				s.reporter.Warning(fmt.Sprintf("Couldn't get labeling date for issue #%d (%s)", issue.Number, issue.URL))
				continue
			}

			if event.CreatedAt.After(staleDate) {
				s.reporter.Info(fmt.Sprintf("Issue #%d (%s) is not yet stale, will become stale in %s",
					issue.Number, issue.URL, relativeDuration(event.CreatedAt, staleDate)))
				continue
			}

			stale := model.StaleIssue{
				Number:     issue.Number,
				URL:        issue.URL,
				LabeledAt:  event.CreatedAt,
				StaleSince: relativeDuration(event.CreatedAt, staleDate),
			}
			if !yield(stale, nil) {
				return
			}
		}
	}
}

// lastLabeledEvent walks the issue's labeled events backwards, one page at a
// time, until a page contains an event for label or no older page remains.
func (s *StaleScanner) lastLabeledEvent(ctx context.Context, issue model.CandidateIssue, label string) (model.LabelEvent, bool, error) {
	var (
		cursor string
		event  model.LabelEvent
		pages  int
	)

	state := searching
	for state == searching {
		page, err := s.reader.FetchLabeledEvents(ctx, issue.NodeID, cursor, timelinePageSize)
		if err != nil {
			return model.LabelEvent{}, false, err
		}
		pages++

		match, ok := newestMatch(page.Events, label)
		switch {
		case ok:
			event = match
			state = found
		case !page.HasPreviousPage || page.StartCursor == "":
			state = exhausted
		default:
			cursor = page.StartCursor
		}
	}

	slog.Debug("labeled events searched", "issue", issue.Number, "pages", pages, "found", state == found)

	return event, state == found, nil
}

// newestMatch returns the most recent event for label. events are in
// chronological order.
func newestMatch(events []model.LabelEvent, label string) (model.LabelEvent, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Label == label {
			return events[i], true
		}
	}
	return model.LabelEvent{}, false
}

func pluralIssues(n int) string {
	if n == 1 {
		return "issue"
	}
	return "issues"
}
