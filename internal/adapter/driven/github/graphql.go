package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
)

const labeledIssuesQuery = `query($owner: String!, $repo: String!, $label: String!, $first: Int!) {
	repository(owner: $owner, name: $repo) {
		issues(first: $first, states: OPEN, labels: [$label], orderBy: {field: CREATED_AT, direction: DESC}) {
			totalCount
			nodes {
				id
				createdAt
				number
				url
			}
		}
	}
}`

const labeledEventsQuery = `query($issue: ID!, $cursor: String, $last: Int!) {
	node(id: $issue) {
		... on Issue {
			timelineItems(last: $last, before: $cursor, itemTypes: [LABELED_EVENT]) {
				nodes {
					... on LabeledEvent {
						createdAt
						label {
							name
						}
					}
				}
				pageInfo {
					hasPreviousPage
					startCursor
				}
			}
		}
	}
}`

// errEmptyNode is returned when GraphQL resolves a queried node to null.
var errEmptyNode = errors.New("graphql: node not found")

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse is the envelope of every GitHub GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// labeledIssuesData is the data shape of labeledIssuesQuery.
type labeledIssuesData struct {
	Repository *struct {
		Issues struct {
			TotalCount int `json:"totalCount"`
			Nodes      []struct {
				ID        string    `json:"id"`
				CreatedAt time.Time `json:"createdAt"`
				Number    int       `json:"number"`
				URL       string    `json:"url"`
			} `json:"nodes"`
		} `json:"issues"`
	} `json:"repository"`
}

// labeledEventsData is the data shape of labeledEventsQuery.
type labeledEventsData struct {
	Node *struct {
		TimelineItems struct {
			Nodes []struct {
				CreatedAt time.Time `json:"createdAt"`
				Label     struct {
					Name string `json:"name"`
				} `json:"label"`
			} `json:"nodes"`
			PageInfo struct {
				HasPreviousPage bool   `json:"hasPreviousPage"`
				StartCursor     string `json:"startCursor"`
			} `json:"pageInfo"`
		} `json:"timelineItems"`
	} `json:"node"`
}

// ListLabeledIssues queries open issues carrying label, newest first.
func (c *Client) ListLabeledIssues(ctx context.Context, repo model.Repository, label string, first int) (*model.CandidatePage, error) {
	var data labeledIssuesData
	err := c.query(ctx, labeledIssuesQuery, map[string]any{
		"owner": repo.Owner,
		"repo":  repo.Name,
		"label": label,
		"first": first,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("listing issues labeled %q in %s: %w", label, repo.FullName(), err)
	}
	if data.Repository == nil {
		return nil, fmt.Errorf("listing issues labeled %q in %s: %w", label, repo.FullName(), errEmptyNode)
	}

	issues := data.Repository.Issues
	page := &model.CandidatePage{
		TotalCount: issues.TotalCount,
		Issues:     make([]model.CandidateIssue, 0, len(issues.Nodes)),
	}
	for _, n := range issues.Nodes {
		page.Issues = append(page.Issues, model.CandidateIssue{
			NodeID:    n.ID,
			Number:    n.Number,
			URL:       n.URL,
			CreatedAt: n.CreatedAt,
		})
	}

	slog.Debug("github graphql call", "endpoint", repo.FullName()+"/issues", "count", len(page.Issues), "total", page.TotalCount)

	return page, nil
}

// FetchLabeledEvents queries one page of an issue's labeled events, walking
// backwards from the before cursor.
func (c *Client) FetchLabeledEvents(ctx context.Context, issueNodeID string, before string, last int) (*model.TimelinePage, error) {
	var cursor any
	if before != "" {
		cursor = before
	}

	var data labeledEventsData
	err := c.query(ctx, labeledEventsQuery, map[string]any{
		"issue":  issueNodeID,
		"cursor": cursor,
		"last":   last,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetching labeled events for issue %s: %w", issueNodeID, err)
	}
	if data.Node == nil {
		return nil, fmt.Errorf("fetching labeled events for issue %s: %w", issueNodeID, errEmptyNode)
	}

	items := data.Node.TimelineItems
	page := &model.TimelinePage{
		Events:          make([]model.LabelEvent, 0, len(items.Nodes)),
		HasPreviousPage: items.PageInfo.HasPreviousPage,
		StartCursor:     items.PageInfo.StartCursor,
	}
	for _, n := range items.Nodes {
		page.Events = append(page.Events, model.LabelEvent{
			Label:     n.Label.Name,
			CreatedAt: n.CreatedAt,
		})
	}

	return page, nil
}

// query posts a GraphQL query and decodes the data member into out.
// Transport failures, non-200 responses and GraphQL errors are all returned.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshaling graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request: HTTP %d", resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("graphql: %s", gqlResp.Errors[0].Message)
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return errEmptyNode
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decoding graphql data: %w", err)
	}

	return nil
}
