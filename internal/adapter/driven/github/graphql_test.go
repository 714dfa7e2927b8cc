package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
)

type graphqlBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func TestListLabeledIssues_Success(t *testing.T) {
	gqlResponse := map[string]any{
		"data": map[string]any{
			"repository": map[string]any{
				"issues": map[string]any{
					"totalCount": 73,
					"nodes": []any{
						map[string]any{
							"id":        "I_kwDOA",
							"createdAt": "2024-08-02T00:00:00Z",
							"number":    2,
							"url":       "https://github.com/owner/repo/issues/2",
						},
						map[string]any{
							"id":        "I_kwDOB",
							"createdAt": "2024-08-01T00:00:00Z",
							"number":    1,
							"url":       "https://github.com/owner/repo/issues/1",
						},
					},
				},
			},
		},
	}

	var got graphqlBody
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gqlResponse)
	})

	client, _ := newTestClient(t, handler)
	page, err := client.ListLabeledIssues(context.Background(), testRepo, "stale", 50)

	require.NoError(t, err)
	assert.Equal(t, 73, page.TotalCount)
	require.Len(t, page.Issues, 2)
	assert.Equal(t, model.CandidateIssue{
		NodeID:    "I_kwDOA",
		Number:    2,
		URL:       "https://github.com/owner/repo/issues/2",
		CreatedAt: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC),
	}, page.Issues[0])
	assert.Equal(t, 1, page.Issues[1].Number)

	assert.Contains(t, got.Query, "orderBy: {field: CREATED_AT, direction: DESC}")
	assert.Equal(t, "owner", got.Variables["owner"])
	assert.Equal(t, "repo", got.Variables["repo"])
	assert.Equal(t, "stale", got.Variables["label"])
	assert.EqualValues(t, 50, got.Variables["first"])
}

func TestListLabeledIssues_NullRepository(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"repository": nil}})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ListLabeledIssues(context.Background(), testRepo, "stale", 50)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "node not found")
}

func TestListLabeledIssues_GraphQLErrors(t *testing.T) {
	gqlResponse := map[string]any{
		"data":   nil,
		"errors": []any{map[string]any{"message": "Could not resolve to a Repository"}},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gqlResponse)
	})

	client, _ := newTestClient(t, handler)
	page, err := client.ListLabeledIssues(context.Background(), testRepo, "stale", 50)

	require.Error(t, err)
	assert.Nil(t, page)
	assert.Contains(t, err.Error(), "Could not resolve to a Repository")
}

func TestListLabeledIssues_HTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ListLabeledIssues(context.Background(), testRepo, "stale", 50)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestFetchLabeledEvents_FirstPageSendsNullCursor(t *testing.T) {
	gqlResponse := map[string]any{
		"data": map[string]any{
			"node": map[string]any{
				"timelineItems": map[string]any{
					"nodes": []any{
						map[string]any{"createdAt": "2024-07-30T00:00:00Z", "label": map[string]any{"name": "bug"}},
						map[string]any{"createdAt": "2024-08-02T00:00:00Z", "label": map[string]any{"name": "stale"}},
					},
					"pageInfo": map[string]any{
						"hasPreviousPage": true,
						"startCursor":     "Y3Vyc29yOjE=",
					},
				},
			},
		},
	}

	var got graphqlBody
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gqlResponse)
	})

	client, _ := newTestClient(t, handler)
	page, err := client.FetchLabeledEvents(context.Background(), "I_kwDOA", "", 10)

	require.NoError(t, err)
	assert.True(t, page.HasPreviousPage)
	assert.Equal(t, "Y3Vyc29yOjE=", page.StartCursor)
	assert.Equal(t, []model.LabelEvent{
		{Label: "bug", CreatedAt: time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC)},
		{Label: "stale", CreatedAt: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)},
	}, page.Events)

	assert.Contains(t, got.Variables, "cursor")
	assert.Nil(t, got.Variables["cursor"], "first page must send a null cursor")
	assert.Equal(t, "I_kwDOA", got.Variables["issue"])
	assert.EqualValues(t, 10, got.Variables["last"])
}

func TestFetchLabeledEvents_OlderPageSendsCursor(t *testing.T) {
	var got graphqlBody
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"node": map[string]any{
					"timelineItems": map[string]any{
						"nodes":    []any{},
						"pageInfo": map[string]any{"hasPreviousPage": false, "startCursor": nil},
					},
				},
			},
		})
	})

	client, _ := newTestClient(t, handler)
	page, err := client.FetchLabeledEvents(context.Background(), "I_kwDOA", "Y3Vyc29yOjE=", 10)

	require.NoError(t, err)
	assert.Equal(t, "Y3Vyc29yOjE=", got.Variables["cursor"])
	assert.False(t, page.HasPreviousPage)
	assert.Empty(t, page.Events)
}

func TestFetchLabeledEvents_NullNode(t *testing.T) {
	var authHeader string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"node": nil}})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchLabeledEvents(context.Background(), "I_kwDOA", "", 10)

	require.Error(t, err)
	assert.Equal(t, "bearer test-token", authHeader)
	assert.Contains(t, err.Error(), "fetching labeled events for issue I_kwDOA")
}
