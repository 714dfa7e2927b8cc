// Package github implements the IssueReader and IssueWriter ports using the
// go-github library for REST calls and plain HTTP for GraphQL queries.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

// DefaultAPIURL is the REST base URL of github.com.
const DefaultAPIURL = "https://api.github.com/"

// Compile-time interface satisfaction check.
var _ driven.IssueReader = (*Client)(nil)

// Client implements the driven.IssueReader port using the go-github library.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client // Used for GraphQL requests.
	token      string       // Stored for GraphQL Authorization header.
	graphqlURL string       // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// apiURL may point at a GitHub Enterprise Server ("https://host/api/v3/").
func NewClient(token, apiURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = 30 * time.Second

	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return newClient(rateLimitClient, apiURL, token)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	return newClient(httpClient, baseURL, token)
}

func newClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:         client,
		httpClient: httpClient,
		token:      token,
		graphqlURL: graphqlEndpoint(u),
	}, nil
}

// graphqlEndpoint derives the GraphQL URL from a REST base URL. GitHub
// Enterprise serves REST under /api/v3/ and GraphQL under /api/graphql.
func graphqlEndpoint(base *url.URL) string {
	u := *base
	if strings.HasSuffix(u.Path, "/api/v3/") {
		u.Path = strings.TrimSuffix(u.Path, "v3/") + "graphql"
	} else {
		u.Path = "/graphql"
	}
	return u.String()
}

// GetLabel verifies that the named label exists in the repository.
func (c *Client) GetLabel(ctx context.Context, repo model.Repository, name string) error {
	_, resp, err := c.gh.Issues.GetLabel(ctx, repo.Owner, repo.Name, name)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("label %q not found in %s: %w", name, repo.FullName(), err)
		}
		return fmt.Errorf("fetching label %q for %s: %w", name, repo.FullName(), err)
	}

	logRateLimit(resp, repo.FullName()+"/labels", 0, 1)

	return nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
