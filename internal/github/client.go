package github

import (
	"context"
	"strings"
	"time"
)

// Client is the interface for fetching issue data from GitHub.
type Client interface {
	// FetchIssues returns every issue and pull request in the repository,
	// newest activity first, with its full timeline attached.
	FetchIssues(ctx context.Context, org, repo string) ([]Issue, error)
}

// Config holds the authentication and connection settings for GitHub.
type Config struct {
	Token string

	// Oldest activity worth fetching. Items untouched since this date are
	// excluded at the API level to keep pagination bounded.
	Since time.Time

	// Performance Settings
	RequestDelay time.Duration
}

// NewClient creates a new GitHub client based on the provided configuration.
// Results are memoized per org/repo for the lifetime of the client; a
// client must not outlive a single collection run.
func NewClient(cfg Config) Client {
	return newRestClient(cfg)
}

// IsPullURL reports whether an item URL names a pull request.
func IsPullURL(url string) bool {
	return strings.Contains(url, "/pull/")
}
