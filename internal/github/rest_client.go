package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	gh "github.com/google/go-github/v69/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

type restClient struct {
	cfg Config
	api *gh.Client

	// Request pacing shared across workers.
	lastRequest  time.Time
	requestMutex sync.Mutex

	// Per-run memoization of FetchIssues, keyed by org/repo. The run
	// controller may process repositories concurrently.
	cache      map[string][]Issue
	cacheMutex sync.Mutex
}

func newRestClient(cfg Config) *restClient {
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = time.Second
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	))

	return &restClient{
		cfg:   cfg,
		api:   gh.NewClient(httpClient),
		cache: make(map[string][]Issue),
	}
}

func (c *restClient) FetchIssues(ctx context.Context, org, repo string) ([]Issue, error) {
	key := org + "/" + repo

	c.cacheMutex.Lock()
	if cached, ok := c.cache[key]; ok {
		c.cacheMutex.Unlock()
		log.Debug().Str("repo", key).Int("issues", len(cached)).Msg("Issue cache hit")
		return cached, nil
	}
	c.cacheMutex.Unlock()

	issues, err := c.fetchAll(ctx, org, repo)
	if err != nil {
		return nil, err
	}

	c.cacheMutex.Lock()
	c.cache[key] = issues
	c.cacheMutex.Unlock()

	log.Debug().Str("repo", key).Int("issues", len(issues)).Msg("Fetched issues")
	return issues, nil
}

func (c *restClient) fetchAll(ctx context.Context, org, repo string) ([]Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Since:       c.cfg.Since,
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var result []Issue
	for {
		c.throttle()

		page, resp, err := c.api.Issues.ListByRepo(ctx, org, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issues for %s/%s: %w", org, repo, err)
		}

		for _, item := range page {
			issue := Issue{
				URL:       item.GetHTMLURL(),
				Author:    item.GetUser().GetLogin(),
				CreatedAt: item.GetCreatedAt().Time,
			}

			issue.Timeline, err = c.fetchTimeline(ctx, org, repo, item.GetNumber())
			if err != nil {
				return nil, fmt.Errorf("timeline for %s: %w", issue.URL, err)
			}

			result = append(result, issue)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

func (c *restClient) fetchTimeline(ctx context.Context, org, repo string, number int) ([]TimelineEvent, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var events []TimelineEvent
	for {
		c.throttle()

		page, resp, err := c.api.Issues.ListIssueTimeline(ctx, org, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing timeline events: %w", err)
		}

		for _, item := range page {
			if ev, ok := mapTimelineEvent(item); ok {
				events = append(events, ev)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return events, nil
}

func (c *restClient) throttle() {
	c.requestMutex.Lock()
	defer c.requestMutex.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Trace().Dur("wait", wait).Msg("Throttling GitHub request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}
