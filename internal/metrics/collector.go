package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dx-metrics/internal/github"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Repo identifies one repository to collect metrics for.
type Repo struct {
	Org  string
	Name string
}

// URL is the repository's canonical identifier in reports.
func (r Repo) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s", r.Org, r.Name)
}

// Source fetches a repository's raw issue list.
type Source interface {
	FetchIssues(ctx context.Context, org, repo string) ([]github.Issue, error)
}

// RowSink receives flattened repository summaries. Best effort: a failed
// publish is reported, never fatal to the run.
type RowSink interface {
	PublishRows(ctx context.Context, period Period, rows []Row) error
}

// PointSink receives extracted time-series points. Best effort.
type PointSink interface {
	PublishPoints(ctx context.Context, points []Point) error
}

// Collector orchestrates one full metrics pass: collect every
// repository's issues into the metric tree, roll each repository subtree
// up, flatten, and publish. The collector exclusively owns the tree for
// the duration of a run; nothing survives across runs.
type Collector struct {
	source  Source
	deriver *Deriver
	rows    RowSink
	points  PointSink
	targets []SeriesTarget

	// Workers for the collection phase. Phases 2 and 3 are sequential.
	workers int

	now func() time.Time
}

// CollectorOption adjusts collector construction.
type CollectorOption func(*Collector)

// WithWorkers bounds the number of repositories collected concurrently.
func WithWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithSeriesTargets overrides the extracted time-series metrics.
func WithSeriesTargets(targets []SeriesTarget) CollectorOption {
	return func(c *Collector) { c.targets = targets }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) { c.now = now }
}

// NewCollector wires a run controller from its collaborators.
func NewCollector(source Source, deriver *Deriver, rows RowSink, points PointSink, opts ...CollectorOption) *Collector {
	c := &Collector{
		source:  source,
		deriver: deriver,
		rows:    rows,
		points:  points,
		targets: DefaultSeriesTargets,
		workers: 4,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one full pass over the repository set. A run with no
// qualifying repositories still completes and publishes empty reports.
func (c *Collector) Run(ctx context.Context, repos []Repo, w Window) error {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()

	logger.Info().
		Int("repos", len(repos)).
		Time("start", w.Start).
		Time("end", w.End).
		Str("period", string(w.Period)).
		Msg("Metrics run starting")

	// Phase 1: collect. Each worker exclusively owns its repository's
	// result until the phase completes; a failed repository is skipped
	// and never corrupts another's results.
	results, untagged := c.collect(ctx, repos, w, logger)

	if len(untagged) > 0 {
		logger.Warn().Int("count", len(untagged)).Msg("These issues need a type label:")
		for _, url := range untagged {
			logger.Warn().Str("issue", url).Msg("Untagged issue")
		}
	}

	// Phase 2: roll up and flatten, in deterministic repository order.
	tree := NewTree()
	for _, res := range results {
		repoNode := tree.Child(res.repo.Org).Child(res.repo.Name)
		for _, issue := range res.result.Issues {
			issueNode := repoNode.Child(issue.URL)
			issueNode.Metrics = issue.Metrics
		}
	}

	now := c.now()
	var rows []Row
	var points []Point

	for _, org := range sortedKeys(tree.Children) {
		orgNode := tree.Children[org]
		for _, repo := range sortedKeys(orgNode.Children) {
			repoNode := orgNode.Children[repo]
			Aggregate(repoNode)
			rows = append(rows, Flatten(Repo{Org: org, Name: repo}.URL(), repoNode, now))
			points = append(points, ExtractSeries(repoNode, org, repo, c.targets, now)...)
		}
	}

	// Phase 3: publish. Sink failures are reported, not fatal.
	if err := c.rows.PublishRows(ctx, w.Period, rows); err != nil {
		logger.Error().Err(err).Msg("Failed to publish report rows")
	}
	if err := c.points.PublishPoints(ctx, points); err != nil {
		logger.Error().Err(err).Msg("Failed to publish series points")
	}

	logger.Info().
		Int("rows", len(rows)).
		Int("points", len(points)).
		Int("untagged", len(untagged)).
		Msg("Metrics run complete")

	return nil
}

type repoOutcome struct {
	repo   Repo
	result *RepoResult
}

// collect runs the deriver for every repository, bounded by the worker
// limit. Results come back in the input repository order with failed
// repositories omitted.
func (c *Collector) collect(ctx context.Context, repos []Repo, w Window, logger zerolog.Logger) ([]repoOutcome, []string) {
	outcomes := make([]*RepoResult, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, repo := range repos {
		g.Go(func() error {
			issues, err := c.source.FetchIssues(ctx, repo.Org, repo.Name)
			if err != nil {
				logger.Error().Err(err).Str("repo", repo.URL()).Msg("Failed to fetch issues, skipping repository")
				return nil
			}

			result, err := c.deriver.DeriveRepo(issues, w)
			if err != nil {
				logger.Error().Err(err).Str("repo", repo.URL()).Msg("Failed to derive metrics, skipping repository")
				return nil
			}

			outcomes[i] = result
			return nil
		})
	}
	_ = g.Wait()

	var results []repoOutcome
	var untagged []string
	for i, result := range outcomes {
		if result == nil {
			continue
		}
		results = append(results, repoOutcome{repo: repos[i], result: result})
		untagged = append(untagged, result.Untagged...)
	}

	return results, untagged
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
