package events

import (
	"testing"

	"dx-metrics/internal/github"
	"dx-metrics/internal/metrics"
)

// Exercises the full processing path: raw timelines through the event
// processor, the deriver, and repository aggregation.
func TestProcessorThroughAggregation(t *testing.T) {
	w := testWindow()

	tagged := github.Issue{
		URL:       "https://github.com/o/r/issues/1",
		Author:    "alice",
		CreatedAt: day(0),
		Timeline: []github.TimelineEvent{
			labeled("type: bug", day(0)),
			comment("admin-a", day(1)),
			{Kind: github.EventClosed, CreatedAt: day(5)},
		},
	}
	untagged := github.Issue{
		URL:       "https://github.com/o/r/issues/2",
		Author:    "bob",
		CreatedAt: day(0),
		Timeline: []github.TimelineEvent{
			comment("admin-a", day(2)),
			{Kind: github.EventClosed, CreatedAt: day(6)},
		},
	}
	adminAuthored := github.Issue{
		URL:       "https://github.com/o/r/issues/3",
		Author:    "admin-a",
		CreatedAt: day(0),
	}

	deriver := metrics.NewDeriver(NewProcessor(admins), admins)
	result, err := deriver.DeriveRepo([]github.Issue{tagged, untagged, adminAuthored}, w)
	if err != nil {
		t.Fatalf("DeriveRepo() error = %v", err)
	}

	if len(result.Issues) != 2 {
		t.Fatalf("admitted %d issues, want 2 (admin-authored excluded)", len(result.Issues))
	}
	if len(result.Untagged) != 1 || result.Untagged[0] != untagged.URL {
		t.Errorf("Untagged = %v, want [%s]", result.Untagged, untagged.URL)
	}

	repo := metrics.NewTree().Child("o").Child("r")
	for _, issue := range result.Issues {
		repo.Child(issue.URL).Metrics = issue.Metrics
	}
	metrics.Aggregate(repo)

	closeBug, ok := repo.Metrics["time_to_close_bug"].(*metrics.Aggregated)
	if !ok {
		t.Fatal("time_to_close_bug not aggregated on repo node")
	}
	if closeBug.Count != 1 || closeBug.Min != 5 {
		t.Errorf("time_to_close_bug = {count:%d min:%v}, want {1 5}", closeBug.Count, closeBug.Min)
	}

	resolve, ok := repo.Metrics["time_to_resolve"].(*metrics.Aggregated)
	if !ok {
		t.Fatal("time_to_resolve not aggregated on repo node")
	}
	// Tagged: contact 1 + close 5; untagged: contact 2 + close 6.
	if resolve.Count != 2 || resolve.Min != 6 || resolve.Max != 8 {
		t.Errorf("time_to_resolve = {count:%d min:%v max:%v}, want {2 6 8}",
			resolve.Count, resolve.Min, resolve.Max)
	}
}
