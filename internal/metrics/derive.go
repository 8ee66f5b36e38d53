package metrics

import (
	"fmt"

	"dx-metrics/internal/github"
)

// IntegrityError reports a violation of the event processor's output
// contract: a metric the derivation depends on is missing. It aborts the
// affected repository rather than substituting zero.
type IntegrityError struct {
	URL string
	Key string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("issue %s: expected metric %q is missing", e.URL, e.Key)
}

// nonSubstantive lists issue statuses whose close time carries no signal.
var nonSubstantive = map[string]bool{
	"duplicate": true,
	"invalid":   true,
}

// Deriver applies the admission filter, runs the event processor, and
// derives composite per-issue metrics for one repository at a time.
type Deriver struct {
	processor Processor
	admins    map[string]bool
}

// NewDeriver builds a deriver. Issues authored by any of the admin logins
// are excluded as administrative noise.
func NewDeriver(processor Processor, admins []string) *Deriver {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		set[a] = true
	}
	return &Deriver{processor: processor, admins: set}
}

// RepoResult is one repository's derived issue metrics plus the issues
// that still need a manual category label.
type RepoResult struct {
	// Issues maps issue URL to its final metrics, in admission order.
	Issues []IssueMetrics

	// Untagged lists URLs of issues whose close or resolution time could
	// not be attributed to a category. Each URL appears at most once.
	Untagged []string
}

// IssueMetrics is one admitted issue's final metric set.
type IssueMetrics struct {
	URL     string
	Metrics map[string]Value
}

// DeriveRepo processes a repository's raw issue list against the window.
// A processing or integrity error aborts this repository only.
func (d *Deriver) DeriveRepo(issues []github.Issue, w Window) (*RepoResult, error) {
	result := &RepoResult{}
	untagged := make(map[string]bool)

	var issueCount, prCount int

	for _, raw := range issues {
		if !d.admitted(raw, w) {
			continue
		}

		rec, err := d.processor.Process(raw, w)
		if err != nil {
			return nil, fmt.Errorf("processing %s: %w", raw.URL, err)
		}

		final := rec.Metrics
		if rec.CreatedAt.Compare(w.Start) >= 0 {
			final, err = deriveWithinWindow(rec, func() {
				if !untagged[rec.URL] {
					untagged[rec.URL] = true
					result.Untagged = append(result.Untagged, rec.URL)
				}
			})
			if err != nil {
				return nil, err
			}
		}

		final = tagOpenItem(rec, final, w, &issueCount, &prCount)

		result.Issues = append(result.Issues, IssueMetrics{URL: rec.URL, Metrics: final})
	}

	return result, nil
}

// admitted applies the exclusion rules in order: admin author, created
// after the window end, created before the stale cutoff.
func (d *Deriver) admitted(issue github.Issue, w Window) bool {
	if d.admins[issue.Author] {
		return false
	}
	if issue.CreatedAt.After(w.End) {
		return false
	}
	if issue.CreatedAt.Before(w.StaleCutoff) {
		return false
	}
	return true
}

// deriveWithinWindow runs the full derivation pipeline for an issue
// created inside the reporting window. Each stage takes its input map as
// immutable and returns a fresh one.
func deriveWithinWindow(rec *IssueRecord, markUntagged func()) (map[string]Value, error) {
	m, err := composeResolveTime(rec, rec.Metrics)
	if err != nil {
		return nil, err
	}

	m = categorizeCloseTime(rec, m, markUntagged)
	m = categorizeAwaitingResolution(rec, m, markUntagged)
	m = prunePullCloseTime(rec, m)

	return m, nil
}

// composeResolveTime folds contact, response, and close times into a
// single time_to_resolve scalar for each metric family. Plain and
// pull-request resolve times share one key: resolve time is tracked
// repo-wide regardless of item kind.
func composeResolveTime(rec *IssueRecord, in map[string]Value) (map[string]Value, error) {
	out := cloneMetrics(in)

	for _, suffix := range []string{"", "_pr"} {
		closeTime, ok := in["time_to_close"+suffix]
		if !ok || !rec.FirstAdminComment {
			continue
		}

		contact, ok := in["time_to_contact"+suffix]
		if !ok {
			return nil, &IntegrityError{URL: rec.URL, Key: "time_to_contact" + suffix}
		}

		// A missing response time legitimately means no observations.
		respond, ok := in["time_to_respond"+suffix]
		if !ok {
			respond = List(nil)
		}

		out["time_to_resolve"] = Scalar(sum(contact) + sum(respond) + sum(closeTime))
	}

	return out, nil
}

// categorizeCloseTime re-keys an issue's close time under its category.
// Close times for non-substantive outcomes, or issues never contacted by
// an admin, are dropped. A known-substantive close with no category marks
// the issue untagged.
func categorizeCloseTime(rec *IssueRecord, in map[string]Value, markUntagged func()) map[string]Value {
	closeTime, ok := in["time_to_close"]
	if !ok {
		return in
	}

	out := cloneMetrics(in)
	delete(out, "time_to_close")

	if !nonSubstantive[rec.Status] && rec.FirstAdminComment {
		if rec.Category != "" {
			out["time_to_close_"+rec.Category] = closeTime
		} else {
			markUntagged()
		}
	}

	return out
}

// categorizeAwaitingResolution re-keys awaiting-resolution time under the
// issue's category, or marks the issue untagged.
func categorizeAwaitingResolution(rec *IssueRecord, in map[string]Value, markUntagged func()) map[string]Value {
	awaiting, ok := in["time_awaiting_resolution"]
	if !ok {
		return in
	}

	out := cloneMetrics(in)
	delete(out, "time_awaiting_resolution")

	if rec.Category != "" {
		out["time_awaiting_resolution_"+rec.Category] = awaiting
	} else {
		markUntagged()
	}

	return out
}

// prunePullCloseTime drops a pull request's close time when no admin ever
// responded; the metric is meaningless without an administrative response.
func prunePullCloseTime(rec *IssueRecord, in map[string]Value) map[string]Value {
	if rec.FirstAdminComment {
		return in
	}
	if _, ok := in["time_to_close_pr"]; !ok {
		return in
	}

	out := cloneMetrics(in)
	delete(out, "time_to_close_pr")
	return out
}

// tagOpenItem records open-item metrics for every admitted issue that is
// still open and has seen activity since the stale cutoff. The running
// counters are meaningful only through the aggregated count statistic.
func tagOpenItem(rec *IssueRecord, in map[string]Value, w Window, issueCount, prCount *int) map[string]Value {
	lastUpdate := rec.CreatedAt
	if n := len(rec.Events); n > 0 {
		lastUpdate = rec.Events[n-1].Timestamp()
	}

	if rec.Closed || !lastUpdate.After(w.StaleCutoff) {
		return in
	}

	out := cloneMetrics(in)
	timeOpen := Scalar(DeltaDays(rec.CreatedAt, w.End))

	if github.IsPullURL(rec.URL) {
		*prCount++
		out["pr_count"] = Scalar(*prCount)
		out["time_open_pr"] = timeOpen
	} else {
		*issueCount++
		out["issue_count"] = Scalar(*issueCount)
		out["time_open_issue"] = timeOpen
	}

	return out
}

func cloneMetrics(in map[string]Value) map[string]Value {
	out := make(map[string]Value, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
