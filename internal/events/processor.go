package events

import (
	"strings"
	"time"

	"dx-metrics/internal/github"
	"dx-metrics/internal/metrics"
)

// Label namespaces carrying issue classification.
const (
	typeLabelPrefix   = "type: "
	statusLabelPrefix = "status: "

	// waitingRelease marks a fix that has landed but not shipped; the
	// gap between this label and the close is the awaiting-resolution
	// time.
	waitingRelease = "waiting for release"
)

// Processor turns a raw issue timeline into an IssueRecord with base
// metrics. Deterministic given the same issue and window: events after
// the window end are ignored.
type Processor struct {
	admins map[string]bool
}

// NewProcessor builds an event processor. Comments and reviews from the
// given logins count as administrative responses.
func NewProcessor(admins []string) *Processor {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		set[a] = true
	}
	return &Processor{admins: set}
}

// Process replays the issue's timeline and derives its classification and
// base metric observations, all measured in days.
func (p *Processor) Process(issue github.Issue, w metrics.Window) (*metrics.IssueRecord, error) {
	rec := &metrics.IssueRecord{
		URL:       issue.URL,
		Author:    issue.Author,
		CreatedAt: issue.CreatedAt,
		Metrics:   make(map[string]metrics.Value),
	}

	suffix := ""
	if issue.IsPullRequest() {
		suffix = "_pr"
	}

	labels := make(map[string]bool)

	var (
		closedAt         time.Time
		firstContactAt   time.Time
		awaitingReplyAt  time.Time
		waitingReleaseAt time.Time
		respondGaps      []float64
	)

	for _, ev := range issue.Timeline {
		ts := ev.Timestamp()
		if ts.After(w.End) {
			break
		}
		rec.Events = append(rec.Events, ev)

		switch ev.Kind {
		case github.EventLabeled:
			labels[strings.ToLower(ev.Label)] = true
			if strings.EqualFold(ev.Label, statusLabelPrefix+waitingRelease) && waitingReleaseAt.IsZero() {
				waitingReleaseAt = ts
			}

		case github.EventUnlabeled:
			delete(labels, strings.ToLower(ev.Label))

		case github.EventComment, github.EventReview:
			if p.admins[ev.Actor] {
				if firstContactAt.IsZero() {
					firstContactAt = ts
				}
				if !awaitingReplyAt.IsZero() {
					respondGaps = append(respondGaps, metrics.DeltaDays(awaitingReplyAt, ts))
					awaitingReplyAt = time.Time{}
				}
			} else if ev.Actor == issue.Author && !firstContactAt.IsZero() && awaitingReplyAt.IsZero() {
				// Author follow-up after first contact starts the
				// response clock.
				awaitingReplyAt = ts
			}

		case github.EventClosed, github.EventMerged:
			rec.Closed = true
			closedAt = ts

		case github.EventReopened:
			rec.Closed = false
			closedAt = time.Time{}
		}
	}

	rec.Category = categoryFromLabels(labels)
	rec.Status = statusFromLabels(labels)
	rec.FirstAdminComment = !firstContactAt.IsZero()

	if rec.FirstAdminComment {
		rec.Metrics["time_to_contact"+suffix] = metrics.List{metrics.DeltaDays(issue.CreatedAt, firstContactAt)}
	}
	if len(respondGaps) > 0 {
		rec.Metrics["time_to_respond"+suffix] = metrics.List(respondGaps)
	}
	if rec.Closed && !closedAt.IsZero() {
		rec.Metrics["time_to_close"+suffix] = metrics.List{metrics.DeltaDays(issue.CreatedAt, closedAt)}

		if !waitingReleaseAt.IsZero() && waitingReleaseAt.Before(closedAt) {
			rec.Metrics["time_awaiting_resolution"] = metrics.List{metrics.DeltaDays(waitingReleaseAt, closedAt)}
		}
	}

	return rec, nil
}

// categoryFromLabels picks the issue's classification from its currently
// applied type labels. Multi-word categories become metric-id safe.
func categoryFromLabels(labels map[string]bool) string {
	var category string
	for label := range labels {
		if !strings.HasPrefix(label, typeLabelPrefix) {
			continue
		}
		name := strings.TrimPrefix(label, typeLabelPrefix)
		if category == "" || name < category {
			category = name
		}
	}
	return strings.ReplaceAll(category, " ", "_")
}

// statusFromLabels surfaces the non-substantive outcomes the deriver
// gates on.
func statusFromLabels(labels map[string]bool) string {
	for _, status := range []string{"duplicate", "invalid"} {
		if labels[statusLabelPrefix+status] {
			return status
		}
	}
	return ""
}
