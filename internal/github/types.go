package github

import "time"

// EventKind identifies a timeline event type.
type EventKind string

const (
	EventLabeled   EventKind = "labeled"
	EventUnlabeled EventKind = "unlabeled"
	EventComment   EventKind = "commented"
	EventClosed    EventKind = "closed"
	EventReopened  EventKind = "reopened"
	EventCommit    EventKind = "committed"
	EventReview    EventKind = "reviewed"
	EventMerged    EventKind = "merged"
)

// TimelineEvent is a single entry in an issue's chronological history.
// CreatedAt may be zero for commit events; CommittedAt then carries the
// authoritative timestamp.
type TimelineEvent struct {
	Kind        EventKind
	CreatedAt   time.Time
	Actor       string
	Label       string
	ReviewState string
	CommittedAt time.Time
}

// Timestamp returns the best available timestamp for the event.
func (e TimelineEvent) Timestamp() time.Time {
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt
	}
	return e.CommittedAt
}

// Issue is the raw issue or pull request as fetched from the source,
// before any event processing.
type Issue struct {
	URL       string
	Author    string
	CreatedAt time.Time
	Timeline  []TimelineEvent
}

// IsPullRequest classifies an item by its URL shape.
func (i Issue) IsPullRequest() bool {
	return IsPullURL(i.URL)
}
