package github

import (
	gh "github.com/google/go-github/v69/github"
)

// mapTimelineEvent transforms a GitHub timeline DTO into a domain event.
// Event types outside the lifecycle vocabulary (assignments, milestones,
// renames, cross-references) are dropped.
func mapTimelineEvent(item *gh.Timeline) (TimelineEvent, bool) {
	kind := EventKind(item.GetEvent())

	switch kind {
	case EventLabeled, EventUnlabeled, EventComment, EventClosed,
		EventReopened, EventCommit, EventReview, EventMerged:
	default:
		return TimelineEvent{}, false
	}

	ev := TimelineEvent{
		Kind:      kind,
		CreatedAt: item.GetCreatedAt().Time,
		Actor:     item.GetActor().GetLogin(),
	}

	if ev.Actor == "" {
		ev.Actor = item.GetUser().GetLogin()
	}

	switch kind {
	case EventLabeled, EventUnlabeled:
		ev.Label = item.GetLabel().GetName()
	case EventReview:
		ev.ReviewState = item.GetState()
	case EventCommit:
		// Commit entries carry no event timestamp of their own.
		ev.CommittedAt = item.GetAuthor().GetDate().Time
		if ev.Actor == "" {
			ev.Actor = item.GetAuthor().GetName()
		}
	}

	if ev.Timestamp().IsZero() {
		return TimelineEvent{}, false
	}

	return ev, true
}
