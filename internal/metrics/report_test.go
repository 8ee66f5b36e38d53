package metrics

import (
	"testing"
	"time"
)

func aggregatedNode() *Node {
	node := NewTree().Child("twilio").Child("twilio-node")
	node.Metrics["time_to_contact"] = &Aggregated{
		Values: []float64{1, 3}, Count: 2, Min: 1, Max: 3, Mean: 2, Median: 2,
	}
	return node
}

func TestFlatten(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	row := Flatten("https://github.com/twilio/twilio-node", aggregatedNode(), now)

	if row.Name != "https://github.com/twilio/twilio-node" {
		t.Errorf("Name = %q", row.Name)
	}
	if row.Date != "2026-08-31" {
		t.Errorf("Date = %q, want 2026-08-31", row.Date)
	}

	want := map[string]float64{
		"time_to_contact_count":  2,
		"time_to_contact_min":    1,
		"time_to_contact_max":    3,
		"time_to_contact_mean":   2,
		"time_to_contact_median": 2,
	}
	for field, expected := range want {
		if got, ok := row.Fields[field]; !ok || got != expected {
			t.Errorf("Fields[%q] = %v (present=%v), want %v", field, got, ok, expected)
		}
	}

	if _, ok := row.Fields["time_to_contact_values"]; ok {
		t.Error("raw values leaked into the flat record")
	}
	if len(row.Fields) != len(want) {
		t.Errorf("Fields has %d entries, want %d", len(row.Fields), len(want))
	}
}

func TestExtractSeries(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	node := aggregatedNode()

	targets := []SeriesTarget{
		{"time_to_contact", "mean"},
		{"issue_count", "count"}, // absent on this repo: logged, skipped
	}

	points := ExtractSeries(node, "twilio", "twilio-node", targets, now)

	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}

	p := points[0]
	if p.Metric != "library.time_to_contact.mean" {
		t.Errorf("Metric = %q, want library.time_to_contact.mean", p.Metric)
	}
	if p.Type != "gauge" {
		t.Errorf("Type = %q, want gauge", p.Type)
	}
	if p.Value != 2 {
		t.Errorf("Value = %v, want 2", p.Value)
	}
	if !p.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", p.Timestamp, now)
	}

	wantTags := []string{"org:twilio", "repo:twilio/twilio-node", "type:helper"}
	if len(p.Tags) != len(wantTags) {
		t.Fatalf("Tags = %v, want %v", p.Tags, wantTags)
	}
	for i, tag := range wantTags {
		if p.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, p.Tags[i], tag)
		}
	}
}
