package metrics

import "testing"

func TestNodeChild(t *testing.T) {
	tree := NewTree()

	org := tree.Child("twilio")
	if org.Level != LevelOrg {
		t.Errorf("org level = %v, want %v", org.Level, LevelOrg)
	}

	repo := org.Child("twilio-node")
	if repo.Level != LevelRepo {
		t.Errorf("repo level = %v, want %v", repo.Level, LevelRepo)
	}

	issue := repo.Child("https://github.com/twilio/twilio-node/issues/1")
	if issue.Level != LevelIssue {
		t.Errorf("issue level = %v, want %v", issue.Level, LevelIssue)
	}

	// Re-fetching returns the same node, not a fresh one.
	issue.Metrics["time_to_close"] = Scalar(5)
	again := repo.Child("https://github.com/twilio/twilio-node/issues/1")
	if _, ok := again.Metrics["time_to_close"]; !ok {
		t.Error("Child() created a new node instead of returning the existing one")
	}
}

func TestNodeLookupDoesNotInsert(t *testing.T) {
	tree := NewTree()

	if _, ok := tree.Lookup("missing"); ok {
		t.Error("Lookup() found a child that was never inserted")
	}
	if len(tree.Children) != 0 {
		t.Errorf("Lookup() inserted a child: %d children", len(tree.Children))
	}
}

func TestAggregatedStat(t *testing.T) {
	agg := &Aggregated{Values: []float64{1, 3}, Count: 2, Min: 1, Max: 3, Mean: 2, Median: 2}

	tests := []struct {
		stat     string
		expected float64
		ok       bool
	}{
		{"count", 2, true},
		{"min", 1, true},
		{"max", 3, true},
		{"mean", 2, true},
		{"median", 2, true},
		{"values", 0, false},
		{"p99", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.stat, func(t *testing.T) {
			got, ok := agg.Stat(tt.stat)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("Stat(%q) = (%v, %v), want (%v, %v)", tt.stat, got, ok, tt.expected, tt.ok)
			}
		})
	}
}
