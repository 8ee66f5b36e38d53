package metrics

import "slices"

// Aggregate computes a repository node's own metrics from its fully
// populated issue children. Aggregation is strictly one level: every
// observation for a metric id across all children is gathered into one
// sorted sequence and summarized. Metric ids with zero observations are
// absent from the result, never zero-filled.
func Aggregate(repo *Node) {
	gathered := make(map[string][]float64)

	for _, child := range repo.Children {
		for id, value := range child.Metrics {
			gathered[id] = append(gathered[id], value.Observations()...)
		}
	}

	for id, values := range gathered {
		if len(values) == 0 {
			continue
		}
		slices.Sort(values)
		repo.Metrics[id] = newAggregated(values)
	}
}

// newAggregated summarizes a sorted, non-empty observation sequence.
func newAggregated(sorted []float64) *Aggregated {
	return &Aggregated{
		Values: sorted,
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean(sorted),
		Median: medianSorted(sorted),
	}
}
