package metrics

import "testing"

func TestMedianSorted(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"SingleItem", []float64{5.5}, 5.5},
		{"OddCount", []float64{1, 2, 3, 4, 5}, 3},
		{"EvenCount", []float64{1, 2, 3, 4}, 2.5},
		{"TwoItems", []float64{1, 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := medianSorted(tt.values); got != tt.expected {
				t.Errorf("medianSorted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"SingleItem", []float64{4}, 4},
		{"Uniform", []float64{2, 2, 2}, 2},
		{"Mixed", []float64{1, 2, 3, 4}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mean(tt.values); got != tt.expected {
				t.Errorf("mean() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected float64
	}{
		{"Scalar", Scalar(3.5), 3.5},
		{"List", List{1, 2, 3}, 6},
		{"EmptyList", List(nil), 0},
		{"Aggregated", &Aggregated{Values: []float64{2, 4}}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sum(tt.value); got != tt.expected {
				t.Errorf("sum() = %v, want %v", got, tt.expected)
			}
		})
	}
}
