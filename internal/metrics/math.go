package metrics

// mean averages a non-empty slice.
func mean(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// medianSorted finds the median of an already-sorted slice.
func medianSorted(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2.0
}

// sum adds up every observation in a Value.
func sum(v Value) float64 {
	var total float64
	for _, obs := range v.Observations() {
		total += obs
	}
	return total
}
