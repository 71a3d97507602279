package analytics

import "math"

// welford keeps a running mean and variance without storing observations.
type welford struct {
	count int
	mean  float64
	m2    float64
}

func (w *welford) update(v float64) {
	w.count++
	delta := v - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (v - w.mean)
}

// stdDev is the population standard deviation; 0 with fewer than 2 observations.
func (w *welford) stdDev() float64 {
	if w.count < 2 {
		return 0
	}
	return math.Sqrt(w.m2 / float64(w.count))
}

// coefficientOfVariation is stdDev/mean, 0 when the mean is 0.
func (w *welford) coefficientOfVariation() float64 {
	if w.mean == 0 {
		return 0
	}
	return w.stdDev() / w.mean
}
