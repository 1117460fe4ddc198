package measurement

import (
	"math"
)

func Mean(readings []Reading) map[Type]float64 {
	sums := make(map[Type]float64)
	counts := make(map[Type]int)
	for _, r := range readings {
		for t, v := range r.ValueMap() {
			sums[t] += v
			counts[t]++
		}
	}

	means := make(map[Type]float64)
	for t, v := range sums {
		means[t] = v / float64(counts[t])
	}

	return means
}

// StdDev is the population standard deviation of each type.
func StdDev(readings []Reading) map[Type]float64 {
	avg := Mean(readings)

	sums := make(map[Type]float64)
	counts := make(map[Type]int)
	for _, r := range readings {
		for t, v := range r.ValueMap() {
			sums[t] += math.Pow(v-avg[t], 2)
			counts[t]++
		}
	}

	devs := make(map[Type]float64)
	for t, v := range sums {
		devs[t] = math.Sqrt(v / float64(counts[t]))
	}

	return devs
}

func Min(readings []Reading) map[Type]float64 {
	x := make(map[Type]float64)
	for _, r := range readings {
		for t, v := range r.ValueMap() {
			if cur, ok := x[t]; !ok || v < cur {
				x[t] = v
			}
		}
	}

	return x
}

func Max(readings []Reading) map[Type]float64 {
	x := make(map[Type]float64)
	for _, r := range readings {
		for t, v := range r.ValueMap() {
			if cur, ok := x[t]; !ok || v > cur {
				x[t] = v
			}
		}
	}

	return x
}

// Values returns the values of type t in reading order, skipping readings without one.
func Values(readings []Reading, t Type) []float64 {
	var vals []float64
	for _, r := range readings {
		if v, ok := r.Value(t); ok {
			vals = append(vals, v)
		}
	}
	return vals
}
