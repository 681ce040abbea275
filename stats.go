package bikeshare

import (
	"cmp"
	"sort"
)

// A distinct value and the number of times it occurs.
type Count[T cmp.Ordered] struct {
	Value T
	N     int
}

// Most frequent value. Ties go to the smallest of the tied values.
// Returns false if values is empty.
func Mode[T cmp.Ordered](values []T) (T, bool) {
	return ModeFunc(values, cmp.Less[T])
}

// Most frequent value. Ties go to the tied value ordered first by
// less. Returns false if values is empty.
func ModeFunc[T comparable](values []T, less func(a, b T) bool) (T, bool) {
	var mode T
	if len(values) == 0 {
		return mode, false
	}

	counts := map[T]int{}
	for _, v := range values {
		counts[v]++
	}

	best := -1
	for v, n := range counts {
		if n > best || (n == best && less(v, mode)) {
			mode = v
			best = n
		}
	}

	return mode, true
}

// Number of occurrences of each distinct value, most frequent first.
// Equally frequent values are ordered ascending.
func ValueCounts[T cmp.Ordered](values []T) []Count[T] {
	counts := map[T]int{}
	for _, v := range values {
		counts[v]++
	}

	result := make([]Count[T], 0, len(counts))
	for v, n := range counts {
		result = append(result, Count[T]{Value: v, N: n})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].N != result[j].N {
			return result[i].N > result[j].N
		}
		return result[i].Value < result[j].Value
	})

	return result
}

func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Arithmetic mean. Returns false if values is empty.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// Smallest and largest value. Returns false if values is empty.
func MinMax(values []float64) (float64, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}
