package ridgecv

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Spearman returns the Spearman rank correlation between x and y: the
// Pearson correlation of their rank transforms, with tied values assigned
// the mean of the ranks they span. If either argument has zero rank
// variance (all values identical) the correlation is undefined and NaN is
// returned, matching the soft-failure tier of the sweep.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) {
		panic(errLen)
	}
	if len(x) == 0 {
		panic(errEmpty)
	}
	rx := ranks(x)
	ry := ranks(y)
	return stat.Correlation(rx, ry, nil)
}

// ranks returns the 1-based fractional ranks of x, averaging over ties.
func ranks(x []float64) []float64 {
	n := len(x)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return x[order[i]] < x[order[j]] })

	r := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[order[j+1]] == x[order[i]] {
			j++
		}
		// Positions i..j hold a tie group; all get the mean rank.
		mean := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			r[order[k]] = mean
		}
		i = j + 1
	}
	return r
}
