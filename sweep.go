package ridgecv

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/seb0305/ridgecv/ridge"
)

// Center subtracts the per-column mean from x in place, so that every voxel
// predictor has mean zero across trials. Training and testing matrices are
// centered independently of each other.
func Center(x *mat.Dense) {
	r, c := x.Dims()
	if r == 0 {
		return
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		floats.AddConst(-floats.Sum(col)/float64(r), col)
		x.SetCol(j, col)
	}
}

// SelectLambda runs the inner penalty-selection loop on one outer training
// set. x holds the centered training features (rows are trials, columns are
// voxels) and y the aligned targets. For every penalty in grid and every
// interleaved inner partition of the scheme, a ridge fit on the inner
// training rows is scored by Spearman correlation on the held-out rows.
//
// The returned matrix rAll holds the full correlation surface, one row per
// grid value and one column per partition. The selected penalty is the mean
// of the per-partition best grid values: each partition picks the penalty
// maximizing its own correlation, and the selected values (not their grid
// positions) are averaged. Partitions whose entire column is NaN contribute
// NaN to the mean, so a fully degenerate unit selects NaN.
//
// Degenerate correlations (constant predictions or targets) are recorded as
// NaN cells and skipped by the per-partition argmax; a failed solve is a
// hard error.
func SelectLambda(x mat.Matrix, y []float64, grid []float64, scheme Scheme) (lambda float64, rAll *mat.Dense, err error) {
	n, _ := x.Dims()
	if len(y) != n {
		panic(errLen)
	}
	if len(grid) == 0 {
		panic(errEmpty)
	}
	k := scheme.Partitions
	if k < 2 || k > n {
		panic("ridgecv: scheme partition count out of range")
	}

	rAll = mat.NewDense(len(grid), k, nil)
	truth := make([]float64, 0, n/k+1)
	for p := 0; p < k; p++ {
		innerTrain, innerTest := InterleavedPartition(n, k, p)
		truth = truth[:0]
		for _, idx := range innerTest {
			truth = append(truth, y[idx])
		}
		for li, l := range grid {
			beta, icept, err := ridge.Coeffs(x, y, innerTrain, l)
			if err != nil {
				return math.NaN(), rAll, err
			}
			preds := ridge.Predict(x, innerTest, beta, icept)
			rAll.Set(li, p, Spearman(preds, truth))
		}
	}
	return bestLambda(rAll, grid), rAll, nil
}

// bestLambda applies the selection policy to a grid-by-partition correlation
// matrix: an independent argmax per partition, then the arithmetic mean of
// the winning grid values. NaN cells are skipped; an all-NaN column yields
// a NaN selection.
func bestLambda(rAll *mat.Dense, grid []float64) float64 {
	nGrid, k := rAll.Dims()
	var sum float64
	for p := 0; p < k; p++ {
		best := -1
		for li := 0; li < nGrid; li++ {
			v := rAll.At(li, p)
			if math.IsNaN(v) {
				continue
			}
			if best < 0 || v > rAll.At(best, p) {
				best = li
			}
		}
		if best < 0 {
			return math.NaN()
		}
		sum += grid[best]
	}
	return sum / float64(k)
}

// Evaluate refits the ridge regression on the full outer training set at the
// selected penalty and scores the prediction on the outer testing set by
// Spearman correlation. Both matrices must already be centered. A NaN
// lambda (no usable inner selection) propagates as a NaN correlation.
func Evaluate(xTrain, xTest mat.Matrix, yTrain, yTest []float64, lambda float64) (rho float64, err error) {
	nTrain, _ := xTrain.Dims()
	nTest, _ := xTest.Dims()
	if len(yTrain) != nTrain || len(yTest) != nTest {
		panic(errLen)
	}
	if math.IsNaN(lambda) {
		return math.NaN(), nil
	}
	beta, icept, err := ridge.Coeffs(xTrain, yTrain, nil, lambda)
	if err != nil {
		return math.NaN(), err
	}
	preds := ridge.Predict(xTest, nil, beta, icept)
	return Spearman(preds, yTest), nil
}

// FoldResult is the output of one (condition, region, outer fold, scheme)
// unit: the penalty selected by the inner loop and the held-out correlation
// achieved with it.
type FoldResult struct {
	Lambda float64
	Rho    float64
}

// SweepFold runs the full nested procedure for one unit. The feature
// matrices are centered in place, the inner loop selects a penalty on the
// training set, and the outer refit is scored on the testing set.
func SweepFold(xTrain, xTest *mat.Dense, yTrain, yTest []float64, grid []float64, scheme Scheme) (FoldResult, error) {
	Center(xTrain)
	Center(xTest)
	lambda, _, err := SelectLambda(xTrain, yTrain, grid, scheme)
	if err != nil {
		return FoldResult{Lambda: math.NaN(), Rho: math.NaN()}, err
	}
	rho, err := Evaluate(xTrain, xTest, yTrain, yTest, lambda)
	return FoldResult{Lambda: lambda, Rho: rho}, err
}
