// Package ridge solves L2-penalized linear regressions. The fit minimizes
// the squared residual plus lambda times the squared coefficient norm,
//  ||y - X*β||^2 + λ ||β||^2
// over the rows of X selected by an index list.
//
// Convention: the predictors are used as given, with no internal rescaling
// to unit variance, and the penalty applies directly to the squared singular
// values of the selected design. Callers that want per-predictor centering
// (the usual case for voxel features) must center before fitting; the target
// is centered internally and its mean is returned as the intercept. Reported
// lambda values are only meaningful relative to this convention.
package ridge

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrFactorize is returned when the SVD of the design matrix fails to
	// converge. This is the hard-failure tier: no coefficients are produced.
	ErrFactorize = errors.New("ridge: SVD factorization failed")

	errLen = errors.New("ridge: length mismatch")
)

// Coeffs fits a ridge regression of fs on the rows of xs selected by inds.
// A nil inds uses every row. The returned beta has one coefficient per
// column of xs, and icept is the mean of the selected targets.
//
// The solve goes through the thin SVD of the selected design,
//  β = V · diag(s_i / (s_i² + λ)) · Uᵀ · (y - ȳ),
// which stays finite for any λ > 0 even when there are more predictors than
// selected rows. λ near zero on a rank-deficient design degrades toward the
// minimum-norm least-squares solution rather than erroring.
func Coeffs(xs mat.Matrix, fs []float64, inds []int, lambda float64) (beta []float64, icept float64, err error) {
	nRows, nCols := xs.Dims()
	if len(fs) < nRows {
		return nil, 0, errLen
	}
	if inds == nil {
		inds = make([]int, nRows)
		for i := range inds {
			inds[i] = i
		}
	}
	if len(inds) == 0 {
		return nil, 0, errors.New("ridge: no rows selected")
	}

	a := mat.NewDense(len(inds), nCols, nil)
	row := make([]float64, nCols)
	y := make([]float64, len(inds))
	for i, idx := range inds {
		mat.Row(row, idx, xs)
		a.SetRow(i, row)
		y[i] = fs[idx]
	}

	icept = floats.Sum(y) / float64(len(y))
	floats.AddConst(-icept, y)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, ErrFactorize
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// Uᵀ(y - ȳ), then shrink each component by s/(s²+λ).
	var uty mat.VecDense
	uty.MulVec(u.T(), mat.NewVecDense(len(y), y))
	shrunk := make([]float64, len(s))
	for i, si := range s {
		shrunk[i] = si / (si*si + lambda) * uty.AtVec(i)
	}

	beta = make([]float64, nCols)
	betaVec := mat.NewVecDense(len(beta), beta)
	betaVec.MulVec(&v, mat.NewVecDense(len(shrunk), shrunk))
	return beta, icept, nil
}

// Predict evaluates the fit at the rows of xs selected by inds. A nil inds
// evaluates every row.
func Predict(xs mat.Matrix, inds []int, beta []float64, icept float64) []float64 {
	nRows, nCols := xs.Dims()
	if len(beta) != nCols {
		panic("ridge: coefficient length mismatch")
	}
	if inds == nil {
		inds = make([]int, nRows)
		for i := range inds {
			inds[i] = i
		}
	}
	preds := make([]float64, len(inds))
	row := make([]float64, nCols)
	for i, idx := range inds {
		mat.Row(row, idx, xs)
		preds[i] = floats.Dot(row, beta) + icept
	}
	return preds
}

// Norm returns the L2 norm of the coefficient vector. Exposed for shrinkage
// diagnostics.
func Norm(beta []float64) float64 {
	var ss float64
	for _, b := range beta {
		ss += b * b
	}
	return math.Sqrt(ss)
}
