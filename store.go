package ridgecv

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// FoldFeatures holds the voxel features of one (subject, region, outer fold)
// unit. Rows are trials and columns are the region's voxels; the train and
// test matrices share the same voxel column set. The trial index slices give
// the position of each row in the global target vector. The matrices are
// owned by the caller, which centers them in place.
type FoldFeatures struct {
	Train, Test *mat.Dense
	TrainTrials []int
	TestTrials  []int
}

// A FeatureStore produces the per-fold feature partitions for a subject and
// region. A missing or malformed source is a hard error that aborts the
// subject's pass.
type FeatureStore interface {
	FoldFeatures(ctx context.Context, subject string, roi, fold int) (*FoldFeatures, error)
}

// A TargetProvider returns the target vector for a decoding condition: one
// scalar per trial, shared across all regions and folds.
type TargetProvider interface {
	Targets(ctx context.Context, cond Condition) ([]float64, error)
}

// A ResultSink persists one subject's populated result accumulator. The
// accumulator is released after a successful persist.
type ResultSink interface {
	Persist(ctx context.Context, subject string, res *Results) error
}
