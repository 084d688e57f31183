// Package store provides in-memory and file-backed implementations of the
// ridgecv data collaborators: feature stores, target providers, and result
// sinks. The on-disk formats of the original feature sources are out of
// scope; these implementations serve tests, examples, and callers that have
// already materialized their data.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emer/etable/v2/etable"
	"gonum.org/v1/gonum/mat"

	"github.com/seb0305/ridgecv"
)

// MemoryStore is a FeatureStore and TargetProvider over materialized data.
// Feature matrices are copied on every load, so callers may center and
// discard them freely, and repeated loads of the same unit are identical.
type MemoryStore struct {
	// Folds maps subject -> [region][outer fold] feature partitions.
	Folds map[string][][]*ridgecv.FoldFeatures
	// Targets maps condition -> per-trial target vector.
	TargetVecs map[ridgecv.Condition][]float64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Folds:      make(map[string][][]*ridgecv.FoldFeatures),
		TargetVecs: make(map[ridgecv.Condition][]float64),
	}
}

// FoldFeatures implements ridgecv.FeatureStore.
func (m *MemoryStore) FoldFeatures(ctx context.Context, subject string, roi, fold int) (*ridgecv.FoldFeatures, error) {
	rois, ok := m.Folds[subject]
	if !ok {
		return nil, fmt.Errorf("store: no features for subject %q", subject)
	}
	if roi < 0 || roi >= len(rois) {
		return nil, fmt.Errorf("store: subject %q has no region %d", subject, roi)
	}
	folds := rois[roi]
	if fold < 0 || fold >= len(folds) {
		return nil, fmt.Errorf("store: subject %q region %d has no fold %d", subject, roi, fold)
	}
	src := folds[fold]
	cp := &ridgecv.FoldFeatures{
		Train:       mat.DenseCopyOf(src.Train),
		Test:        mat.DenseCopyOf(src.Test),
		TrainTrials: append([]int(nil), src.TrainTrials...),
		TestTrials:  append([]int(nil), src.TestTrials...),
	}
	return cp, nil
}

// Targets implements ridgecv.TargetProvider.
func (m *MemoryStore) Targets(ctx context.Context, cond ridgecv.Condition) ([]float64, error) {
	y, ok := m.TargetVecs[cond]
	if !ok {
		return nil, fmt.Errorf("store: no targets for condition %v", cond)
	}
	return append([]float64(nil), y...), nil
}

// CSVSink persists each subject's result summary as a tab-separated file
// named <subject>_results.tsv under Dir.
type CSVSink struct {
	Dir string
}

// Persist implements ridgecv.ResultSink.
func (c CSVSink) Persist(ctx context.Context, subject string, res *ridgecv.Results) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("store: creating result dir: %w", err)
	}
	path := filepath.Join(c.Dir, subject+"_results.tsv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: creating result file: %w", err)
	}
	defer f.Close()
	if err := res.Summary().WriteCSV(f, etable.Tab, etable.Headers); err != nil {
		return fmt.Errorf("store: writing results for %s: %w", subject, err)
	}
	return nil
}
