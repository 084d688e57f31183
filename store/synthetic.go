package store

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/seb0305/ridgecv"
)

// SyntheticConfig controls the generated dataset. The zero value is not
// usable; Synthetic fills unset counts with the defaults below.
type SyntheticConfig struct {
	Subjects []string
	NumROI   int // default 10
	NumFolds int // default 3
	Trials   int // default 137
	Voxels   int // default 40
	// Signal scales the contribution of the target to the first voxel of
	// each region. Default 2.
	Signal float64
	// Noise is the standard deviation of the Gaussian noise added to every
	// voxel. Default 0.5.
	Noise float64
	Seed  uint64
}

// Synthetic builds a deterministic in-memory dataset carrying a planted
// linear relationship between the targets and the first voxel of every
// region. Outer folds interleave the trial axis, mirroring the fixed
// predefined splits of real runs. The same config always generates the same
// data.
func Synthetic(cfg SyntheticConfig) *MemoryStore {
	if cfg.NumROI == 0 {
		cfg.NumROI = 10
	}
	if cfg.NumFolds == 0 {
		cfg.NumFolds = 3
	}
	if cfg.Trials == 0 {
		cfg.Trials = 137
	}
	if cfg.Voxels == 0 {
		cfg.Voxels = 40
	}
	if cfg.Signal == 0 {
		cfg.Signal = 2
	}
	if cfg.Noise == 0 {
		cfg.Noise = 0.5
	}

	src := rand.NewSource(cfg.Seed)
	noise := distuv.Normal{Mu: 0, Sigma: cfg.Noise, Src: src}
	unif := distuv.Uniform{Min: -1, Max: 1, Src: src}

	ms := NewMemoryStore()

	// Both conditions get independent target vectors over the same trials.
	targets := map[ridgecv.Condition][]float64{}
	for _, cond := range []ridgecv.Condition{ridgecv.Vowel, ridgecv.Speaker} {
		y := make([]float64, cfg.Trials)
		for i := range y {
			y[i] = unif.Rand()
		}
		targets[cond] = y
		ms.TargetVecs[cond] = y
	}
	// Features decode the vowel targets; the planted signal sits in voxel 0.
	y := targets[ridgecv.Vowel]

	folds := ridgecv.InterleavedFolds(cfg.Trials, cfg.NumFolds)
	for _, subject := range cfg.Subjects {
		rois := make([][]*ridgecv.FoldFeatures, cfg.NumROI)
		for roi := range rois {
			full := mat.NewDense(cfg.Trials, cfg.Voxels, nil)
			for i := 0; i < cfg.Trials; i++ {
				full.Set(i, 0, cfg.Signal*y[i]+noise.Rand())
				for j := 1; j < cfg.Voxels; j++ {
					full.Set(i, j, noise.Rand())
				}
			}
			rois[roi] = make([]*ridgecv.FoldFeatures, cfg.NumFolds)
			for fi, fold := range folds {
				rois[roi][fi] = &ridgecv.FoldFeatures{
					Train:       rowsOf(full, fold.Train),
					Test:        rowsOf(full, fold.Test),
					TrainTrials: fold.Train,
					TestTrials:  fold.Test,
				}
			}
		}
		ms.Folds[subject] = rois
	}
	return ms
}

// rowsOf copies the listed rows of x into a new matrix, preserving order.
func rowsOf(x *mat.Dense, inds []int) *mat.Dense {
	_, c := x.Dims()
	out := mat.NewDense(len(inds), c, nil)
	for i, idx := range inds {
		out.SetRow(i, x.RawRowView(idx))
	}
	return out
}
