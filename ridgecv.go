// Package ridgecv implements nested cross-validated ridge regression for
// decoding per-trial behavioral targets from voxel activation patterns.
//
// The data for one decoding unit is a matrix of voxel features over trials,
// split into a fixed outer training and testing partition, together with a
// target vector holding one scalar per trial. For each unit, an inner loop
// over interleaved partitions of the training trials selects a ridge penalty
// from a fixed grid by rank correlation of held-out predictions, and an outer
// fit at the selected penalty is scored on the testing partition. The
// selected penalty and the outer Spearman correlation are the unit's output.
//
// The main routines of the package are SelectLambda and Evaluate. The analyze
// subpackage drives them over whole subjects (condition x region x fold x
// scheme) and accumulates a per-subject result tensor.
package ridgecv

import "math"

var (
	errLen   = "ridgecv: length mismatch"
	errEmpty = "ridgecv: empty data"
)

// Condition is the decoding condition determining which target vector is
// regressed on the voxel features.
type Condition int

const (
	// Vowel decodes the vowel identity of the heard syllable.
	Vowel Condition = iota
	// Speaker decodes the speaker identity of the heard syllable.
	Speaker
)

// NumConditions is the size of the condition axis of the result tensor.
const NumConditions = 2

func (c Condition) String() string {
	switch c {
	case Vowel:
		return "vowel"
	case Speaker:
		return "speaker"
	}
	return "unknown"
}

// Scheme describes one inner holdout scheme. Partitions is the number of
// interleaved inner partitions the outer training trials are split into.
// Slot is the column of the result tensor the scheme's output is stored in,
// decoupled from the partition count.
type Scheme struct {
	Partitions int
	Slot       int
}

// NumSchemeSlots is the size of the scheme axis of the result tensor. One
// slot is reserved beyond the two default schemes.
const NumSchemeSlots = 3

// DefaultSchemes returns the two holdout schemes evaluated per outer fold:
// two interleaved partitions and four interleaved partitions.
func DefaultSchemes() []Scheme {
	return []Scheme{
		{Partitions: 2, Slot: 0},
		{Partitions: 4, Slot: 1},
	}
}

// DefaultGrid returns the fixed penalty grid: 25 log-spaced values 10^e for
// integer exponents e in [-12, 12].
func DefaultGrid() []float64 {
	grid := make([]float64, 0, 25)
	for e := -12; e <= 12; e++ {
		grid = append(grid, math.Pow(10, float64(e)))
	}
	return grid
}
