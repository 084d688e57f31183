package ridgecv

import (
	"math"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// Measures stored per unit in the result tensor.
const (
	MeasureLambda = 0 // selected penalty
	MeasureRho    = 1 // outer Spearman correlation
)

// Results accumulates the sweep output for one subject. The backing tensor
// is indexed [condition][region][measure][scheme slot][outer fold] and is
// initialized to NaN, so unwritten cells are visibly absent. Every unit of
// the sweep owns a disjoint pair of cells, so concurrent workers may write
// without synchronization.
type Results struct {
	Tsr *etensor.Float64

	nROI   int
	nFolds int
	filled []bool
}

// NewResults allocates a NaN-filled accumulator for nROI regions and nFolds
// outer folds.
func NewResults(nROI, nFolds int) *Results {
	tsr := etensor.NewFloat64(
		[]int{NumConditions, nROI, 2, NumSchemeSlots, nFolds},
		nil,
		[]string{"Condition", "ROI", "Measure", "Scheme", "Fold"},
	)
	for i := range tsr.Values {
		tsr.Values[i] = math.NaN()
	}
	return &Results{
		Tsr:    tsr,
		nROI:   nROI,
		nFolds: nFolds,
		filled: make([]bool, NumConditions*nROI*NumSchemeSlots*nFolds),
	}
}

// NumROI returns the size of the region axis.
func (r *Results) NumROI() int { return r.nROI }

// NumFolds returns the size of the outer fold axis.
func (r *Results) NumFolds() int { return r.nFolds }

func (r *Results) cellIdx(cond Condition, roi int, sch Scheme, fold int) int {
	return ((int(cond)*r.nROI+roi)*NumSchemeSlots+sch.Slot)*r.nFolds + fold
}

// Set records one unit's output into the accumulator.
func (r *Results) Set(cond Condition, roi int, sch Scheme, fold int, res FoldResult) {
	r.Tsr.SetFloat([]int{int(cond), roi, MeasureLambda, sch.Slot, fold}, res.Lambda)
	r.Tsr.SetFloat([]int{int(cond), roi, MeasureRho, sch.Slot, fold}, res.Rho)
	r.filled[r.cellIdx(cond, roi, sch, fold)] = true
}

// Lambda returns the selected penalty for a unit, NaN if unwritten.
func (r *Results) Lambda(cond Condition, roi int, sch Scheme, fold int) float64 {
	return r.Tsr.FloatVal([]int{int(cond), roi, MeasureLambda, sch.Slot, fold})
}

// Rho returns the outer correlation for a unit, NaN if unwritten.
func (r *Results) Rho(cond Condition, roi int, sch Scheme, fold int) float64 {
	return r.Tsr.FloatVal([]int{int(cond), roi, MeasureRho, sch.Slot, fold})
}

// Filled reports whether a unit's output has been recorded. A recorded unit
// can still hold NaN measures from a degenerate correlation.
func (r *Results) Filled(cond Condition, roi int, sch Scheme, fold int) bool {
	return r.filled[r.cellIdx(cond, roi, sch, fold)]
}

// Summary flattens the recorded cells into a table with one row per unit,
// in (condition, region, scheme slot, fold) order.
func (r *Results) Summary() *etable.Table {
	sch := etable.Schema{
		{Name: "Condition", Type: etensor.STRING, CellShape: nil, DimNames: nil},
		{Name: "ROI", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Scheme", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Fold", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Lambda", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Rho", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	var n int
	for _, f := range r.filled {
		if f {
			n++
		}
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, n)
	row := 0
	for cond := Condition(0); cond < NumConditions; cond++ {
		for roi := 0; roi < r.nROI; roi++ {
			for slot := 0; slot < NumSchemeSlots; slot++ {
				s := Scheme{Slot: slot}
				for fold := 0; fold < r.nFolds; fold++ {
					if !r.Filled(cond, roi, s, fold) {
						continue
					}
					dt.SetCellString("Condition", row, cond.String())
					dt.SetCellFloat("ROI", row, float64(roi))
					dt.SetCellFloat("Scheme", row, float64(slot))
					dt.SetCellFloat("Fold", row, float64(fold))
					dt.SetCellFloat("Lambda", row, r.Lambda(cond, roi, s, fold))
					dt.SetCellFloat("Rho", row, r.Rho(cond, roi, s, fold))
					row++
				}
			}
		}
	}
	return dt
}
