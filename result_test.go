package ridgecv

import (
	"math"
	"testing"
)

func TestResultsRoundTrip(t *testing.T) {
	res := NewResults(10, 3)
	sch := Scheme{Partitions: 4, Slot: 1}

	if !math.IsNaN(res.Lambda(Speaker, 7, sch, 2)) {
		t.Fatal("unwritten cell should read NaN")
	}
	if res.Filled(Speaker, 7, sch, 2) {
		t.Fatal("unwritten cell reported filled")
	}

	res.Set(Speaker, 7, sch, 2, FoldResult{Lambda: 100, Rho: 0.42})
	if got := res.Lambda(Speaker, 7, sch, 2); got != 100 {
		t.Errorf("lambda = %v, want 100", got)
	}
	if got := res.Rho(Speaker, 7, sch, 2); got != 0.42 {
		t.Errorf("rho = %v, want 0.42", got)
	}
	if !res.Filled(Speaker, 7, sch, 2) {
		t.Error("written cell not reported filled")
	}

	// Other slots stay NaN, including the reserved third scheme slot.
	if !math.IsNaN(res.Lambda(Speaker, 7, Scheme{Slot: 2}, 2)) {
		t.Error("reserved scheme slot was written")
	}
	if !math.IsNaN(res.Rho(Vowel, 7, sch, 2)) {
		t.Error("other condition was written")
	}
}

func TestResultsTensorShape(t *testing.T) {
	res := NewResults(10, 3)
	want := []int{NumConditions, 10, 2, NumSchemeSlots, 3}
	if got := res.Tsr.NumDims(); got != len(want) {
		t.Fatalf("tensor rank %d, want %d", got, len(want))
	}
	for i := range want {
		if got := res.Tsr.Dim(i); got != want[i] {
			t.Errorf("dim %d = %d, want %d", i, got, want[i])
		}
	}
}

func TestResultsSummary(t *testing.T) {
	res := NewResults(2, 3)
	schemes := DefaultSchemes()
	n := 0
	for _, cond := range []Condition{Vowel, Speaker} {
		for roi := 0; roi < 2; roi++ {
			for _, sch := range schemes {
				for fold := 0; fold < 3; fold++ {
					res.Set(cond, roi, sch, fold, FoldResult{Lambda: 1, Rho: 0.5})
					n++
				}
			}
		}
	}
	dt := res.Summary()
	if dt.Rows != n {
		t.Errorf("summary has %d rows, want %d", dt.Rows, n)
	}
	if got := dt.CellString("Condition", 0); got != "vowel" {
		t.Errorf("first row condition %q, want %q", got, "vowel")
	}
	if got := dt.CellFloat("Lambda", 0); got != 1 {
		t.Errorf("first row lambda %v, want 1", got)
	}
}
