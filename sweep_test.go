package ridgecv

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// plantedData builds a trials x voxels feature matrix whose first voxel
// carries y scaled by signal, with Gaussian noise everywhere.
func plantedData(rnd *rand.Rand, trials, voxels int, signal, noise float64) (*mat.Dense, []float64) {
	x := mat.NewDense(trials, voxels, nil)
	y := make([]float64, trials)
	for i := 0; i < trials; i++ {
		y[i] = rnd.Float64()*2 - 1
		x.Set(i, 0, signal*y[i]+noise*rnd.NormFloat64())
		for j := 1; j < voxels; j++ {
			x.Set(i, j, noise*rnd.NormFloat64())
		}
	}
	return x, y
}

func TestCenter(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	x, _ := plantedData(rnd, 25, 6, 1, 1)
	Center(x)
	r, c := x.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		var mean float64
		for _, v := range col {
			mean += v
		}
		mean /= float64(r)
		if math.Abs(mean) > 1e-12 {
			t.Errorf("column %d mean %v after centering, want ~0", j, mean)
		}
	}
}

func TestBestLambdaPerPartitionRule(t *testing.T) {
	// Partition 0 peaks at grid[0], partition 1 at grid[2]. The selection
	// is the mean of the winning values, not a joint argmax and not an
	// index mean.
	grid := []float64{0.1, 1, 10}
	rAll := mat.NewDense(3, 2, []float64{
		0.9, 0.1,
		0.5, 0.5,
		0.1, 0.8,
	})
	got := bestLambda(rAll, grid)
	want := (0.1 + 10) / 2
	if got != want {
		t.Errorf("selected lambda %v, want %v", got, want)
	}
}

func TestBestLambdaSkipsNaN(t *testing.T) {
	grid := []float64{0.1, 1, 10}
	rAll := mat.NewDense(3, 2, []float64{
		math.NaN(), math.NaN(),
		0.5, math.NaN(),
		0.7, math.NaN(),
	})
	// Partition 0 ignores its NaN cell; partition 1 is fully degenerate, so
	// the whole selection is NaN.
	if got := bestLambda(rAll, grid); !math.IsNaN(got) {
		t.Errorf("selected lambda %v with an all-NaN partition, want NaN", got)
	}

	rAll = mat.NewDense(3, 1, []float64{math.NaN(), 0.2, 0.6})
	if got := bestLambda(rAll, grid); got != 10 {
		t.Errorf("selected lambda %v, want 10", got)
	}
}

func TestSelectLambdaPartitionCounts(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	x, y := plantedData(rnd, 40, 4, 2, 0.5)
	Center(x)
	for _, scheme := range DefaultSchemes() {
		_, rAll, err := SelectLambda(x, y, DefaultGrid(), scheme)
		if err != nil {
			t.Fatalf("partitions %d: unexpected error: %v", scheme.Partitions, err)
		}
		rows, cols := rAll.Dims()
		if rows != 25 || cols != scheme.Partitions {
			t.Errorf("partitions %d: correlation matrix %dx%d, want 25x%d",
				scheme.Partitions, rows, cols, scheme.Partitions)
		}
	}
}

func TestSweepFoldRecoversPlantedSignal(t *testing.T) {
	// 4 voxels, 20 training trials, y = 2*x1 + noise, holdout 2, small
	// grid. The sweep should find the strong signal on held-out data.
	rnd := rand.New(rand.NewSource(3))
	xTrain, yTrain := plantedData(rnd, 20, 4, 2, 0.2)
	xTest, yTest := plantedData(rnd, 10, 4, 2, 0.2)
	grid := []float64{0.1, 1, 10}

	res, err := SweepFold(xTrain, xTest, yTrain, yTest, grid, Scheme{Partitions: 2, Slot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(res.Lambda) {
		t.Fatal("selected lambda is NaN on clean data")
	}
	if res.Rho <= 0.8 {
		t.Errorf("outer rho = %v, want > 0.8 for a planted signal", res.Rho)
	}
}

func TestSweepFoldDeterministic(t *testing.T) {
	build := func() (*mat.Dense, *mat.Dense, []float64, []float64) {
		rnd := rand.New(rand.NewSource(4))
		xTrain, yTrain := plantedData(rnd, 24, 5, 2, 0.3)
		xTest, yTest := plantedData(rnd, 12, 5, 2, 0.3)
		return xTrain, xTest, yTrain, yTest
	}
	scheme := Scheme{Partitions: 4, Slot: 1}

	x1, xt1, y1, yt1 := build()
	r1, err := SweepFold(x1, xt1, y1, yt1, DefaultGrid(), scheme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x2, xt2, y2, yt2 := build()
	r2, err := SweepFold(x2, xt2, y2, yt2, DefaultGrid(), scheme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Lambda != r2.Lambda || r1.Rho != r2.Rho {
		t.Errorf("two identical runs differ: %+v vs %+v", r1, r2)
	}
}

func TestSweepFoldConstantTarget(t *testing.T) {
	// All targets identical: every Spearman correlation is undefined. The
	// sweep must surface NaN rather than crash or substitute zero.
	rnd := rand.New(rand.NewSource(5))
	xTrain, _ := plantedData(rnd, 20, 4, 2, 0.5)
	xTest, _ := plantedData(rnd, 10, 4, 2, 0.5)
	yTrain := make([]float64, 20)
	yTest := make([]float64, 10)
	for i := range yTrain {
		yTrain[i] = 3.7
	}
	for i := range yTest {
		yTest[i] = 3.7
	}

	res, err := SweepFold(xTrain, xTest, yTrain, yTest, []float64{0.1, 1, 10}, Scheme{Partitions: 2, Slot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(res.Lambda) {
		t.Errorf("selected lambda %v for a constant target, want NaN", res.Lambda)
	}
	if !math.IsNaN(res.Rho) {
		t.Errorf("outer rho %v for a constant target, want NaN", res.Rho)
	}
}
