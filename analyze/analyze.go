// Package analyze drives the nested ridge sweep over whole subjects. Each
// (condition, region, outer fold) unit is independent, so units are fanned
// across a worker pool and write disjoint cells of the subject's result
// accumulator; the accumulator is persisted and released before the next
// subject starts.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/seb0305/ridgecv"
)

// Settings configures a batch run. Features, Targets, and Sink are required;
// zero-valued fields otherwise fall back to the defaults noted per field.
type Settings struct {
	Subjects []string
	NumROI   int // regions per subject
	NumFolds int // predefined outer folds, default 3

	Conditions []ridgecv.Condition // default Vowel and Speaker
	Schemes    []ridgecv.Scheme    // default ridgecv.DefaultSchemes
	Grid       []float64           // default ridgecv.DefaultGrid

	Features ridgecv.FeatureStore
	Targets  ridgecv.TargetProvider
	Sink     ridgecv.ResultSink

	// Concurrent is the number of worker goroutines per subject. If 0,
	// defaults to GOMAXPROCS.
	Concurrent int

	// Logger receives per-unit progress at debug level and per-subject
	// milestones at info level. If nil, slog.Default is used.
	Logger *slog.Logger
}

func (s *Settings) defaults() {
	if s.NumFolds == 0 {
		s.NumFolds = 3
	}
	if s.Conditions == nil {
		s.Conditions = []ridgecv.Condition{ridgecv.Vowel, ridgecv.Speaker}
	}
	if s.Schemes == nil {
		s.Schemes = ridgecv.DefaultSchemes()
	}
	if s.Grid == nil {
		s.Grid = ridgecv.DefaultGrid()
	}
	if s.Concurrent == 0 {
		s.Concurrent = runtime.GOMAXPROCS(0)
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
}

// unit identifies one independent piece of work. Both holdout schemes are
// evaluated inside the unit so the loaded features are reused.
type unit struct {
	cond ridgecv.Condition
	roi  int
	fold int
}

// Run executes the sweep for every subject in settings. A subject whose
// inputs are missing or malformed fails as a whole with a descriptive
// error; degenerate NaN correlations within a unit are recorded and do not
// stop the run. Cancellation is observed between units.
func Run(ctx context.Context, settings *Settings) error {
	settings.defaults()
	if settings.Features == nil || settings.Targets == nil || settings.Sink == nil {
		return errors.New("analyze: nil data collaborator")
	}
	for _, subject := range settings.Subjects {
		if err := runSubject(ctx, subject, settings); err != nil {
			return fmt.Errorf("analyze: subject %s: %w", subject, err)
		}
	}
	return nil
}

func runSubject(ctx context.Context, subject string, s *Settings) error {
	log := s.Logger.With("subject", subject)

	// The target vectors are shared by every unit of the subject.
	targets := make(map[ridgecv.Condition][]float64, len(s.Conditions))
	for _, cond := range s.Conditions {
		y, err := s.Targets.Targets(ctx, cond)
		if err != nil {
			return err
		}
		if len(y) == 0 {
			return fmt.Errorf("empty target vector for condition %v", cond)
		}
		targets[cond] = y
	}

	res := ridgecv.NewResults(s.NumROI, s.NumFolds)

	units := make(chan unit)
	unitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
		cancel()
	}
	for i := 0; i < s.Concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range units {
				if unitCtx.Err() != nil {
					continue
				}
				if err := runUnit(unitCtx, subject, u, targets[u.cond], res, s, log); err != nil {
					fail(err)
				}
			}
		}()
	}
	for _, cond := range s.Conditions {
		for roi := 0; roi < s.NumROI; roi++ {
			for fold := 0; fold < s.NumFolds; fold++ {
				units <- unit{cond: cond, roi: roi, fold: fold}
			}
		}
	}
	close(units)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if err := s.Sink.Persist(ctx, subject, res); err != nil {
		return err
	}
	log.Info("subject complete",
		"units", len(s.Conditions)*s.NumROI*s.NumFolds,
		"schemes", len(s.Schemes))
	return nil
}

func runUnit(ctx context.Context, subject string, u unit, y []float64, res *ridgecv.Results, s *Settings, log *slog.Logger) error {
	ff, err := s.Features.FoldFeatures(ctx, subject, u.roi, u.fold)
	if err != nil {
		return err
	}
	nTrain, _ := ff.Train.Dims()
	nTest, _ := ff.Test.Dims()
	if nTrain != len(ff.TrainTrials) || nTest != len(ff.TestTrials) {
		return fmt.Errorf("region %d fold %d: trial index count does not match feature rows", u.roi, u.fold)
	}
	yTrain, err := gather(y, ff.TrainTrials)
	if err != nil {
		return fmt.Errorf("region %d fold %d: %w", u.roi, u.fold, err)
	}
	yTest, err := gather(y, ff.TestTrials)
	if err != nil {
		return fmt.Errorf("region %d fold %d: %w", u.roi, u.fold, err)
	}

	ridgecv.Center(ff.Train)
	ridgecv.Center(ff.Test)
	for _, sch := range s.Schemes {
		lambda, _, err := ridgecv.SelectLambda(ff.Train, yTrain, s.Grid, sch)
		if err != nil {
			return fmt.Errorf("region %d fold %d scheme %d: %w", u.roi, u.fold, sch.Partitions, err)
		}
		rho, err := ridgecv.Evaluate(ff.Train, ff.Test, yTrain, yTest, lambda)
		if err != nil {
			return fmt.Errorf("region %d fold %d scheme %d: %w", u.roi, u.fold, sch.Partitions, err)
		}
		res.Set(u.cond, u.roi, sch, u.fold, ridgecv.FoldResult{Lambda: lambda, Rho: rho})
		log.Debug("unit complete",
			"condition", u.cond.String(), "roi", u.roi, "fold", u.fold,
			"partitions", sch.Partitions, "lambda", lambda, "rho", rho)
	}
	return nil
}

// gather selects y at the given trial indices, validating the index range
// against the target length.
func gather(y []float64, inds []int) ([]float64, error) {
	out := make([]float64, len(inds))
	for i, idx := range inds {
		if idx < 0 || idx >= len(y) {
			return nil, fmt.Errorf("trial index %d outside target vector of length %d", idx, len(y))
		}
		out[i] = y[idx]
	}
	return out, nil
}
