package sutra

import (
	"context"
	"math/rand"
	"sync"

	eaopt "github.com/MaxHalford/eaopt"
	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"

	"github.com/sutralabs/sutra/logger"
	"github.com/sutralabs/sutra/models"
)

// BatchSpec describes one independent backtest run of a batch.
type BatchSpec struct {
	Config   models.AnalysisConfig
	Strategy Strategy
	Bars     []*models.Bar
}

// BatchResult pairs a run's result with its error, so one failing symbol
// never aborts the runs of the others.
type BatchResult struct {
	Spec   BatchSpec
	Result *models.BacktestResult
	Err    error
}

// NewBatch clones a base configuration for each symbol's bar set. Each run
// gets its own config value so parameter tweaks never leak across runs.
func NewBatch(base models.AnalysisConfig, barsBySymbol map[string][]*models.Bar, strategy func() Strategy) []BatchSpec {
	specs := make([]BatchSpec, 0, len(barsBySymbol))
	for symbol, bars := range barsBySymbol {
		var config models.AnalysisConfig
		copier.Copy(&config, &base)
		config.Symbol = symbol
		specs = append(specs, BatchSpec{Config: config, Strategy: strategy(), Bars: bars})
	}
	return specs
}

// RunBatch executes independent backtests in parallel. Runs share no mutable
// state: each owns its portfolio, trade log and equity curve, so no locking
// is needed beyond result collection.
func RunBatch(specs []BatchSpec, workers int) []BatchResult {
	if workers <= 0 {
		workers = 4
	}
	results := make([]BatchResult, len(specs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				spec := specs[i]
				results[i] = BatchResult{Spec: spec}
				bt, err := NewBacktest(spec.Config, spec.Strategy)
				if err != nil {
					results[i].Err = err
					continue
				}
				results[i].Result, results[i].Err = bt.Run(spec.Bars)
			}
		}()
	}
	for i := range specs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// Optimize runs a goptuna TPE study over a backtest objective with parallel
// workers.
func Optimize(objective func(goptuna.Trial) (float64, error), episodes int, workers int) error {
	study, err := goptuna.CreateStudy(
		"sutra",
		goptuna.StudyOptionSampler(tpe.NewSampler()),
		goptuna.StudyOptionSetDirection(goptuna.StudyDirectionMaximize),
	)
	if err != nil {
		return err
	}

	if workers <= 0 {
		workers = 4
	}
	eg, ctx := errgroup.WithContext(context.Background())
	study.WithContext(ctx)
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			return study.Optimize(objective, episodes)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	v, _ := study.GetBestValue()
	p, _ := study.GetBestParams()
	logger.Infof("Best evaluation value=%f\n", v)
	logger.Info(p)
	return nil
}

// EAOptimize minimizes a backtest objective with an OpenAI evolution
// strategy over the given parameter domain.
func EAOptimize(evaluate func([]float64) float64, paramsDomain []float64) error {
	oes, err := eaopt.NewOES(1000, 30, 10, 0.05, false, nil)
	if err != nil {
		return err
	}

	// Fix random number generation so runs are reproducible.
	oes.GA.RNG = rand.New(rand.NewSource(42))

	_, y, err := oes.Minimize(evaluate, paramsDomain)
	if err != nil {
		return err
	}
	logger.Info(oes.GA.HallOfFame[0])
	logger.Infof("Found minimum of %.5f\n", y)
	return nil
}
