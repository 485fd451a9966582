package experiment

import (
	"context"
	"sync"
)

// Ensemble runs the same experiment under consecutive seeds in parallel.
// Each run owns its loop and machine, so nothing is shared between them.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(base Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.base
			cfg.Seed = e.seedStart + int64(idx)
			cfg.Realtime = false

			exp := New(cfg)
			if err := exp.Setup(nil, nil); err != nil {
				errs[idx] = err
				return
			}
			reports[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return reports, nil
}

// Mean averages one metric over reports.
func Mean(reports []*Report, metric string) float64 {
	if len(reports) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range reports {
		sum += r.Metric(metric)
	}
	return sum / float64(len(reports))
}
