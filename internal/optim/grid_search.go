// Package optim sweeps machine parameters over a grid and keeps the
// combination that scores best on one report metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lottosim/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize flips the search to keep the highest value instead of the lowest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Size is the number of combinations the search will run.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(current map[string]float64) error {
		t := g.trial(ctx, current, buildExperiment, metricName)
		if t.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if g.better(t.Value, best) {
			best = t.Value
			bestParams = t.Params
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: no combination produced %q", metricName)
	}

	return bestParams, best, nil
}

// Trials runs every combination and returns each outcome in grid order.
func (g *GridSearch) Trials(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) ([]Trial, error) {
	var trials []Trial
	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(current map[string]float64) error {
		trials = append(trials, g.trial(ctx, current, buildExperiment, metricName))
		return ctx.Err()
	})
	return trials, err
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) trial(
	ctx context.Context,
	params map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
) Trial {
	t := Trial{Params: params}

	exp, err := buildExperiment(params)
	if err != nil {
		t.Err = err
		return t
	}

	result, err := exp.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		t.Err = fmt.Errorf("optim: metric %q not reported", metricName)
		return t
	}
	t.Value = val
	return t
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	visit func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

// Builder returns a buildExperiment func that applies each parameter to a
// copy of base through the registry.
func Builder(base experiment.Config, registry *experiment.Registry) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base.Machine
		for name, v := range params {
			if err := registry.Apply(&cfg.Machine, name, v); err != nil {
				return nil, err
			}
		}

		ec := base
		ec.Machine = &cfg
		exp := experiment.New(ec)
		if err := exp.Setup(nil, nil); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
