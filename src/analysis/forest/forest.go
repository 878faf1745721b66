// Package forest is a bagged ensemble of CART regression trees: bootstrap resampling,
// squared-error splits over every feature, fully grown trees, mean-decrease-in-impurity
// importances.
package forest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stock-trend/src/helpers"
)

type Config struct {
	Trees   int
	Seed    uint64
	Workers int // 0 = GOMAXPROCS
}

// RandomForest is not safe for concurrent Fit; Predict is safe once fitted.
type RandomForest struct {
	cfg         Config
	nFeatures   int
	trees       []*Tree
	importances []float64
}

// -----------------------------------------------------------------------------

func NewRandomForest(cfg Config) *RandomForest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	return &RandomForest{cfg: cfg}
}

// -----------------------------------------------------------------------------

// Fit trains cfg.Trees trees on bootstrap resamples of (x, y). Tree i draws from its own
// PCG stream (Seed, i), so the fitted model does not depend on Workers.
func (f *RandomForest) Fit(ctx context.Context, x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 {
		return helpers.ErrEmptyTrainingSet
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d rows, %d targets", helpers.ErrFeatureMismatch, n, len(y))
	}
	nFeatures := len(x[0])
	if nFeatures == 0 {
		return fmt.Errorf("%w: no features", helpers.ErrFeatureMismatch)
	}
	for i, row := range x {
		if len(row) != nFeatures {
			return fmt.Errorf("%w: row %d has %d features, want %d", helpers.ErrFeatureMismatch, i, len(row), nFeatures)
		}
	}

	trees := make([]*Tree, f.cfg.Trees)
	perTree := make([][]float64, f.cfg.Trees)

	workers := f.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range f.cfg.Trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(f.cfg.Seed, uint64(i)))
			idx := make([]int, n)
			for k := range idx {
				idx[k] = rng.IntN(n)
			}
			trees[i], perTree[i] = growTree(x, y, idx, nFeatures, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.nFeatures = nFeatures
	f.trees = trees
	f.importances = aggregateImportances(perTree, nFeatures)
	return nil
}

// -----------------------------------------------------------------------------

// aggregateImportances normalizes each tree's SSE decreases, averages the trees that
// split at least once and renormalizes. With no split anywhere the credit is uniform.
func aggregateImportances(perTree [][]float64, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	used := 0
	for _, imp := range perTree {
		total := 0.0
		for _, v := range imp {
			total += v
		}
		if total <= 0 {
			continue
		}
		used++
		for j, v := range imp {
			out[j] += v / total
		}
	}

	if used == 0 {
		for j := range out {
			out[j] = 1 / float64(nFeatures)
		}
		return out
	}

	total := 0.0
	for _, v := range out {
		total += v
	}
	for j := range out {
		out[j] /= total
	}
	return out
}

// -----------------------------------------------------------------------------

// Predict averages the tree outputs for every row of x.
func (f *RandomForest) Predict(x [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, helpers.ErrModelNotFitted
	}

	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.nFeatures {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", helpers.ErrFeatureMismatch, i, len(row), f.nFeatures)
		}
		sum := 0.0
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// FeatureImportances returns a copy of the normalized importances, nil before Fit.
func (f *RandomForest) FeatureImportances() []float64 {
	if f.importances == nil {
		return nil
	}
	return append([]float64(nil), f.importances...)
}
