package forecast

import (
	"math/rand"
	"sync"
)

// Model is a trained per-dish regressor.
type Model interface {
	Name() string
	Predict(x []float64) float64
}

const (
	forestTrees    = 200
	forestMaxDepth = 10
)

// randomForest bags 200 depth-10 CART trees over bootstrap resamples
// and predicts the mean of the trees. Tree construction parallelizes
// across cores; per-tree seeds are drawn up front from the master
// source so the fitted forest is identical for a fixed seed regardless
// of scheduling.
type randomForest struct {
	trees []*regressionTree
}

func (f *randomForest) Name() string { return "RandomForest" }

func (f *randomForest) Predict(x []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

func fitRandomForest(X [][]float64, y []float64, seed int64) *randomForest {
	master := rand.New(rand.NewSource(seed))
	seeds := make([]int64, forestTrees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	f := &randomForest{trees: make([]*regressionTree, forestTrees)}
	var wg sync.WaitGroup
	sem := make(chan struct{}, 8)
	for i := 0; i < forestTrees; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			rng := rand.New(rand.NewSource(seeds[i]))
			idx := make([]int, len(y))
			for j := range idx {
				idx[j] = rng.Intn(len(y))
			}
			tree := &regressionTree{maxDepth: forestMaxDepth}
			tree.fit(X, y, idx)
			f.trees[i] = tree
		}(i)
	}
	wg.Wait()
	return f
}
