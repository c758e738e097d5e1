package forecast

const (
	boostingStages   = 150
	boostingMaxDepth = 5
	boostingLearnRate = 0.1
)

// gradientBoosting is a sequential ensemble of 150 depth-5 trees, each
// fit to the residuals of the ensemble so far, combined with a 0.1
// learning rate around the mean of the training target.
type gradientBoosting struct {
	base  float64
	trees []*regressionTree
}

func (g *gradientBoosting) Name() string { return "GradientBoosting" }

func (g *gradientBoosting) Predict(x []float64) float64 {
	pred := g.base
	for _, t := range g.trees {
		pred += boostingLearnRate * t.predict(x)
	}
	return pred
}

func fitGradientBoosting(X [][]float64, y []float64) *gradientBoosting {
	n := len(y)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	g := &gradientBoosting{base: subsetMean(y, idx)}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.base
	}
	residual := make([]float64, n)

	for stage := 0; stage < boostingStages; stage++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}
		tree := &regressionTree{maxDepth: boostingMaxDepth}
		tree.fit(X, residual, idx)
		g.trees = append(g.trees, tree)
		for i := range pred {
			pred[i] += boostingLearnRate * tree.predict(X[i])
		}
	}
	return g
}
