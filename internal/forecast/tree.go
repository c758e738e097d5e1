package forecast

import "sort"

// regressionTree is a CART regressor: binary splits minimizing the
// squared error of the two children, mean-of-leaf predictions. Both
// ensemble families build on it.
type regressionTree struct {
	maxDepth int
	root     *treeNode
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

const minSamplesSplit = 2

// fit grows the tree on the sample subset named by idx. Indices may
// repeat (bootstrap resampling).
func (t *regressionTree) fit(X [][]float64, y []float64, idx []int) {
	t.root = growNode(X, y, idx, t.maxDepth)
}

func (t *regressionTree) predict(x []float64) float64 {
	n := t.root
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func growNode(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	mean := subsetMean(y, idx)
	if depth == 0 || len(idx) < minSamplesSplit {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, ok := bestSplit(X, y, idx)
	if !ok {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growNode(X, y, left, depth-1),
		right:     growNode(X, y, right, depth-1),
	}
}

// bestSplit scans every feature for the threshold minimizing the
// summed squared error of the two children. Thresholds are midpoints
// between consecutive distinct values; the scan uses prefix sums so
// each feature costs one sort plus a linear pass.
func bestSplit(X [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	total := 0.0
	totalSq := 0.0
	for _, i := range idx {
		total += y[i]
		totalSq += y[i] * y[i]
	}
	parentSSE := totalSq - total*total/float64(n)

	best := parentSSE
	order := make([]int, n)

	for f := 0; f < len(X[idx[0]]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		sumLeft := 0.0
		sumSqLeft := 0.0
		for k := 0; k < n-1; k++ {
			i := order[k]
			sumLeft += y[i]
			sumSqLeft += y[i] * y[i]

			v, next := X[i][f], X[order[k+1]][f]
			if v == next {
				continue
			}
			nl := float64(k + 1)
			nr := float64(n - k - 1)
			sumRight := total - sumLeft
			sumSqRight := totalSq - sumSqLeft
			sse := (sumSqLeft - sumLeft*sumLeft/nl) + (sumSqRight - sumRight*sumRight/nr)
			if sse < best {
				best = sse
				feature = f
				threshold = (v + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func subsetMean(y []float64, idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}
