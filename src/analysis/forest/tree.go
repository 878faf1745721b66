package forest

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
)

// Adjacent sorted values closer than this are treated as equal and never split between.
const featureThreshold = 1e-7

// node is a leaf when feature < 0.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// Tree is a fitted CART regression tree, stored as a flat node array rooted at 0.
type Tree struct {
	nodes []node
}

// -----------------------------------------------------------------------------

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := &t.nodes[i]
		if n.feature < 0 {
			return n.value
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// -----------------------------------------------------------------------------
// Builder
// -----------------------------------------------------------------------------

type treeBuilder struct {
	x          [][]float64
	y          []float64
	rng        *rand.Rand
	nFeatures  int
	nodes      []node
	importance []float64 // SSE decrease per feature
	scratch    []int
}

// growTree fits a tree on the sample indices idx (repeats allowed, as drawn by a bootstrap).
func growTree(x [][]float64, y []float64, idx []int, nFeatures int, rng *rand.Rand) (*Tree, []float64) {
	b := &treeBuilder{
		x:          x,
		y:          y,
		rng:        rng,
		nFeatures:  nFeatures,
		importance: make([]float64, nFeatures),
		scratch:    make([]int, len(idx)),
	}
	b.build(slices.Clone(idx))
	return &Tree{nodes: b.nodes}, b.importance
}

// -----------------------------------------------------------------------------

type split struct {
	feature   int
	threshold float64
	proxy     float64
}

func (b *treeBuilder) build(idx []int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{feature: -1})

	n := len(idx)
	sum := 0.0
	for _, i := range idx {
		sum += b.y[i]
	}
	mean := sum / float64(n)
	sse := 0.0
	for _, i := range idx {
		d := b.y[i] - mean
		sse += d * d
	}
	b.nodes[id].value = mean

	if n < 2 || sse <= 1e-12 {
		return id
	}

	best, ok := b.bestSplit(idx, sum)
	if !ok {
		return id
	}

	// Partition in place: left block first, order within blocks preserved.
	left := b.scratch[:0]
	var right []int
	for _, i := range idx {
		if b.x[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	nl := len(left)
	copy(idx, left)
	copy(idx[nl:], right)

	b.importance[best.feature] += best.proxy - sum*sum/float64(n)

	b.nodes[id].feature = best.feature
	b.nodes[id].threshold = best.threshold
	l := b.build(idx[:nl])
	r := b.build(idx[nl:])
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id
}

// -----------------------------------------------------------------------------

// bestSplit scans every feature in random order. Minimizing child SSE is the same as
// maximizing sumL²/nL + sumR²/nR; ties keep the first feature visited.
func (b *treeBuilder) bestSplit(idx []int, total float64) (split, bool) {
	n := len(idx)
	best := split{feature: -1, proxy: math.Inf(-1)}
	order := make([]int, n)

	for _, f := range b.rng.Perm(b.nFeatures) {
		copy(order, idx)
		slices.SortStableFunc(order, func(a, c int) int {
			return cmp.Compare(b.x[a][f], b.x[c][f])
		})

		if b.x[order[n-1]][f] <= b.x[order[0]][f]+featureThreshold {
			continue
		}

		sl := 0.0
		for j := 0; j < n-1; j++ {
			sl += b.y[order[j]]
			cur, next := b.x[order[j]][f], b.x[order[j+1]][f]
			if next <= cur+featureThreshold {
				continue
			}
			nl := float64(j + 1)
			nr := float64(n - j - 1)
			sr := total - sl
			proxy := sl*sl/nl + sr*sr/nr
			if best.feature < 0 || proxy > best.proxy+1e-12*math.Abs(best.proxy) {
				threshold := cur/2 + next/2
				if threshold >= next || math.IsInf(threshold, 0) {
					threshold = cur
				}
				best = split{feature: f, threshold: threshold, proxy: proxy}
			}
		}
	}
	return best, best.feature >= 0
}
