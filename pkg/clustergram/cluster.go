package clustergram

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Distance types
const (
	DistanceCosine    = "cosine"
	DistanceEuclidean = "euclidean"
)

// Linkage types
const (
	LinkageAverage  = "average"
	LinkageSingle   = "single"
	LinkageComplete = "complete"
)

// groupCutoffs are the relative distance thresholds used for dendrogram groups
var groupCutoffs = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// treeNode is a dendrogram node; leaves have left == right == -1
type treeNode struct {
	left, right int
	height      float64
	size        int
}

// dendrogram is the result of agglomerative clustering over n leaves
type dendrogram struct {
	nodes []treeNode
	root  int
}

func distanceFunc(kind string) (func(a, b []float64) float64, error) {
	switch kind {
	case DistanceCosine:
		return cosineDistance, nil
	case DistanceEuclidean:
		return func(a, b []float64) float64 { return finite(floats.Distance(a, b, 2)) }, nil
	default:
		return nil, fmt.Errorf("unsupported distance type: %s", kind)
	}
}

// cosineDistance treats two zero vectors as identical and a zero vector as
// maximally distant from anything else.
func cosineDistance(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	switch {
	case na == 0 && nb == 0:
		return 0
	case na == 0 || nb == 0:
		return 1
	}
	// unit vectors keep the dot product from overflowing
	var dot float64
	for i := range a {
		dot += (a[i] / na) * (b[i] / nb)
	}
	d := 1 - dot
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return math.Min(d, 2)
}

// finite clamps NaN and +Inf to the largest float so merges stay ordered
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func linkageUpdate(kind string) (func(da, db float64, na, nb int) float64, error) {
	switch kind {
	case LinkageAverage:
		return func(da, db float64, na, nb int) float64 {
			return (float64(na)*da + float64(nb)*db) / float64(na+nb)
		}, nil
	case LinkageSingle:
		return func(da, db float64, _, _ int) float64 { return math.Min(da, db) }, nil
	case LinkageComplete:
		return func(da, db float64, _, _ int) float64 { return math.Max(da, db) }, nil
	default:
		return nil, fmt.Errorf("unsupported linkage type: %s", kind)
	}
}

// cluster runs agglomerative hierarchical clustering on the given vectors.
// Ties are broken by the lowest pair of cluster slots so the result only
// depends on the input.
func cluster(ctx context.Context, vectors [][]float64, distance, linkage string) (*dendrogram, error) {
	distFn, err := distanceFunc(distance)
	if err != nil {
		return nil, err
	}
	update, err := linkageUpdate(linkage)
	if err != nil {
		return nil, err
	}

	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("nothing to cluster")
	}
	d := &dendrogram{nodes: make([]treeNode, n, 2*n)}
	for i := range d.nodes {
		d.nodes[i] = treeNode{left: -1, right: -1, size: 1}
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := distFn(vectors[i], vectors[j])
			dist[i][j], dist[j][i] = v, v
		}
	}

	// slot i holds the tree node currently representing cluster i
	slot := make([]int, n)
	active := make([]bool, n)
	for i := range slot {
		slot[i] = i
		active[i] = true
	}

	for merges := 0; merges < n-1; merges++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, b := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && (a < 0 || dist[i][j] < best) {
					best, a, b = dist[i][j], i, j
				}
			}
		}

		na, nb := d.nodes[slot[a]].size, d.nodes[slot[b]].size
		for k := 0; k < n; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			v := finite(update(dist[a][k], dist[b][k], na, nb))
			dist[a][k], dist[k][a] = v, v
		}

		d.nodes = append(d.nodes, treeNode{
			left:   slot[a],
			right:  slot[b],
			height: best,
			size:   na + nb,
		})
		slot[a] = len(d.nodes) - 1
		active[b] = false
		d.root = slot[a]
	}

	return d, nil
}

// leaves returns leaf indices in left-to-right dendrogram order
func (d *dendrogram) leaves() []int {
	order := make([]int, 0, d.nodes[d.root].size)
	var walk func(int)
	walk = func(i int) {
		node := d.nodes[i]
		if node.left < 0 {
			order = append(order, i)
			return
		}
		walk(node.left)
		walk(node.right)
	}
	walk(d.root)
	return order
}

// groups assigns flat cluster ids (starting at 1, numbered in leaf order)
// for every cutoff, where a cutoff is a fraction of the root height.
func (d *dendrogram) groups(cutoffs []float64) [][]int {
	n := d.nodes[d.root].size
	maxHeight := d.nodes[d.root].height

	out := make([][]int, len(cutoffs))
	for c, cutoff := range cutoffs {
		threshold := cutoff * maxHeight
		ids := make([]int, n)
		next := 0

		var assign func(i, id int)
		assign = func(i, id int) {
			node := d.nodes[i]
			if node.left < 0 {
				ids[i] = id
				return
			}
			assign(node.left, id)
			assign(node.right, id)
		}

		var split func(i int)
		split = func(i int) {
			node := d.nodes[i]
			if node.left < 0 || node.height <= threshold {
				next++
				assign(i, next)
				return
			}
			split(node.left)
			split(node.right)
		}
		split(d.root)

		out[c] = ids
	}
	return out
}
