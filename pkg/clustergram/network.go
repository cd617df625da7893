package clustergram

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNotLoaded is returned when a network is used before a matrix is loaded
var ErrNotLoaded = errors.New("network has no matrix loaded")

// Options controls MakeClust
type Options struct {
	// RunClustering orders rows and columns by hierarchical clustering.
	// When false, nodes keep their input order.
	RunClustering bool `json:"run_clustering"`

	// Dendro computes dendrogram groups. Only meaningful with RunClustering.
	Dendro bool `json:"dendro"`

	DistanceType string `json:"distance_type"`
	LinkageType  string `json:"linkage_type"`
}

// withDefaults fills empty distance and linkage types
func (o Options) withDefaults() Options {
	if o.DistanceType == "" {
		o.DistanceType = DistanceCosine
	}
	if o.LinkageType == "" {
		o.LinkageType = LinkageAverage
	}
	return o
}

// Validate checks the distance and linkage types
func (o Options) Validate() error {
	o = o.withDefaults()
	if _, err := distanceFunc(o.DistanceType); err != nil {
		return err
	}
	if _, err := linkageUpdate(o.LinkageType); err != nil {
		return err
	}
	return nil
}

// axis holds the labels and derived ordering of rows or columns
type axis struct {
	names   []string
	cats    [][]string
	order   []int // node indices in display order
	rank    []int
	rankvar []int
	groups  [][]int // groups[c][i] for cutoff c, nil without a dendrogram
}

// Network is a loaded matrix together with its row and column metadata.
// A Network is not safe for concurrent use.
type Network struct {
	rows axis
	cols axis
	mat  [][]float64
}

// New creates an empty network
func New() *Network {
	return &Network{}
}

// LoadString replaces the network contents with the matrix encoded in s
func (n *Network) LoadString(s string) error {
	m, err := parseMatrix(s)
	if err != nil {
		return err
	}

	n.mat = m.values
	n.rows = axis{names: m.rowNames, cats: m.rowCats}
	n.cols = axis{names: m.colNames, cats: m.colCats}

	rowVectors := n.mat
	colVectors := n.columns()

	n.rows.rank = rankBy(rowVectors, floats.Sum)
	n.rows.rankvar = rankBy(rowVectors, variance)
	n.cols.rank = rankBy(colVectors, floats.Sum)
	n.cols.rankvar = rankBy(colVectors, variance)

	n.rows.order = identity(len(n.rows.names))
	n.cols.order = identity(len(n.cols.names))

	return nil
}

// Shape returns the number of rows and columns
func (n *Network) Shape() (rows, cols int) {
	return len(n.rows.names), len(n.cols.names)
}

// MakeClust computes the node ordering. Clustering honours ctx between
// agglomeration steps.
func (n *Network) MakeClust(ctx context.Context, opts Options) error {
	if n.mat == nil {
		return ErrNotLoaded
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}

	n.rows.order = identity(len(n.rows.names))
	n.cols.order = identity(len(n.cols.names))
	n.rows.groups = nil
	n.cols.groups = nil

	if !opts.RunClustering {
		return nil
	}

	for _, a := range []struct {
		axis    *axis
		vectors [][]float64
	}{
		{&n.rows, n.mat},
		{&n.cols, n.columns()},
	} {
		tree, err := cluster(ctx, a.vectors, opts.DistanceType, opts.LinkageType)
		if err != nil {
			return fmt.Errorf("failed to cluster: %w", err)
		}
		a.axis.order = tree.leaves()
		if opts.Dendro {
			a.axis.groups = tree.groups(groupCutoffs)
		}
	}

	return nil
}

// columns returns the transposed matrix
func (n *Network) columns() [][]float64 {
	if len(n.mat) == 0 {
		return nil
	}
	cols := make([][]float64, len(n.mat[0]))
	for j := range cols {
		cols[j] = make([]float64, len(n.mat))
		for i, row := range n.mat {
			cols[j][i] = row[j]
		}
	}
	return cols
}

func variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

// rankBy returns, for each vector, its position when sorted ascending by score
func rankBy(vectors [][]float64, score func([]float64) float64) []int {
	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		scores[i] = score(v)
	}

	order := identity(len(vectors))
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	rank := make([]int, len(vectors))
	for pos, idx := range order {
		rank[idx] = pos
	}
	return rank
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
