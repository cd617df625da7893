package clustergram

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float64{1, 0}, []float64{3, 0}), 1e-12)
	assert.InDelta(t, 1, cosineDistance([]float64{1, 0}, []float64{0, 2}), 1e-12)
	assert.InDelta(t, 2, cosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-12)
	assert.Equal(t, 0.0, cosineDistance([]float64{0, 0}, []float64{0, 0}))
	assert.Equal(t, 1.0, cosineDistance([]float64{0, 0}, []float64{1, 0}))

	huge := []float64{1e308, 1e308}
	assert.InDelta(t, 0, cosineDistance(huge, huge), 1e-12)
	assert.InDelta(t, 2, cosineDistance(huge, []float64{-1e308, -1e308}), 1e-12)
}

func TestCluster_OverflowingDistances(t *testing.T) {
	vectors := [][]float64{{1e308, 1e308}, {-1e308, -1e308}, {1e308, -1e308}}

	for _, distance := range []string{DistanceCosine, DistanceEuclidean} {
		for _, linkage := range []string{LinkageAverage, LinkageSingle, LinkageComplete} {
			t.Run(distance+"/"+linkage, func(t *testing.T) {
				tree, err := cluster(context.Background(), vectors, distance, linkage)
				require.NoError(t, err)

				assert.ElementsMatch(t, []int{0, 1, 2}, tree.leaves())
				assert.False(t, math.IsNaN(tree.nodes[tree.root].height))
				assert.False(t, math.IsInf(tree.nodes[tree.root].height, 0))
				assert.Len(t, tree.groups(groupCutoffs), len(groupCutoffs))
			})
		}
	}
}

func TestMakeClust_HugeValues(t *testing.T) {
	data := "\tA\tB\nR1\t1e308\t1e308\nR2\t-1e308\t-1e308"

	for _, distance := range []string{DistanceCosine, DistanceEuclidean} {
		t.Run(distance, func(t *testing.T) {
			out := exportViz(t, data, Options{RunClustering: true, Dendro: true, DistanceType: distance})

			assert.ElementsMatch(t, []interface{}{float64(0), float64(1)}, gjson.Get(out, "row_nodes.#.clust").Value())
			assert.True(t, gjson.Get(out, "row_nodes.0.group").IsArray())
		})
	}
}

func TestCluster_Linkages(t *testing.T) {
	vectors := [][]float64{{0}, {1}, {10}, {11}}

	for _, linkage := range []string{LinkageAverage, LinkageSingle, LinkageComplete} {
		t.Run(linkage, func(t *testing.T) {
			tree, err := cluster(context.Background(), vectors, DistanceEuclidean, linkage)
			require.NoError(t, err)

			assert.Equal(t, []int{0, 1, 2, 3}, tree.leaves())
			assert.Equal(t, 4, tree.nodes[tree.root].size)

			groups := tree.groups([]float64{0.5})
			assert.Equal(t, []int{1, 1, 2, 2}, groups[0])
		})
	}
}

func TestCluster_RootHeight(t *testing.T) {
	vectors := [][]float64{{0}, {1}, {10}, {11}}

	tree, err := cluster(context.Background(), vectors, DistanceEuclidean, LinkageSingle)
	require.NoError(t, err)
	assert.InDelta(t, 9, tree.nodes[tree.root].height, 1e-12)

	tree, err = cluster(context.Background(), vectors, DistanceEuclidean, LinkageComplete)
	require.NoError(t, err)
	assert.InDelta(t, 11, tree.nodes[tree.root].height, 1e-12)

	tree, err = cluster(context.Background(), vectors, DistanceEuclidean, LinkageAverage)
	require.NoError(t, err)
	assert.InDelta(t, 10, tree.nodes[tree.root].height, 1e-12)
}

func TestCluster_SingleVector(t *testing.T) {
	tree, err := cluster(context.Background(), [][]float64{{1, 2}}, DistanceCosine, LinkageAverage)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, tree.leaves())
	assert.Equal(t, [][]int{{1}, {1}}, tree.groups([]float64{0, 1}))
}

func TestCluster_Empty(t *testing.T) {
	_, err := cluster(context.Background(), nil, DistanceCosine, LinkageAverage)
	assert.Error(t, err)
}
