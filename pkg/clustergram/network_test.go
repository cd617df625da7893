package clustergram

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const simpleMatrix = "\tColA\tColB\nRow1\t1.0\t2.0\nRow2\t3.0\t4.0"

func exportViz(t *testing.T, data string, opts Options) string {
	t.Helper()

	net := New()
	require.NoError(t, net.LoadString(data))
	require.NoError(t, net.MakeClust(context.Background(), opts))

	out, err := net.ExportNetJSON(ViewViz, NoIndent)
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(out)))
	return out
}

func TestExportViz_Simple(t *testing.T) {
	out := exportViz(t, simpleMatrix, Options{})

	assert.Equal(t, []interface{}{"Row1", "Row2"}, gjson.Get(out, "row_nodes.#.name").Value())
	assert.Equal(t, []interface{}{"ColA", "ColB"}, gjson.Get(out, "col_nodes.#.name").Value())
	assert.Equal(t, `[[1,2],[3,4]]`, gjson.Get(out, "mat").Raw)
	assert.Equal(t, `[]`, gjson.Get(out, "links").Raw)
	assert.Equal(t, `[]`, gjson.Get(out, "views").Raw)
	assert.Equal(t, `{"row":{},"col":{}}`, gjson.Get(out, "cat_colors").Raw)

	row1 := gjson.Get(out, "row_nodes.0")
	assert.Equal(t, int64(2), row1.Get("ini").Int())
	assert.Equal(t, int64(0), row1.Get("clust").Int())
	assert.Equal(t, int64(0), row1.Get("rank").Int())
	assert.False(t, row1.Get("group").Exists())
}

func TestExportViz_KeyOrder(t *testing.T) {
	out := exportViz(t, simpleMatrix, Options{})

	var keys []string
	gjson.Parse(out).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"row_nodes", "col_nodes", "links", "mat", "views", "cat_colors"}, keys)

	var nodeKeys []string
	gjson.Get(out, "row_nodes.0").ForEach(func(key, _ gjson.Result) bool {
		nodeKeys = append(nodeKeys, key.String())
		return true
	})
	assert.Equal(t, []string{"name", "ini", "clust", "rank", "rankvar"}, nodeKeys)
}

func TestExportViz_Deterministic(t *testing.T) {
	first := exportViz(t, simpleMatrix, Options{})
	second := exportViz(t, simpleMatrix, Options{})
	assert.Equal(t, first, second)

	opts := Options{RunClustering: true, Dendro: true}
	assert.Equal(t, exportViz(t, simpleMatrix, opts), exportViz(t, simpleMatrix, opts))
}

func TestExportViz_Rank(t *testing.T) {
	out := exportViz(t, "\tA\tB\nlow\t1\t1\nhigh\t9\t9\nmid\t5\t0", Options{})

	assert.Equal(t, []interface{}{float64(0), float64(2), float64(1)}, gjson.Get(out, "row_nodes.#.rank").Value())
	assert.Equal(t, []interface{}{float64(3), float64(2), float64(1)}, gjson.Get(out, "row_nodes.#.ini").Value())
	// column A sums to 15 and B to 10
	assert.Equal(t, []interface{}{float64(1), float64(0)}, gjson.Get(out, "col_nodes.#.rank").Value())
}

func TestExportViz_Categories(t *testing.T) {
	input := "\t\tC1\tC2\n" +
		"r1\tDB: x\t1\t2\n" +
		"r2\tDB: y\t3\t4\n" +
		"r3\tDB: x\t5\t6\n"
	out := exportViz(t, input, Options{})

	assert.Equal(t, "DB: x", gjson.Get(out, "row_nodes.0.cat-0").String())
	assert.Equal(t, []interface{}{float64(0), float64(1), float64(0)}, gjson.Get(out, "row_nodes.#.cat_0_index").Value())
	colors := gjson.Get(out, "cat_colors.row.cat-0").Map()
	assert.Equal(t, palette[0], colors["DB: x"].String())
	assert.Equal(t, palette[1], colors["DB: y"].String())
	assert.False(t, gjson.Get(out, "col_nodes.0.cat-0").Exists())
}

func TestMakeClust_Clustering(t *testing.T) {
	// r1 and r3 point the same way, r2 is orthogonal to both
	input := "\tA\tB\nr1\t1\t0\nr2\t0\t1\nr3\t2\t0"
	out := exportViz(t, input, Options{RunClustering: true, Dendro: true})

	clust := gjson.Get(out, "row_nodes.#.clust").Array()
	require.Len(t, clust, 3)
	assert.Equal(t, int64(1), abs(clust[0].Int()-clust[2].Int()), "r1 and r3 should be adjacent")

	groups := gjson.Get(out, "row_nodes.0.group").Array()
	require.Len(t, groups, len(groupCutoffs))
	// at the lowest cutoff identical directions share a group, at the highest everything does
	assert.Equal(t, gjson.Get(out, "row_nodes.0.group.0").Int(), gjson.Get(out, "row_nodes.2.group.0").Int())
	assert.NotEqual(t, gjson.Get(out, "row_nodes.0.group.0").Int(), gjson.Get(out, "row_nodes.1.group.0").Int())
	assert.Equal(t, gjson.Get(out, "row_nodes.0.group.10").Int(), gjson.Get(out, "row_nodes.1.group.10").Int())
}

func TestMakeClust_InvalidOptions(t *testing.T) {
	net := New()
	require.NoError(t, net.LoadString(simpleMatrix))

	err := net.MakeClust(context.Background(), Options{RunClustering: true, DistanceType: "manhattan"})
	assert.Error(t, err)

	err = net.MakeClust(context.Background(), Options{RunClustering: true, LinkageType: "ward"})
	assert.Error(t, err)
}

func TestMakeClust_Canceled(t *testing.T) {
	net := New()
	require.NoError(t, net.LoadString(simpleMatrix))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := net.MakeClust(ctx, Options{RunClustering: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNetwork_NotLoaded(t *testing.T) {
	net := New()

	assert.ErrorIs(t, net.MakeClust(context.Background(), Options{}), ErrNotLoaded)

	_, err := net.ExportNetJSON(ViewViz, NoIndent)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestExportNetJSON_Modes(t *testing.T) {
	net := New()
	require.NoError(t, net.LoadString(simpleMatrix))
	require.NoError(t, net.MakeClust(context.Background(), Options{}))

	indented, err := net.ExportNetJSON(ViewViz, Indent)
	require.NoError(t, err)
	assert.Contains(t, indented, "\n  \"row_nodes\"")

	dat, err := net.ExportNetJSON(ViewDat, NoIndent)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Row1", "Row2"}, gjson.Get(dat, "nodes.row").Value())
	assert.Equal(t, `[0,1]`, gjson.Get(dat, "node_info.col.clust").Raw)

	_, err = net.ExportNetJSON("sim_row", NoIndent)
	assert.Error(t, err)

	_, err = net.ExportNetJSON(ViewViz, "tabs")
	assert.Error(t, err)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
