package clustergram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Export views
const (
	ViewViz = "viz"
	ViewDat = "dat"
)

// Indentation modes for ExportNetJSON
const (
	NoIndent = "no-indent"
	Indent   = "indent"
)

// vizNode is a row or column node of the viz export
type vizNode struct {
	Name    string
	Ini     int
	Clust   int
	Rank    int
	Rankvar int
	Group   []int
	Cats    []string
	CatIdx  []int
}

// MarshalJSON writes keys in a fixed order with one "cat-N"/"cat_N_index"
// pair per category.
func (v vizNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	field := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}

	if err := field("name", v.Name); err != nil {
		return nil, err
	}
	for _, kv := range []struct {
		key   string
		value int
	}{
		{"ini", v.Ini},
		{"clust", v.Clust},
		{"rank", v.Rank},
		{"rankvar", v.Rankvar},
	} {
		if err := field(kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	if v.Group != nil {
		if err := field("group", v.Group); err != nil {
			return nil, err
		}
	}
	for k, cat := range v.Cats {
		if err := field(fmt.Sprintf("cat-%d", k), cat); err != nil {
			return nil, err
		}
		if err := field(fmt.Sprintf("cat_%d_index", k), v.CatIdx[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type catColors struct {
	Row map[string]map[string]string `json:"row"`
	Col map[string]map[string]string `json:"col"`
}

type vizExport struct {
	RowNodes  []vizNode     `json:"row_nodes"`
	ColNodes  []vizNode     `json:"col_nodes"`
	Links     []interface{} `json:"links"`
	Mat       [][]float64   `json:"mat"`
	Views     []interface{} `json:"views"`
	CatColors catColors     `json:"cat_colors"`
}

type axisInfo struct {
	Ini     []int      `json:"ini"`
	Clust   []int      `json:"clust"`
	Rank    []int      `json:"rank"`
	Rankvar []int      `json:"rankvar"`
	Cats    [][]string `json:"cats,omitempty"`
	Groups  [][]int    `json:"groups,omitempty"`
}

type datExport struct {
	Nodes struct {
		Row []string `json:"row"`
		Col []string `json:"col"`
	} `json:"nodes"`
	Mat      [][]float64 `json:"mat"`
	NodeInfo struct {
		Row axisInfo `json:"row"`
		Col axisInfo `json:"col"`
	} `json:"node_info"`
}

// ExportNetJSON serializes the network as the named view
func (n *Network) ExportNetJSON(view, indent string) (string, error) {
	if n.mat == nil {
		return "", ErrNotLoaded
	}

	var doc interface{}
	switch view {
	case ViewViz:
		doc = n.viz()
	case ViewDat:
		doc = n.dat()
	default:
		return "", fmt.Errorf("unknown view: %s", view)
	}

	var (
		out []byte
		err error
	)
	switch indent {
	case NoIndent:
		out, err = json.Marshal(doc)
	case Indent:
		out, err = json.MarshalIndent(doc, "", "  ")
	default:
		return "", fmt.Errorf("unknown indent mode: %s", indent)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s view: %w", view, err)
	}

	return string(out), nil
}

func (n *Network) viz() *vizExport {
	return &vizExport{
		RowNodes: n.rows.vizNodes(),
		ColNodes: n.cols.vizNodes(),
		Links:    []interface{}{},
		Mat:      n.mat,
		Views:    []interface{}{},
		CatColors: catColors{
			Row: n.rows.catColors(),
			Col: n.cols.catColors(),
		},
	}
}

func (n *Network) dat() *datExport {
	d := &datExport{Mat: n.mat}
	d.Nodes.Row = n.rows.names
	d.Nodes.Col = n.cols.names
	d.NodeInfo.Row = n.rows.info()
	d.NodeInfo.Col = n.cols.info()
	return d
}

func (a *axis) vizNodes() []vizNode {
	count := len(a.names)
	position := a.positions()
	catIdx := a.catIndexes()

	nodes := make([]vizNode, count)
	for i, name := range a.names {
		node := vizNode{
			Name:    name,
			Ini:     count - i,
			Clust:   position[i],
			Rank:    a.rank[i],
			Rankvar: a.rankvar[i],
		}
		if a.groups != nil {
			node.Group = make([]int, len(a.groups))
			for c := range a.groups {
				node.Group[c] = a.groups[c][i]
			}
		}
		for k := range a.cats {
			node.Cats = append(node.Cats, a.cats[k][i])
			node.CatIdx = append(node.CatIdx, catIdx[k][i])
		}
		nodes[i] = node
	}
	return nodes
}

func (a *axis) info() axisInfo {
	count := len(a.names)
	ini := make([]int, count)
	for i := range ini {
		ini[i] = count - i
	}
	return axisInfo{
		Ini:     ini,
		Clust:   a.order,
		Rank:    a.rank,
		Rankvar: a.rankvar,
		Cats:    a.cats,
		Groups:  a.groups,
	}
}

// positions maps each node index to its place in the display order
func (a *axis) positions() []int {
	pos := make([]int, len(a.order))
	for p, idx := range a.order {
		pos[idx] = p
	}
	return pos
}

// catIndexes numbers category values by first appearance
func (a *axis) catIndexes() [][]int {
	out := make([][]int, len(a.cats))
	for k, values := range a.cats {
		seen := make(map[string]int)
		out[k] = make([]int, len(values))
		for i, v := range values {
			idx, ok := seen[v]
			if !ok {
				idx = len(seen)
				seen[v] = idx
			}
			out[k][i] = idx
		}
	}
	return out
}

func (a *axis) catColors() map[string]map[string]string {
	colors := make(map[string]map[string]string, len(a.cats))
	for k, values := range a.cats {
		key := fmt.Sprintf("cat-%d", k)
		colors[key] = make(map[string]string)
		next := 0
		for _, v := range values {
			if _, ok := colors[key][v]; ok {
				continue
			}
			colors[key][v] = categoryColor(k, next)
			next++
		}
	}
	return colors
}
