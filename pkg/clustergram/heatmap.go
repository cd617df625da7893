package clustergram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Heatmap is one table or index heatmap as served by the key visualizer:
// Labels are database, table and index name (empty for record data), and
// Values holds one row per key range with one column per time slot.
type Heatmap struct {
	Labels []string          `json:"labels"`
	Ranges []json.RawMessage `json:"ranges"`
	Values [][]float64       `json:"values"`
}

// MatrixFromHeatmaps lays out heatmaps as a matrix string with four row
// label columns (bucket, database, table, data type) and one column per
// time slot. Values are shifted by one so a log opacity scale stays finite.
func MatrixFromHeatmaps(heatmaps []Heatmap) (string, error) {
	width := -1
	for _, h := range heatmaps {
		if len(h.Values) > 0 {
			width = len(h.Values[0])
			break
		}
	}
	if width <= 0 {
		return "", ErrEmptyMatrix
	}

	var b strings.Builder
	b.WriteString("\t\t\t")
	for j := 0; j < width; j++ {
		b.WriteString("\t")
		b.WriteString(strconv.Itoa(j) + "m")
	}
	b.WriteString("\n")

	bucket := 0
	for hi, h := range heatmaps {
		if len(h.Ranges) != 0 && len(h.Ranges) != len(h.Values) {
			return "", fmt.Errorf("heatmap %d: %d ranges for %d value rows", hi, len(h.Ranges), len(h.Values))
		}

		db, table, index := label(h.Labels, 0), label(h.Labels, 1), label(h.Labels, 2)
		dataType := "Data"
		if index != "" {
			dataType = "index " + index
		}

		for ri, row := range h.Values {
			if len(row) != width {
				return "", fmt.Errorf("heatmap %d row %d: %d values, expected %d", hi, ri, len(row), width)
			}
			fmt.Fprintf(&b, "Bucket: bucket-%d\tDB: %s\tTable: %s\tData Type: %s", bucket, db, table, dataType)
			for _, v := range row {
				b.WriteString("\t")
				b.WriteString(strconv.FormatFloat(v+1, 'f', -1, 64))
			}
			b.WriteString("\n")
			bucket++
		}
	}

	return b.String(), nil
}

var labelReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func label(labels []string, i int) string {
	if i >= len(labels) {
		return ""
	}
	return labelReplacer.Replace(labels[i])
}
