package clustergram

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyMatrix is returned when the input has no header or no data rows
var ErrEmptyMatrix = errors.New("matrix has no data rows")

// ParseError reports a malformed line of the matrix input
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// matrix is the parsed form of a matrix string
type matrix struct {
	rowNames []string
	colNames []string
	rowCats  [][]string // rowCats[k][i] is category k of row i
	colCats  [][]string
	values   [][]float64
}

type line struct {
	num   int
	cells []string
}

func splitLines(s string) []line {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	lines := make([]line, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, line{num: i + 1, cells: strings.Split(l, "\t")})
	}
	return lines
}

// parseMatrix parses a tab-delimited matrix with row and column labels
func parseMatrix(s string) (*matrix, error) {
	lines := splitLines(s)
	if len(lines) == 0 {
		return nil, ErrEmptyMatrix
	}

	header := lines[0]
	cells := trimTrailingEmpty(header.cells)

	numRowCats := 0
	for _, c := range cells[1:] {
		if c != "" {
			break
		}
		numRowCats++
	}
	labelWidth := numRowCats + 1

	m := &matrix{
		colNames: cells[labelWidth:],
		rowCats:  make([][]string, numRowCats),
	}
	if len(m.colNames) == 0 {
		return nil, &ParseError{Line: header.num, Msg: "header has no column names"}
	}
	for j, name := range m.colNames {
		if name == "" {
			return nil, &ParseError{Line: header.num, Msg: fmt.Sprintf("column %d has an empty name", j+1)}
		}
	}
	ncols := len(m.colNames)

	// nameless lines right under the header carry column categories
	rest := lines[1:]
	for len(rest) > 0 && rest[0].cells[0] == "" && len(rest[0].cells) > 1 {
		l := rest[0]
		values, err := fitRow(l, labelWidth, ncols)
		if err != nil {
			return nil, err
		}
		cats := make([]string, ncols)
		copy(cats, values)
		m.colCats = append(m.colCats, cats)
		rest = rest[1:]
	}

	for _, l := range rest {
		if l.cells[0] == "" {
			return nil, &ParseError{Line: l.num, Msg: "missing row name"}
		}
		values, err := fitRow(l, labelWidth, ncols)
		if err != nil {
			return nil, err
		}

		row := make([]float64, ncols)
		for j, cell := range values {
			v, err := parseValue(cell)
			if err != nil {
				return nil, &ParseError{
					Line: l.num,
					Msg:  fmt.Sprintf("column %q: %v", m.colNames[j], err),
				}
			}
			row[j] = v
		}

		m.rowNames = append(m.rowNames, l.cells[0])
		for k := 0; k < numRowCats; k++ {
			m.rowCats[k] = append(m.rowCats[k], l.cells[k+1])
		}
		m.values = append(m.values, row)
	}

	if len(m.values) == 0 {
		return nil, ErrEmptyMatrix
	}

	return m, nil
}

// fitRow returns the ncols value cells of a line, allowing trailing empty cells
func fitRow(l line, labelWidth, ncols int) ([]string, error) {
	cells := l.cells
	if len(cells) > labelWidth+ncols {
		for _, extra := range cells[labelWidth+ncols:] {
			if strings.TrimSpace(extra) != "" {
				return nil, &ParseError{
					Line: l.num,
					Msg:  fmt.Sprintf("expected %d cells, got %d", labelWidth+ncols, len(cells)),
				}
			}
		}
		cells = cells[:labelWidth+ncols]
	}
	if len(cells) < labelWidth+ncols {
		return nil, &ParseError{
			Line: l.num,
			Msg:  fmt.Sprintf("expected %d cells, got %d", labelWidth+ncols, len(cells)),
		}
	}
	return cells[labelWidth:], nil
}

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", cell)
	}
	return v, nil
}

func trimTrailingEmpty(cells []string) []string {
	end := len(cells)
	for end > 1 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}
