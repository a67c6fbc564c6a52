package delimited

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Epistemic-Technology/docparse/internal/tabular"
)

// ColumnStats are descriptive statistics for one numeric column. Std is the
// sample standard deviation.
type ColumnStats struct {
	Column string
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
}

func (s ColumnStats) String() string {
	return fmt.Sprintf("%s: mean=%s, std=%s, min=%s, max=%s",
		s.Column, formatStat(s.Mean), formatStat(s.Std), formatStat(s.Min), formatStat(s.Max))
}

// formatStat prints two decimals, or "nan" for an undefined statistic.
func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// NumericStats returns statistics for every column whose non-empty values
// all parse as numbers. A column with no values at all counts as numeric
// and gets nan statistics; one value gives a nan std.
func NumericStats(frame tabular.Frame) []ColumnStats {
	var out []ColumnStats
	for i, col := range frame.Columns {
		values, ok := numericValues(frame.Rows, i)
		if !ok {
			continue
		}
		if len(values) == 0 {
			nan := math.NaN()
			out = append(out, ColumnStats{Column: col, Mean: nan, Std: nan, Min: nan, Max: nan})
			continue
		}
		out = append(out, ColumnStats{
			Column: col,
			Mean:   stat.Mean(values, nil),
			Std:    stat.StdDev(values, nil),
			Min:    floats.Min(values),
			Max:    floats.Max(values),
		})
	}
	return out
}

// numericValues parses the non-empty cells of column col. Whitespace-only
// cells are text, so they make the column non-numeric.
func numericValues(rows [][]string, col int) ([]float64, bool) {
	var values []float64
	for _, row := range rows {
		if col >= len(row) || row[col] == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, false
		}
		values = append(values, f)
	}
	return values, true
}
