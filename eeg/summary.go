package eeg

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a loaded payload matrix: its shape and basic value
// statistics.
type Summary struct {
	Rows int
	Cols int
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

// Summarize computes a Summary for the given matrix. A nil or empty matrix
// yields a zero Summary.
func Summarize(m *mat.Dense) Summary {
	if m == nil {
		return Summary{}
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return Summary{Rows: rows, Cols: cols}
	}

	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		values = append(values, m.RawRowView(i)...)
	}

	return Summary{
		Rows: rows,
		Cols: cols,
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: stat.Mean(values, nil),
		Std:  stat.StdDev(values, nil),
	}
}
