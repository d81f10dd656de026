package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrEmpty is returned when a matrix has no rows.
	ErrEmpty = errors.New("matrix has no rows")

	// ErrZeroDimension is returned when the rows of a matrix have no components.
	ErrZeroDimension = errors.New("matrix rows have zero dimension")

	// ErrRagged is returned when the rows of a matrix differ in length.
	ErrRagged = errors.New("matrix rows differ in dimension")

	// ErrNonFinite is returned when a matrix contains NaN or infinite values.
	ErrNonFinite = errors.New("matrix contains non-finite values")
)

// Vector is a point in D-dimensional real space.
type Vector []float64

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	return slices.Clone(v)
}

// Matrix is an ordered sequence of vectors of equal dimension.
type Matrix []Vector

// Len returns the number of rows.
func (m Matrix) Len() int { return len(m) }

// Dim returns the dimension of the first row, or 0 for an empty matrix.
func (m Matrix) Dim() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Validate checks that m is non-empty, rectangular and finite.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return ErrEmpty
	}
	dim := len(m[0])
	if dim == 0 {
		return ErrZeroDimension
	}
	for i, row := range m {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d components, want %d", ErrRagged, i, len(row), dim)
		}
		for _, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: row %d", ErrNonFinite, i)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = row.Clone()
	}
	return out
}

// Flatten returns the rows of m concatenated in order.
func (m Matrix) Flatten() []float64 {
	out := make([]float64, 0, len(m)*m.Dim())
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

// FromRows converts a [][]float64 into a Matrix without copying.
func FromRows(rows [][]float64) Matrix {
	m := make(Matrix, len(rows))
	for i, r := range rows {
		m[i] = r
	}
	return m
}

// Rows converts m into a [][]float64 without copying.
func (m Matrix) Rows() [][]float64 {
	rows := make([][]float64, len(m))
	for i, r := range m {
		rows[i] = r
	}
	return rows
}

// Labels assigns each point of a point set to a cluster index.
type Labels []int

// Clone returns a copy of l.
func (l Labels) Clone() Labels {
	return slices.Clone(l)
}
