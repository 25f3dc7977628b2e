package matrix

// Package matrix holds the shared numeric buffer encode workers write into.
// Rows are reserved in arrival order by a single orchestrator goroutine;
// workers each write only their own reserved row. Growth reallocates the
// backing array and is only legal once every reserved row has been written
// and no worker is in flight, which the orchestrator guarantees with a join
// barrier before calling Grow.

import (
	"errors"
	"fmt"
)

var (
	// ErrFull is returned by Reserve when no capacity remains; the caller
	// must quiesce writers and Grow before reserving again.
	ErrFull = errors.New("matrix: capacity exhausted")
	// ErrSealed is returned for mutations after Finalize.
	ErrSealed = errors.New("matrix: finalized")
)

// Matrix is a dense (capacity x width) float64 matrix with a fill pointer.
// Width is fixed for the matrix lifetime; capacity only grows.
type Matrix struct {
	data   []float64
	width  int
	cap    int
	next   int // rows reserved so far; advanced only by the orchestrator
	fill   float64
	sealed bool
}

// New allocates a matrix of the given row width and initial row capacity.
// Every cell starts at fill, so rows whose encoder writes fewer than width
// cells read back as fill in the untouched positions.
func New(width, capacity int, fill float64) (*Matrix, error) {
	if width <= 0 {
		return nil, fmt.Errorf("matrix: invalid width %d", width)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("matrix: invalid capacity %d", capacity)
	}
	m := &Matrix{
		data:  make([]float64, width*capacity),
		width: width,
		cap:   capacity,
		fill:  fill,
	}
	if fill != 0 {
		for i := range m.data {
			m.data[i] = fill
		}
	}
	return m, nil
}

// Width is the fixed row width.
func (m *Matrix) Width() int { return m.width }

// Cap is the current row capacity.
func (m *Matrix) Cap() int { return m.cap }

// Rows is the number of rows reserved so far.
func (m *Matrix) Rows() int { return m.next }

// Reserve claims the next free row index. It must only be called from the
// orchestrator goroutine; workers receive the returned index and must not
// reserve on their own.
func (m *Matrix) Reserve() (int, error) {
	if m.sealed {
		return 0, ErrSealed
	}
	if m.next >= m.cap {
		return 0, ErrFull
	}
	i := m.next
	m.next++
	return i, nil
}

// Row returns the backing slice for row i. The caller owns writes to it until
// the next join barrier. Concurrent callers must hold distinct indices.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.width : (i+1)*m.width]
}

// At reads a single cell.
func (m *Matrix) At(row, col int) float64 { return m.data[row*m.width+col] }

// Grow extends capacity to newCap rows, preserving all written content and
// the fill pointer. The caller must have joined every outstanding writer:
// Grow moves the backing array and any concurrent Row write would be lost or
// race. Shrinking is not supported.
func (m *Matrix) Grow(newCap int) error {
	if m.sealed {
		return ErrSealed
	}
	if newCap <= m.cap {
		return fmt.Errorf("matrix: grow to %d rows not above current %d", newCap, m.cap)
	}
	data := make([]float64, m.width*newCap)
	copy(data, m.data)
	if m.fill != 0 {
		for i := len(m.data); i < len(data); i++ {
			data[i] = m.fill
		}
	}
	m.data = data
	m.cap = newCap
	return nil
}

// Finalize truncates the matrix to exactly the reserved rows and seals it.
// Further Reserve or Grow calls fail; the matrix is then safe to share
// read-only with report consumers.
func (m *Matrix) Finalize() *Matrix {
	if !m.sealed {
		m.data = m.data[:m.next*m.width]
		m.cap = m.next
		m.sealed = true
	}
	return m
}

// Sealed reports whether Finalize has been called.
func (m *Matrix) Sealed() bool { return m.sealed }
