package matrix

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0, 10, 0)
	require.Error(t, err)
	_, err = New(10, 0, 0)
	require.Error(t, err)

	m, err := New(3, 2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Cap())
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 0.5, m.At(1, 2))
}

func TestReserveUntilFull(t *testing.T) {
	m, err := New(2, 3, 0)
	require.NoError(t, err)
	for want := 0; want < 3; want++ {
		i, err := m.Reserve()
		require.NoError(t, err)
		assert.Equal(t, want, i)
	}
	_, err = m.Reserve()
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 3, m.Rows())
}

func TestGrowPreservesContent(t *testing.T) {
	m, err := New(4, 2, 0.5)
	require.NoError(t, err)
	for r := 0; r < 2; r++ {
		i, err := m.Reserve()
		require.NoError(t, err)
		row := m.Row(i)
		for c := range row {
			row[c] = float64(10*r + c)
		}
	}

	require.NoError(t, m.Grow(8))
	assert.Equal(t, 8, m.Cap())
	assert.Equal(t, 2, m.Rows(), "fill pointer unchanged by growth")
	for r := 0; r < 2; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, float64(10*r+c), m.At(r, c))
		}
	}
	// New capacity carries the fill value.
	assert.Equal(t, 0.5, m.At(5, 0))

	require.Error(t, m.Grow(8), "grow must strictly increase capacity")
	require.Error(t, m.Grow(3))
}

func TestConcurrentRowWrites(t *testing.T) {
	const rows, width = 64, 16
	m, err := New(width, rows, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for r := 0; r < rows; r++ {
		i, err := m.Reserve()
		require.NoError(t, err)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row := m.Row(i)
			for c := range row {
				row[c] = float64(i)
			}
		}(i)
	}
	wg.Wait()

	for r := 0; r < rows; r++ {
		for c := 0; c < width; c++ {
			require.Equal(t, float64(r), m.At(r, c))
		}
	}
}

func TestFinalizeSeals(t *testing.T) {
	m, err := New(2, 4, 0)
	require.NoError(t, err)
	i, err := m.Reserve()
	require.NoError(t, err)
	m.Row(i)[0] = 7

	final := m.Finalize()
	assert.Same(t, m, final)
	assert.True(t, final.Sealed())
	assert.Equal(t, 1, final.Rows())
	assert.Equal(t, 1, final.Cap(), "finalize truncates to rows written")
	assert.Equal(t, 7.0, final.At(0, 0))

	_, err = m.Reserve()
	require.ErrorIs(t, err, ErrSealed)
	require.ErrorIs(t, m.Grow(100), ErrSealed)
}
