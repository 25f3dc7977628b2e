package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local-minimum/fseq/internal/matrix"
)

func buildMatrix(t *testing.T, rows [][]float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.New(len(rows[0]), len(rows), 0)
	require.NoError(t, err)
	for _, vals := range rows {
		i, err := m.Reserve()
		require.NoError(t, err)
		copy(m.Row(i), vals)
	}
	return m.Finalize()
}

func TestPositionAverageDistill(t *testing.T) {
	m := buildMatrix(t, [][]float64{
		{1, 0, 1, 0},
		{1, 1, 0, 0},
		{1, 0.5, 0.5, 0},
	})
	path := filepath.Join(t.TempDir(), "avg.csv")
	require.NoError(t, PositionAverage{Window: 1}.Distill(m, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, recs, 5, "header plus one row per position")
	assert.Equal(t, []string{"position", "mean", "smoothed"}, recs[0])
	assert.Equal(t, []string{"0", "1", "1"}, recs[1])
	assert.Equal(t, []string{"1", "0.5", "0.5"}, recs[2])
	assert.Equal(t, []string{"2", "0.5", "0.5"}, recs[3])
	assert.Equal(t, []string{"3", "0", "0"}, recs[4])
}

func TestPositionAverageEmptyMatrix(t *testing.T) {
	m, err := matrix.New(4, 1, 0)
	require.NoError(t, err)
	m.Finalize()
	err = PositionAverage{}.Distill(m, filepath.Join(t.TempDir(), "avg.csv"))
	require.Error(t, err)
}

func TestMovingAverage(t *testing.T) {
	got := movingAverage([]float64{0, 3, 6}, 3)
	assert.Equal(t, []float64{1.5, 3, 4.5}, got)
}

func TestBuilderConsumeDefaultDir(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "reads.fastq")
	m := buildMatrix(t, [][]float64{{1, 0}, {0, 1}})

	b := NewBuilder(PositionAverage{})
	require.NoError(t, b.Consume(m, source))

	want := filepath.Join(DefaultDir(source), "position-average.csv")
	assert.Equal(t, []string{want}, b.Paths(source))
	_, err := os.Stat(want)
	require.NoError(t, err)
}

func TestBuilderOutputRootAndPrefix(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	m := buildMatrix(t, [][]float64{{1}})

	b := NewBuilder(PositionAverage{})
	b.OutputRoot = root
	b.OutputNamePrefix = "sample1-"
	require.NoError(t, b.Consume(m, "ignored-source"))

	_, err := os.Stat(filepath.Join(root, "sample1-position-average.csv"))
	require.NoError(t, err)
}

func TestByName(t *testing.T) {
	c, err := ByName("position-average")
	require.NoError(t, err)
	assert.Equal(t, "builder", c.Name())
	_, err = ByName("spectrum")
	require.Error(t, err)
}
