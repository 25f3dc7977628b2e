package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/local-minimum/fseq/internal/matrix"
)

// PositionAverage distills a matrix into per-position column means: for a
// GC-encoded matrix that is the GC-content profile along the read, for a
// quality matrix the mean Phred value per cycle. A centered moving average
// over smoothWindow positions is written alongside the raw mean.
type PositionAverage struct {
	// Window is the smoothing window width; zero means DefaultWindow.
	Window int
}

// DefaultWindow is the smoothing window used when none is configured.
const DefaultWindow = 7

func (PositionAverage) Name() string { return "position-average" }

// Distill writes one CSV row per matrix column: position, mean, smoothed.
func (p PositionAverage) Distill(m *matrix.Matrix, path string) error {
	rows, width := m.Rows(), m.Width()
	if rows == 0 {
		return fmt.Errorf("position-average: empty matrix")
	}

	means := make([]float64, width)
	for c := 0; c < width; c++ {
		var sum float64
		for r := 0; r < rows; r++ {
			sum += m.At(r, c)
		}
		means[c] = sum / float64(rows)
	}
	smoothed := movingAverage(means, p.window())

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"position", "mean", "smoothed"}); err != nil {
		f.Close()
		return err
	}
	for c := 0; c < width; c++ {
		rec := []string{
			strconv.Itoa(c),
			strconv.FormatFloat(means[c], 'g', -1, 64),
			strconv.FormatFloat(smoothed[c], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p PositionAverage) window() int {
	if p.Window > 0 {
		return p.Window
	}
	return DefaultWindow
}

// movingAverage is a centered moving mean; the window shrinks at the edges.
func movingAverage(vals []float64, window int) []float64 {
	half := window / 2
	out := make([]float64, len(vals))
	for i := range vals {
		lo, hi := i-half, i+half
		if lo < 0 {
			lo = 0
		}
		if hi > len(vals)-1 {
			hi = len(vals) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
