package encode

import "github.com/local-minimum/fseq/internal/format"

// GCSentinel marks positions whose symbol belongs to neither the GC nor the
// AT class (ambiguity codes like N, gaps, amino acids). It sits between the
// two class values so downstream averaging is not pulled to either side.
const GCSentinel = 0.5

// GC encodes the sequence line position by position: G and C become 1, A and
// T (and U) become 0, anything else the sentinel. Feeding the result to a
// position-average report yields the GC-content profile along the read.
type GC struct {
	seqLine int
}

// NewGC builds a GC encoder bound to f's record shape.
func NewGC(f format.Format) *GC {
	return &GC{seqLine: f.Shape().SequenceLine}
}

func (*GC) Name() string { return "gc" }
func (*GC) NeedsSequence() bool { return true }
func (*GC) NeedsQuality() bool { return false }
func (*GC) Fill() float64 { return GCSentinel }
func (*GC) DefaultReports() []string { return []string{"position-average"} }

func (g *GC) Encode(rec Record, row []float64) {
	seq := rec.Line(g.seqLine)
	n := len(seq)
	if n > len(row) {
		n = len(row)
	}
	for i := 0; i < n; i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			row[i] = 1
		case 'A', 'T', 'U', 'a', 't', 'u':
			row[i] = 0
		default:
			row[i] = GCSentinel
		}
	}
}
