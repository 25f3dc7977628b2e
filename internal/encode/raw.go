package encode

import "github.com/local-minimum/fseq/internal/format"

// Raw is the identity-style fallback: each sequence byte becomes its numeric
// value. Useful when no purpose-built encoder fits the analysis.
type Raw struct {
	seqLine int
}

func NewRaw(f format.Format) *Raw {
	return &Raw{seqLine: f.Shape().SequenceLine}
}

func (*Raw) Name() string { return "raw" }
func (*Raw) NeedsSequence() bool { return true }
func (*Raw) NeedsQuality() bool { return false }
func (*Raw) Fill() float64 { return 0 }
func (*Raw) DefaultReports() []string { return nil }

func (r *Raw) Encode(rec Record, row []float64) {
	seq := rec.Line(r.seqLine)
	n := len(seq)
	if n > len(row) {
		n = len(row)
	}
	for i := 0; i < n; i++ {
		row[i] = float64(seq[i])
	}
}
