package encode

import "github.com/local-minimum/fseq/internal/format"

// Quality encodes the quality line into Phred values using the format's
// quality encoding, or an explicit one supplied by the caller. An explicit
// encoding wins over the format's own.
type Quality struct {
	qualLine int
	enc      format.QualityEncoding
}

// NewQuality builds a quality encoder bound to f. A nil enc uses the
// format's own quality encoding, falling back to Sanger.
func NewQuality(f format.Format, enc *format.QualityEncoding) *Quality {
	q := &Quality{qualLine: f.Shape().QualityLine}
	switch {
	case enc != nil:
		q.enc = *enc
	case f.Quality() != nil:
		q.enc = *f.Quality()
	default:
		q.enc = format.Sanger
	}
	return q
}

func (*Quality) Name() string { return "quality" }
func (*Quality) NeedsSequence() bool { return false }
func (*Quality) NeedsQuality() bool { return true }
func (*Quality) Fill() float64 { return 0 }
func (*Quality) DefaultReports() []string { return []string{"position-average"} }

func (q *Quality) Encode(rec Record, row []float64) {
	line := rec.Line(q.qualLine)
	n := len(line)
	if n > len(row) {
		n = len(row)
	}
	for i := 0; i < n; i++ {
		row[i] = q.enc.Value(line[i])
	}
}
