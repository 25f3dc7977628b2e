package format

import "strings"

// FastQ is the four-line cycle: @header, sequence, + separator, quality.
type FastQ struct{}

func (FastQ) Name() string { return "FASTQ" }
func (FastQ) Shape() Shape {
	return Shape{LinesPerRecord: 4, SequenceLine: 1, QualityLine: 3}
}
func (FastQ) HasSequence() bool { return true }
func (FastQ) HasQuality() bool { return true }
func (FastQ) Quality() *QualityEncoding { return &Sanger }
func (FastQ) GiveUp() int { return 1 }

func (FastQ) NewMatcher() Matcher { return &fastqMatcher{} }

type fastqMatcher struct {
	pos        int
	eliminated bool
}

func (m *fastqMatcher) Observe(line string) bool {
	if m.eliminated {
		return false
	}
	var ok bool
	switch m.pos {
	case 0:
		ok = strings.HasPrefix(line, "@")
	case 1:
		ok = isSequence(line)
	case 2:
		ok = strings.HasPrefix(line, "+")
	case 3:
		// Quality strings may contain nearly any printable byte; length
		// agreement with the sequence line is not checked here.
		ok = line != ""
	}
	if !ok {
		m.eliminated = true
		return false
	}
	m.pos = (m.pos + 1) % 4
	return true
}

// QualityEncoding maps quality-line bytes to numeric values.
type QualityEncoding struct {
	Name   string
	Offset int
}

// Sanger is Phred+33, the offset used by modern FASTQ producers.
var Sanger = QualityEncoding{Name: "sanger", Offset: 33}

// Illumina13 is the legacy Phred+64 offset of Illumina 1.3-1.7 pipelines.
var Illumina13 = QualityEncoding{Name: "illumina-1.3", Offset: 64}

// Value converts one quality byte; bytes below the offset clamp to zero.
func (q QualityEncoding) Value(b byte) float64 {
	v := int(b) - q.Offset
	if v < 0 {
		return 0
	}
	return float64(v)
}
