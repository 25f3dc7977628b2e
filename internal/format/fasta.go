package format

import (
	"math"
	"strings"
)

// FastaSingle is strict FASTA with exactly one sequence line per header. Its
// two-line cycle gives it a fixed record size, so it can drive the encoding
// pipeline directly. It is the strict child of FastaMulti: every stream it
// accepts, the relaxed parent accepts too, and the tie-break prefers it.
type FastaSingle struct{}

func (FastaSingle) Name() string { return "FASTA:SINGLELINE" }
func (FastaSingle) Shape() Shape {
	return Shape{LinesPerRecord: 2, SequenceLine: 1, QualityLine: -1}
}
func (FastaSingle) HasSequence() bool { return true }
func (FastaSingle) HasQuality() bool { return false }
func (FastaSingle) Quality() *QualityEncoding { return nil }
func (FastaSingle) GiveUp() int { return 1 }

func (FastaSingle) NewMatcher() Matcher { return &fastaSingleMatcher{} }

type fastaSingleMatcher struct {
	pos        int
	eliminated bool
}

func (m *fastaSingleMatcher) Observe(line string) bool {
	if m.eliminated {
		return false
	}
	var ok bool
	if m.pos == 0 {
		ok = strings.HasPrefix(line, ">")
	} else {
		ok = isSequence(line)
	}
	if !ok {
		m.eliminated = true
		return false
	}
	m.pos = (m.pos + 1) % 2
	return true
}

// FastaMulti is FASTA with header-delimited, variable-length sequence bodies.
// As the relaxed parent of FastaSingle it carries an unbounded give-up
// threshold: it must never be eliminated while the stricter child could still
// match, so it only rejects lines that no FASTA variant produces. The header
// line doubles as the record-cycle wrap signal since the body length varies.
type FastaMulti struct{}

func (FastaMulti) Name() string { return "FASTA:MULTILINE" }

// Shape reports no fixed record size; a stream decided as multi-line FASTA
// cannot be grouped into fixed-width records.
func (FastaMulti) Shape() Shape {
	return Shape{LinesPerRecord: 0, SequenceLine: 1, QualityLine: -1}
}
func (FastaMulti) HasSequence() bool { return true }
func (FastaMulti) HasQuality() bool { return false }
func (FastaMulti) Quality() *QualityEncoding { return nil }
func (FastaMulti) GiveUp() int { return math.MaxInt }

func (FastaMulti) NewMatcher() Matcher { return &fastaMultiMatcher{} }

type fastaMultiMatcher struct {
	started    bool
	prevHeader bool
	eliminated bool
}

func (m *fastaMultiMatcher) Observe(line string) bool {
	if m.eliminated {
		return false
	}
	header := strings.HasPrefix(line, ">")
	if !m.started {
		m.started = true
		m.prevHeader = header
		if !header {
			m.eliminated = true
		}
		return header
	}
	switch {
	case header:
		// Two headers in a row means an empty record, which no FASTA
		// variant produces.
		if m.prevHeader {
			m.eliminated = true
			return false
		}
		m.prevHeader = true
		return true
	case isSequence(line):
		m.prevHeader = false
		return true
	default:
		m.eliminated = true
		return false
	}
}
