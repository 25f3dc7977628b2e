package format

// Package format recognizes line-oriented sequence file layouts (single-line
// FASTA, multi-line FASTA, FASTQ) from the leading lines of a stream. Each
// format contributes a Matcher, a small state machine that judges one line at
// a time; the Detector feeds every live matcher and eliminates the ones that
// stop fitting.

import (
	"regexp"
	"strings"
)

// Shape describes how consecutive lines group into one record.
type Shape struct {
	// LinesPerRecord is the fixed record cycle length. Zero means the format
	// has no fixed record size and cannot drive the encoding pipeline on its
	// own.
	LinesPerRecord int
	// SequenceLine is the record-relative index of the symbol sequence line.
	SequenceLine int
	// QualityLine is the record-relative index of the quality line, or -1.
	QualityLine int
}

// Matcher consumes one line per call and reports whether the line is still
// consistent with the format at the matcher's current position in the record
// cycle. Once a line has been rejected the matcher stays eliminated; further
// Observe calls return false without changing state. Matchers are owned by a
// single goroutine and are not safe for concurrent use.
type Matcher interface {
	Observe(line string) bool
}

// Format is one recognized file layout.
type Format interface {
	Name() string
	Shape() Shape
	HasSequence() bool
	HasQuality() bool
	// Quality returns the quality-value mapping carried by the format, or
	// nil when the format has no quality line.
	Quality() *QualityEncoding
	// GiveUp is the mismatch tolerance of the format's matcher. Smaller
	// values mean a stricter format; the detector prefers stricter formats
	// when a tie must be broken.
	GiveUp() int
	// NewMatcher returns a fresh matcher positioned at the start of a
	// record cycle.
	NewMatcher() Matcher
}

// Default returns the formats considered during detection, most specific
// first. The order is the deterministic tie-break of last resort.
func Default() []Format {
	return []Format{FastaSingle{}, FastaMulti{}, FastQ{}}
}

// ByName resolves a format by its Name, case-insensitively.
func ByName(name string) (Format, bool) {
	for _, f := range Default() {
		if strings.EqualFold(f.Name(), name) {
			return f, true
		}
	}
	return nil, false
}

// Sequence lines may be nucleotides or amino acids; headers and separators
// are matched by their leading marker byte.
var sequenceLine = regexp.MustCompile(`^[A-Za-z*-]+$`)

func isSequence(line string) bool { return sequenceLine.MatchString(line) }
