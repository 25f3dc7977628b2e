package encode

// Package encode turns one decoded record into one numeric matrix row.
// Encoders are configured at construction and hold no mutable state, so a
// single encoder value serves any number of concurrent Encode calls as long
// as each call gets its own destination row.

import (
	"errors"
	"fmt"

	"github.com/local-minimum/fseq/internal/format"
)

// ErrMismatch means an encoder needs record components the bound format does
// not carry. It is surfaced before any stream I/O.
var ErrMismatch = errors.New("encode: encoder incompatible with format")

// Record is one decoded record: the ordered lines of a single record cycle,
// as grouped by the reader once a format is locked in. Records are read-only
// once handed to an encoder.
type Record struct {
	Lines []string
}

// Line returns the line at record-relative index i, or "" when the record is
// short. Encoders use it so malformed records clip instead of failing.
func (r Record) Line(i int) string {
	if i < 0 || i >= len(r.Lines) {
		return ""
	}
	return r.Lines[i]
}

// Encoder maps records to rows. Implementations must be safe for concurrent
// Encode calls against distinct rows and must never fail: input shorter than
// the row leaves trailing cells at their pre-fill value, input longer is
// truncated at the row width.
type Encoder interface {
	Name() string
	// NeedsSequence and NeedsQuality declare which record components the
	// encoder reads; they drive the format compatibility check.
	NeedsSequence() bool
	NeedsQuality() bool
	// Fill is the neutral cell value rows are initialized with.
	Fill() float64
	// Encode writes the record into row, clipping to len(row).
	Encode(rec Record, row []float64)
	// DefaultReports names the report consumers to attach when the caller
	// did not pick any (resolved by the report package).
	DefaultReports() []string
}

// Compatible verifies that f carries every component e reads.
func Compatible(e Encoder, f format.Format) error {
	if e.NeedsSequence() && !f.HasSequence() {
		return fmt.Errorf("%w: %s needs a sequence line %s lacks", ErrMismatch, e.Name(), f.Name())
	}
	if e.NeedsQuality() && !f.HasQuality() {
		return fmt.Errorf("%w: %s needs a quality line %s lacks", ErrMismatch, e.Name(), f.Name())
	}
	return nil
}

// DefaultFor picks the stock encoder for a detected format: quality-bearing
// formats get the Phred quality encoder, sequence-only formats the GC
// encoder. It is the fallback when the caller did not force an encoder.
func DefaultFor(f format.Format) Encoder {
	if f.HasQuality() {
		return NewQuality(f, nil)
	}
	return NewGC(f)
}

// ByName resolves a caller-chosen encoder for the format.
func ByName(name string, f format.Format) (Encoder, error) {
	switch name {
	case "gc":
		return NewGC(f), nil
	case "quality":
		return NewQuality(f, nil), nil
	case "raw":
		return NewRaw(f), nil
	default:
		return nil, fmt.Errorf("encode: unknown encoder %q", name)
	}
}
