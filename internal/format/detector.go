package format

import (
	"errors"
	"fmt"
)

// Detection errors. Both are fatal for the stream under detection but must
// not abort unrelated streams.
var (
	// ErrUndetermined means no candidate survived, or the lookahead budget
	// ran out with no sole survivor.
	ErrUndetermined = errors.New("format: undetermined")
	// ErrNoFixedShape means the surviving format has no fixed record size
	// and cannot feed the fixed-width encoding pipeline.
	ErrNoFixedShape = errors.New("format: no fixed record shape")
)

// Status is the detector's answer after each fed line.
type Status int

const (
	Undetermined Status = iota
	Decided
	Failed
)

// DefaultMaxLines bounds how many lines Feed will consume before detection
// must settle. Exposed as a tunable through NewDetector.
const DefaultMaxLines = 5000

type candidate struct {
	format  Format
	matcher Matcher
}

// Detector feeds each incoming line to every still-live candidate format and
// eliminates the ones whose matcher rejects it. Detection ends with exactly
// one survivor (Decided) or none (Failed). A sole survivor is confirmed over
// one extra record cycle before being declared, so a format that merely
// outlasted the others on a malformed stream still has to prove itself.
//
// A Detector is single-use and owned by one goroutine.
type Detector struct {
	live     []candidate
	maxLines int
	lines    int

	confirm int // lines left in the confirmation window; -1 while >1 live
	decided Format
	err     error
}

// NewDetector starts detection over the given candidate formats. A nil or
// empty formats slice means Default(); maxLines <= 0 means DefaultMaxLines.
func NewDetector(formats []Format, maxLines int) *Detector {
	if len(formats) == 0 {
		formats = Default()
	}
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	d := &Detector{maxLines: maxLines, confirm: -1}
	for _, f := range formats {
		d.live = append(d.live, candidate{format: f, matcher: f.NewMatcher()})
	}
	return d
}

// Feed classifies one line. Once Decided or Failed has been returned the
// detector keeps returning the same status without consuming further state.
func (d *Detector) Feed(line string) Status {
	switch {
	case d.err != nil:
		return Failed
	case d.decided != nil:
		return Decided
	}

	d.lines++
	kept := d.live[:0]
	for _, c := range d.live {
		if c.matcher.Observe(line) {
			kept = append(kept, c)
		}
	}
	d.live = kept

	switch len(d.live) {
	case 0:
		d.err = fmt.Errorf("%w: no candidate fits after %d lines", ErrUndetermined, d.lines)
		return Failed
	case 1:
		return d.soleSurvivor()
	default:
		if d.lines >= d.maxLines {
			return d.tieBreak()
		}
		return Undetermined
	}
}

// soleSurvivor runs the confirmation window: the last candidate must accept
// one further full record cycle before it is declared.
func (d *Detector) soleSurvivor() Status {
	f := d.live[0].format
	if d.confirm < 0 {
		window := f.Shape().LinesPerRecord
		if window <= 0 {
			window = 2
		}
		d.confirm = window
		return Undetermined
	}
	d.confirm--
	if d.confirm > 0 {
		return Undetermined
	}
	return d.declare(f)
}

// tieBreak resolves lookahead exhaustion with several live candidates: the
// stricter format (smaller give-up threshold) wins; among equals the one
// registered first does.
func (d *Detector) tieBreak() Status {
	best := d.live[0].format
	for _, c := range d.live[1:] {
		if c.format.GiveUp() < best.GiveUp() {
			best = c.format
		}
	}
	return d.declare(best)
}

func (d *Detector) declare(f Format) Status {
	if f.Shape().LinesPerRecord <= 0 {
		d.err = fmt.Errorf("%w: %s", ErrNoFixedShape, f.Name())
		return Failed
	}
	if !f.HasSequence() && !f.HasQuality() {
		d.err = fmt.Errorf("%w: %s carries neither sequence nor quality", ErrNoFixedShape, f.Name())
		return Failed
	}
	d.decided = f
	return Decided
}

// Finish resolves detection at end of input. Streams shorter than the
// lookahead budget routinely end while several candidates are still live;
// the usual tie-break picks the winner. With no live candidate left the
// detector stays Failed.
func (d *Detector) Finish() Status {
	switch {
	case d.err != nil:
		return Failed
	case d.decided != nil:
		return Decided
	case len(d.live) == 0 || d.lines == 0:
		d.err = fmt.Errorf("%w: empty input", ErrUndetermined)
		return Failed
	}
	return d.tieBreak()
}

// Format returns the decided format, or nil before a Decided status.
func (d *Detector) Format() Format { return d.decided }

// Err returns the detection failure, or nil before a Failed status.
func (d *Detector) Err() error { return d.err }

// Lines returns how many lines the detector has consumed.
func (d *Detector) Lines() int { return d.lines }
