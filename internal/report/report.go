package report

// Package report receives finished matrices and turns them into on-disk
// output. The pipeline treats consumers as opaque: it hands over a finalized
// matrix and a source identifier, asynchronously, and only needs the
// dispatch to be awaitable (the sequencer owns the await-set).

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/local-minimum/fseq/internal/matrix"
)

// Consumer processes one finalized matrix for one data source. Consume runs
// on a dispatch goroutine after the source's pipeline has moved on; it must
// treat the matrix as read-only.
type Consumer interface {
	Name() string
	Consume(m *matrix.Matrix, source string) error
}

// Report distills a finished matrix into one output file.
type Report interface {
	Name() string
	Distill(m *matrix.Matrix, path string) error
}

// Builder fans a finished matrix out to its reports, handling output
// placement. The zero OutputRoot puts reports in a "<source>.reports"
// directory next to the data source.
type Builder struct {
	OutputRoot       string
	OutputNamePrefix string
	reports          []Report
}

// NewBuilder creates a builder over the given reports.
func NewBuilder(reports ...Report) *Builder {
	return &Builder{reports: reports}
}

// AddReports appends further reports to the fan-out.
func (b *Builder) AddReports(reports ...Report) *Builder {
	b.reports = append(b.reports, reports...)
	return b
}

func (b *Builder) Name() string { return "builder" }

// Consume writes every report under the resolved output directory. The first
// failing report aborts the fan-out; earlier outputs are left in place.
func (b *Builder) Consume(m *matrix.Matrix, source string) error {
	dir := b.OutputRoot
	if dir == "" {
		dir = DefaultDir(source)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	for _, r := range b.reports {
		path := filepath.Join(dir, b.OutputNamePrefix+r.Name()+".csv")
		if err := r.Distill(m, path); err != nil {
			return fmt.Errorf("report %s: %w", r.Name(), err)
		}
	}
	return nil
}

// Paths returns the file paths Consume would write for source, in order.
func (b *Builder) Paths(source string) []string {
	dir := b.OutputRoot
	if dir == "" {
		dir = DefaultDir(source)
	}
	paths := make([]string, 0, len(b.reports))
	for _, r := range b.reports {
		paths = append(paths, filepath.Join(dir, b.OutputNamePrefix+r.Name()+".csv"))
	}
	return paths
}

// DefaultDir is the per-source report directory: a sibling of the source
// named after it.
func DefaultDir(source string) string {
	return source + ".reports"
}

// ByName builds the stock consumer registered under name; encoders use these
// names to suggest default reports.
func ByName(name string) (Consumer, error) {
	switch name {
	case "position-average":
		return NewBuilder(PositionAverage{}), nil
	default:
		return nil, fmt.Errorf("report: unknown report %q", name)
	}
}
