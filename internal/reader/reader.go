package reader

// Package reader drives the per-source pipeline: detect the format from the
// opening lines, group subsequent lines into records, fan record encoding
// out to a bounded worker pool writing into a shared growable matrix, and on
// stream exhaustion hand the finalized matrix to report consumers without
// blocking the next source.

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/local-minimum/fseq/internal/encode"
	"github.com/local-minimum/fseq/internal/format"
	"github.com/local-minimum/fseq/internal/matrix"
	"github.com/local-minimum/fseq/internal/report"
)

// Options configures a run. The zero value detects formats, picks the
// winning format's default encoder and consumers, and uses one worker per
// CPU.
type Options struct {
	// Format pins detection to a single candidate; nil detects among all
	// registered formats.
	Format format.Format
	// Encoder names the encoder to force ("gc", "quality", "raw"); empty
	// uses the detected format's default.
	Encoder string
	// Consumers overrides the encoder's default report consumers.
	Consumers []report.Consumer
	// Workers bounds the encode pool; <= 0 means runtime.NumCPU().
	Workers int
	// InitialRows is the matrix capacity allocated before the first grow;
	// <= 0 means DefaultInitialRows. Capacity doubles on exhaustion.
	InitialRows int
	// DetectMaxLines bounds detection lookahead; <= 0 means
	// format.DefaultMaxLines.
	DetectMaxLines int
	Logger         *log.Logger
}

// DefaultInitialRows is the starting matrix capacity.
const DefaultInitialRows = 1024

// Result summarizes one source's run; it is what the run summary file holds.
type Result struct {
	Source     string   `json:"source"`
	JobID      string   `json:"job_id"`
	Format     string   `json:"format,omitempty"`
	Encoder    string   `json:"encoder,omitempty"`
	Records    int      `json:"records"`
	Width      int      `json:"width"`
	DurationMS int64    `json:"duration_ms"`
	Reports    []string `json:"reports,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// Reader runs the pipeline for one source at a time.
type Reader struct {
	opts   Options
	logger *log.Logger
}

// New builds a Reader, applying option defaults.
func New(opts Options) *Reader {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.InitialRows <= 0 {
		opts.InitialRows = DefaultInitialRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Reader{opts: opts, logger: logger}
}

type task struct {
	rec encode.Record
	row int
}

// pool is the bounded encode worker pool. Joining it (join) is the barrier
// the orchestrator runs before any matrix growth or finalization.
type pool struct {
	tasks chan task
	wg    sync.WaitGroup
}

func startPool(workers int, enc encode.Encoder, m *matrix.Matrix) *pool {
	p := &pool{tasks: make(chan task, workers)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				enc.Encode(t.rec, m.Row(t.row))
			}
		}()
	}
	return p
}

func (p *pool) join() {
	close(p.tasks)
	p.wg.Wait()
}

// Read runs the full state machine for one source. Fatal conditions are
// recorded on the Result and returned; they never corrupt other sources'
// state. dispatch registers each report-consumer invocation with the
// caller's await-set and must not block.
func (r *Reader) Read(ctx context.Context, source string, dispatch func(func() error)) Result {
	res := Result{Source: source, JobID: uuid.NewString()}
	start := time.Now()
	defer func() { res.DurationMS = time.Since(start).Milliseconds() }()

	logger := r.logger.With("source", source, "job", res.JobID)

	// A pinned format plus a forced encoder can be validated before any I/O.
	if r.opts.Format != nil && r.opts.Encoder != "" {
		enc, err := encode.ByName(r.opts.Encoder, r.opts.Format)
		if err == nil {
			err = encode.Compatible(enc, r.opts.Format)
		}
		if err != nil {
			res.Err = err.Error()
			logger.Error("encoder rejected", "err", err)
			return res
		}
	}

	in, err := openSource(source)
	if err != nil {
		res.Err = fmt.Sprintf("open: %v", err)
		logger.Error("cannot open source", "err", err)
		return res
	}
	defer in.Close()
	sc := newScanner(in)

	// DETECTING: every line consumed here is replayed for record grouping
	// once the format is locked in.
	var candidates []format.Format
	if r.opts.Format != nil {
		candidates = []format.Format{r.opts.Format}
	}
	det := format.NewDetector(candidates, r.opts.DetectMaxLines)
	var pending []string
	status := format.Undetermined
	for status == format.Undetermined && sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		pending = append(pending, line)
		status = det.Feed(line)
	}
	if status == format.Undetermined {
		if err := sc.Err(); err != nil {
			res.Err = fmt.Sprintf("read: %v", err)
			logger.Error("scan failed during detection", "err", err)
			return res
		}
		status = det.Finish()
	}
	if status == format.Failed {
		res.Err = det.Err().Error()
		logger.Error("format detection failed", "err", det.Err(), "lines", det.Lines())
		return res
	}
	f := det.Format()
	res.Format = f.Name()
	logger.Info("format decided", "format", f.Name(), "lines", det.Lines())

	// Bind the encoder and validate compatibility before any further I/O.
	var enc encode.Encoder
	if r.opts.Encoder != "" {
		enc, err = encode.ByName(r.opts.Encoder, f)
		if err != nil {
			res.Err = err.Error()
			logger.Error("unknown encoder", "err", err)
			return res
		}
	} else {
		enc = encode.DefaultFor(f)
	}
	if err := encode.Compatible(enc, f); err != nil {
		res.Err = err.Error()
		logger.Error("encoder rejected", "err", err)
		return res
	}
	res.Encoder = enc.Name()

	consumers := r.opts.Consumers
	if consumers == nil {
		for _, name := range enc.DefaultReports() {
			c, err := report.ByName(name)
			if err != nil {
				res.Err = err.Error()
				logger.Error("unknown default report", "err", err)
				return res
			}
			consumers = append(consumers, c)
		}
	}

	// STREAMING: group lines into fixed-size records, reserve a row per
	// record in arrival order, and hand the encode to the pool. When the
	// matrix fills, join the pool, grow, restart.
	shape := f.Shape()
	lineAt := shape.SequenceLine
	if enc.NeedsQuality() {
		lineAt = shape.QualityLine
	}

	var (
		m     *matrix.Matrix
		wp    *pool
		group []string
	)
	joinAll := func() {
		if wp != nil {
			wp.join()
			wp = nil
		}
	}
	defer joinAll()

	emit := func(rec encode.Record) error {
		if m == nil {
			width := len(rec.Line(lineAt))
			if width == 0 {
				return fmt.Errorf("first record has no content at line %d", lineAt)
			}
			var err error
			m, err = matrix.New(width, r.opts.InitialRows, enc.Fill())
			if err != nil {
				return err
			}
			res.Width = width
			wp = startPool(r.opts.Workers, enc, m)
		}
		row, err := m.Reserve()
		if errors.Is(err, matrix.ErrFull) {
			joinAll()
			if err = m.Grow(m.Cap() * 2); err != nil {
				return fmt.Errorf("grow: %w", err)
			}
			logger.Debug("matrix grown", "rows", m.Rows(), "capacity", m.Cap())
			wp = startPool(r.opts.Workers, enc, m)
			row, err = m.Reserve()
		}
		if err != nil {
			return err
		}
		wp.tasks <- task{rec: rec, row: row}
		return nil
	}

	consume := func(line string) error {
		group = append(group, line)
		if len(group) < shape.LinesPerRecord {
			return nil
		}
		rec := encode.Record{Lines: group}
		group = nil
		return emit(rec)
	}

	for _, line := range pending {
		if err := consume(line); err != nil {
			res.Err = err.Error()
			logger.Error("encode dispatch failed", "err", err)
			return res
		}
	}
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			res.Err = err.Error()
			return res
		}
		line := sc.Text()
		if line == "" {
			continue
		}
		if err := consume(line); err != nil {
			res.Err = err.Error()
			logger.Error("encode dispatch failed", "err", err)
			return res
		}
	}
	if err := sc.Err(); err != nil {
		res.Err = fmt.Sprintf("read: %v", err)
		logger.Error("scan failed", "err", err)
		return res
	}
	if len(group) > 0 {
		logger.Warn("ignoring incomplete trailing record", "lines", len(group))
	}

	// DRAINING: join all in-flight encodes, finalize, dispatch reports
	// asynchronously and move on.
	joinAll()
	if m == nil {
		logger.Warn("no complete records in source")
		return res
	}
	final := m.Finalize()
	res.Records = final.Rows()
	logger.Info("matrix finalized", "records", res.Records, "width", res.Width)

	for _, c := range consumers {
		if b, ok := c.(*report.Builder); ok {
			res.Reports = append(res.Reports, b.Paths(source)...)
		}
		c := c
		dispatch(func() error {
			if err := c.Consume(final, source); err != nil {
				logger.Error("report consumer failed", "consumer", c.Name(), "err", err)
				return fmt.Errorf("%s: %s: %w", source, c.Name(), err)
			}
			logger.Info("report consumer done", "consumer", c.Name())
			return nil
		})
	}
	return res
}
