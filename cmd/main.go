package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/local-minimum/fseq/internal/config"
	"github.com/local-minimum/fseq/internal/encode"
	"github.com/local-minimum/fseq/internal/format"
	"github.com/local-minimum/fseq/internal/reader"
	"github.com/local-minimum/fseq/internal/report"

	"github.com/charmbracelet/log"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	total := n
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			break
		}
		ts := time.Now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return total, err
		}
	}
	return total, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

func main() {
	// CLI flags
	configFlag := flag.String("config", "", "path to config.json or config.yaml (optional)")
	summaryFlag := flag.String("out", "", "run summary JSON path (default fseq-run.json)")
	reportRootFlag := flag.String("report-root", "", "directory for all reports (default: <source>.reports next to each input)")
	formatFlag := flag.String("format", "", "pin the input format (FASTA:SINGLELINE, FASTA:MULTILINE, FASTQ) instead of detecting")
	encoderFlag := flag.String("encoder", "", "encoder to use (gc, quality, raw; default: detected format's default)")
	workersFlag := flag.Int("workers", 0, "encode worker count (default: number of CPUs)")
	rowsFlag := flag.Int("rows", 0, "initial matrix row capacity (default 1024)")
	detectFlag := flag.Int("detect-lines", 0, "max lines consumed by format detection (default 5000)")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("fseq", version)
		return
	}

	// load config (optional file); on a parse error keep defaults so logging
	// can come up before the fatal below
	cfg, cfgErr := config.LoadConfig(*configFlag)
	if cfg == nil {
		cfg = &config.Config{}
	}

	// merge CLI flags into config (flags override config when provided)
	if *summaryFlag != "" {
		cfg.RunSummary = *summaryFlag
	}
	if *reportRootFlag != "" {
		cfg.ReportRoot = *reportRootFlag
	}
	if *formatFlag != "" {
		cfg.Format = *formatFlag
	}
	if *encoderFlag != "" {
		cfg.Encoder = *encoderFlag
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if *rowsFlag > 0 {
		cfg.InitialRows = *rowsFlag
	}
	if *detectFlag > 0 {
		cfg.DetectMaxLines = *detectFlag
	}
	sources := flag.Args()
	if len(sources) == 0 {
		sources = cfg.Inputs
	}

	// configure logger output
	var loggerOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			// write to both stderr and file so running interactively still shows logs
			loggerOut = io.MultiWriter(os.Stderr, f)
			defer func() { _ = f.Close() }()
		}
	}
	// If stderr is a terminal-like device, force colors for libraries that honor FORCE_COLOR.
	if fi, err := os.Stderr.Stat(); err == nil {
		if fi.Mode()&os.ModeCharDevice != 0 {
			_ = os.Setenv("FORCE_COLOR", "1")
		}
	}
	// create logger backed by the timestamping writer and expose Fd so charm.log can detect TTY
	tw := &timestampWriter{w: loggerOut}
	termW := &terminalWriter{w: tw, fd: os.Stderr.Fd()}
	logger := log.New(termW)

	// apply log level from flags/config (flags override config)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			logger.SetLevel(log.DebugLevel)
		case "info", "":
			logger.SetLevel(log.InfoLevel)
		case "warn", "warning":
			logger.SetLevel(log.WarnLevel)
		case "error":
			logger.SetLevel(log.ErrorLevel)
		default:
			logger.SetLevel(log.InfoLevel)
			logger.Warn("unknown log_level in config, defaulting to info", "provided", cfg.LogLevel)
		}
	}
	if cfgErr != nil {
		logger.Fatal("cannot parse config", "err", cfgErr)
	}
	if len(sources) == 0 {
		logger.Fatal("no input files; pass paths as arguments or set inputs in the config")
	}

	logger.Info("starting fseq", "sources", len(sources), "workers", cfg.Workers, "format", cfg.Format, "encoder", cfg.Encoder)

	opts := reader.Options{
		Encoder:        cfg.Encoder,
		Workers:        cfg.Workers,
		InitialRows:    cfg.InitialRows,
		DetectMaxLines: cfg.DetectMaxLines,
		Logger:         logger,
	}
	if cfg.Format != "" {
		f, ok := format.ByName(cfg.Format)
		if !ok {
			logger.Fatal("unknown format", "format", cfg.Format)
		}
		opts.Format = f
	}
	if cfg.Encoder != "" {
		// fail fast on typos before opening any input
		if _, err := encode.ByName(cfg.Encoder, format.FastQ{}); err != nil {
			logger.Fatal("unknown encoder", "encoder", cfg.Encoder)
		}
	}
	if cfg.ReportRoot != "" {
		b := report.NewBuilder(report.PositionAverage{})
		b.OutputRoot = cfg.ReportRoot
		opts.Consumers = []report.Consumer{b}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := reader.NewSequencer(opts).Run(ctx, sources)
	if err != nil {
		logger.Error("report dispatch failed", "err", err)
	}

	failed := 0
	records := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
			continue
		}
		records += r.Records
	}
	logger.Info("run finished", "sources", len(results), "failed", failed, "records", records, "duration_ms", time.Since(start).Milliseconds())

	summaryPath := cfg.RunSummary
	if summaryPath == "" {
		summaryPath = "fseq-run.json"
	}
	data, merr := json.MarshalIndent(results, "", "  ")
	if merr != nil {
		logger.Fatal("json marshal failed", "err", merr)
	}
	if werr := os.WriteFile(summaryPath, data, 0o644); werr != nil {
		logger.Error("failed to write run summary", "path", summaryPath, "err", werr)
	} else {
		logger.Info("wrote run summary", "path", summaryPath, "sources", len(results))
	}

	if failed > 0 || err != nil {
		os.Exit(1)
	}
}
