package reader

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Sequencer applies the Reader pipeline to each data source in order.
// Reading is never parallelized across sources, but a finished source's
// report dispatches stay outstanding while the next source is being read;
// Run awaits every dispatch before returning.
type Sequencer struct {
	reader *Reader
	logger *log.Logger
}

// NewSequencer builds a Sequencer over the given options.
func NewSequencer(opts Options) *Sequencer {
	r := New(opts)
	return &Sequencer{reader: r, logger: r.logger}
}

// Run processes every source and returns one Result per source, in input
// order. A source's fatal error is recorded on its Result and does not stop
// the run; the returned error is the first report-consumer failure, or the
// context error if the run was cancelled between sources.
func (s *Sequencer) Run(ctx context.Context, sources []string) ([]Result, error) {
	var dispatches errgroup.Group
	results := make([]Result, 0, len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			dispatches.Wait()
			return results, err
		}
		res := s.reader.Read(ctx, src, func(fn func() error) {
			dispatches.Go(fn)
		})
		if res.Err != "" {
			s.logger.Error("source failed", "source", src, "err", res.Err)
		}
		results = append(results, res)
	}

	err := dispatches.Wait()
	return results, err
}
