package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mspro-labs/coin-filter/internal/exporter"
	"mspro-labs/coin-filter/internal/filter"
	"mspro-labs/coin-filter/internal/logging"
	"mspro-labs/coin-filter/internal/metrics"
	"mspro-labs/coin-filter/internal/models"
)

// Source provides the full coin listing for one run.
type Source interface {
	FetchCoins(ctx context.Context) ([]models.Coin, error)
	URL() string
}

// Exporter runs fetch, filter and write in sequence. Metrics is optional.
type Exporter struct {
	Source  Source
	Sink    exporter.Sink
	Metrics *metrics.Recorder
}

// Result summarises a successful run.
type Result struct {
	RunID      string
	OutputPath string
	Fetched    int
	Exported   int
}

// Run validates criteria before any I/O, then fetches, filters and writes.
// Any failure aborts the run; nothing is retried.
func (e *Exporter) Run(ctx context.Context, criteria models.Criteria) (Result, error) {
	logger := logging.Component("pipeline")

	// 1. Validate bounds
	if err := filter.Validate(criteria); err != nil {
		return Result{}, err
	}

	run := models.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		SourceURL: e.Source.URL(),
		Criteria:  criteria,
	}
	logger.Info().
		Str("run_id", run.ID).
		Str("source_url", run.SourceURL).
		Str("criteria", criteria.String()).
		Bool("unfiltered", criteria.IsEmpty()).
		Msg("starting export")

	success := false
	if e.Metrics != nil {
		defer func() { e.Metrics.ObserveRun(run.StartedAt, success) }()
	}

	// 2. Fetch listing
	coins, err := e.Source.FetchCoins(ctx)
	if err != nil {
		return Result{}, err
	}
	run.Fetched = len(coins)

	// 3. Apply filters
	accepted := filter.Apply(criteria, coins)
	logger.Info().
		Str("run_id", run.ID).
		Int("fetched", len(coins)).
		Int("accepted", len(accepted)).
		Msg("filtered listing")
	if e.Metrics != nil {
		e.Metrics.ObserveFilter(len(coins), len(accepted))
	}

	// 4. Write output
	if err := e.Sink.Write(ctx, run, accepted); err != nil {
		return Result{}, err
	}

	success = true
	return Result{
		RunID:      run.ID,
		OutputPath: e.Sink.Path(),
		Fetched:    len(coins),
		Exported:   len(accepted),
	}, nil
}
