package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"mspro-labs/coin-filter/internal/config"
	"mspro-labs/coin-filter/internal/exporter"
	"mspro-labs/coin-filter/internal/filter"
	"mspro-labs/coin-filter/internal/market"
	"mspro-labs/coin-filter/internal/metrics"
	"mspro-labs/coin-filter/internal/models"
	"mspro-labs/coin-filter/internal/pipeline"
)

// pushTimeout bounds the Pushgateway request after an export.
var pushTimeout = 5 * time.Second

type exportOptions struct {
	lePrice, gePrice   float64
	leSupply, geSupply float64
	output             string
	format             string
	sourceURL          string
	configPath         string
}

func (o *exportOptions) bindFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&o.lePrice, "le-price", 0, "Less than equal to price (US $)")
	fs.Float64Var(&o.gePrice, "ge-price", 0, "Greater than equal to price (US $)")
	fs.Float64Var(&o.leSupply, "le-circulating-supply", 0, "Less than equal to circulating supply")
	fs.Float64Var(&o.geSupply, "ge-circulating-supply", 0, "Greater than equal to circulating supply")
	fs.StringVarP(&o.output, "output", "o", "", "Output file (default coins.csv, coins.xlsx or coins.db by format)")
	fs.StringVar(&o.format, "format", "", "Output format: csv, xlsx or sqlite (default csv)")
	fs.StringVar(&o.sourceURL, "source-url", "", "Market-data listing endpoint (default "+config.DefaultSourceURL+")")
	fs.StringVar(&o.configPath, "config", "", "YAML config file (default $COINFILTER_CONFIG_PATH or "+config.DefaultConfigPath+")")
}

// criteria builds bounds from the flags the user actually set, so 0 is a valid bound.
func (o *exportOptions) criteria(cmd *cobra.Command) models.Criteria {
	fs := cmd.Flags()
	var c models.Criteria
	if fs.Changed("le-price") {
		c.PriceMax = models.Float(o.lePrice)
	}
	if fs.Changed("ge-price") {
		c.PriceMin = models.Float(o.gePrice)
	}
	if fs.Changed("le-circulating-supply") {
		c.SupplyMax = models.Float(o.leSupply)
	}
	if fs.Changed("ge-circulating-supply") {
		c.SupplyMin = models.Float(o.geSupply)
	}
	return c
}

func (o *exportOptions) apply(cfg *config.ExportConfig) {
	if o.sourceURL != "" {
		cfg.Source.URL = o.sourceURL
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.output != "" {
		cfg.Output.Path = o.output
	}
}

func runExport(cmd *cobra.Command, a *app, o *exportOptions) error {
	ctx := commandContext(cmd)

	// 1. Check bounds before reading the config file or touching network and disk
	criteria := o.criteria(cmd)
	if err := filter.Validate(criteria); err != nil {
		return err
	}

	// 2. Load config, flags win
	path, required := a.cfg.ConfigPath, a.cfg.ConfigPath != config.DefaultConfigPath
	if o.configPath != "" {
		path, required = o.configPath, true
	}
	cfg, err := config.LoadExportConfig(path, required)
	if err != nil {
		return err
	}
	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 3. Wire the pipeline
	sink, err := exporter.New(cfg.Output.Format, cfg.OutputPath())
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder()
	exp := &pipeline.Exporter{
		Source:  market.NewClient(cfg.Source, a.transport),
		Sink:    sink,
		Metrics: recorder,
	}

	// 4. Run, report, then push metrics whatever the outcome
	res, runErr := exp.Run(ctx, criteria)
	if runErr == nil {
		log.Info().
			Str("run_id", res.RunID).
			Int("fetched", res.Fetched).
			Int("exported", res.Exported).
			Msg("export complete")
		fmt.Fprintf(cmd.OutOrStdout(), "DONE!!! Generated a \"%s\" file\n", res.OutputPath)
	}
	pushMetrics(ctx, recorder, a.cfg.PushgatewayURL)
	return runErr
}

// pushMetrics sends run metrics to a Pushgateway, if one is configured.
// Failures only warn: the export itself already finished.
func pushMetrics(ctx context.Context, recorder *metrics.Recorder, url string) {
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	if err := recorder.Push(ctx, url); err != nil {
		log.Warn().Err(err).Str("pushgateway", url).Msg("failed to push run metrics")
	}
}
