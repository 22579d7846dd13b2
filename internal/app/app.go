// Package app wires configuration, ledgers and report sinks into a runnable reconciliation.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/reconciler/internal/config"
	"github.com/MrJamesThe3rd/reconciler/internal/database"
	"github.com/MrJamesThe3rd/reconciler/internal/document"
	"github.com/MrJamesThe3rd/reconciler/internal/ledger"
	"github.com/MrJamesThe3rd/reconciler/internal/ledger/store"
	"github.com/MrJamesThe3rd/reconciler/internal/reconcile"
	"github.com/MrJamesThe3rd/reconciler/internal/report"
	"github.com/MrJamesThe3rd/reconciler/internal/storage"
	"github.com/MrJamesThe3rd/reconciler/internal/telemetry"
)

// Runner reconciles one period and exports its report.
type Runner interface {
	Reconcile(ctx context.Context, period document.Period, outputDir string) (*Outcome, error)
}

// Outcome is a finished reconciliation and where its report was written.
type Outcome struct {
	*reconcile.Result
	Location string
}

type App struct {
	cfg       *config.Config
	log       zerolog.Logger
	service   *reconcile.Service
	projector *report.Projector
	objects   storage.Storage
	registry  *prometheus.Registry
	now       func() time.Time

	closers []func(context.Context) error
}

// New connects to both ledgers and, when configured, to object storage and the trace collector.
// Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log, registry: prometheus.NewRegistry(), now: time.Now}

	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("initialising telemetry: %w", err)
	}

	a.closers = append(a.closers, shutdown)

	pool := database.PoolFrom(cfg.Settings)

	billerDB, err := database.NewBiller(ctx, cfg.BillerDB(), pool)
	if err != nil {
		return nil, fmt.Errorf("connecting to biller: %w", err)
	}

	a.closers = append(a.closers, closeDB(billerDB))

	janoDB, err := database.NewJano(ctx, cfg.JanoDB(), pool)
	if err != nil {
		return nil, fmt.Errorf("connecting to jano: %w", err)
	}

	a.closers = append(a.closers, closeDB(janoDB))

	metrics, err := reconcile.NewMetrics(a.registry)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	a.service = reconcile.NewService(
		store.New(billerDB, "biller", ledger.Postgres, ledger.BillerQueries).WithLogger(log),
		store.New(janoDB, "jano", ledger.Oracle, ledger.JanoQueries).WithLogger(log),
		reconcile.Options{
			Workers:          cfg.Settings.Workers,
			LookupTimeout:    cfg.Settings.LookupTimeout.Std(),
			LookupsPerSecond: cfg.Settings.LookupsPerSecond,
			Logger:           log,
			Metrics:          metrics,
		},
	)

	if a.projector, err = report.NewProjector(cfg.Settings.Headers); err != nil {
		return nil, err
	}

	if cfg.MinIO.Enabled() {
		if a.objects, err = storage.NewMinIO(ctx, cfg.MinIO); err != nil {
			return nil, fmt.Errorf("connecting to object storage: %w", err)
		}
	}

	return a, nil
}

// Reconcile runs the reconciliation for period and writes the report into outputDir,
// or the configured output_dir when outputDir is empty.
func (a *App) Reconcile(ctx context.Context, period document.Period, outputDir string) (*Outcome, error) {
	res, err := a.service.Run(ctx, period)
	if err != nil {
		return nil, err
	}

	defer a.pushMetrics(ctx, res)

	loc, err := a.reports(outputDir, res.RunID.String()).Export(ctx, period, res.Documents, a.now())
	if err != nil {
		return nil, err
	}

	a.log.Info().Str("run_id", res.RunID.String()).Str("report", loc).Msg("report written")

	return &Outcome{Result: res, Location: loc}, nil
}

func (a *App) reports(outputDir, runID string) *report.Service {
	if outputDir == "" {
		outputDir = a.cfg.Settings.OutputDir
	}

	sinks := report.MultiSink{report.FileSink{Dir: outputDir, Compress: a.cfg.Settings.Compress}}
	if a.objects != nil {
		sinks = append(sinks, report.ObjectSink{
			Storage:    a.objects,
			Prefix:     a.cfg.Settings.ReportName,
			Metadata:   map[string]string{"run-id": runID},
			LinkExpiry: a.cfg.MinIO.LinkExpiry,
		})
	}

	return report.NewService(a.projector, sinks, a.cfg.Settings.ReportName)
}

// pushMetrics hands the run's metrics to the Pushgateway; failures are only logged.
func (a *App) pushMetrics(ctx context.Context, res *reconcile.Result) {
	if a.cfg.Pushgateway.URL == "" {
		return
	}

	err := push.New(a.cfg.Pushgateway.URL, a.cfg.Pushgateway.Job).
		Gatherer(a.registry).
		Grouping("period", res.Period.String()).
		PushContext(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("pushing metrics")
	}
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}

func closeDB(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}
