package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
	"github.com/MrJamesThe3rd/reconciler/internal/ledger"
)

// ErrNoInvoices is returned by Run when the billing ledger has nothing to reconcile.
var ErrNoInvoices = errors.New("no negative invoices in period")

var tracer = otel.Tracer("github.com/MrJamesThe3rd/reconciler/internal/reconcile")

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=reconcile
type BillingLedger interface {
	FetchNegativeInvoices(ctx context.Context, start, end time.Time) ([]document.Row, error)
	FindMemosByNumbers(ctx context.Context, numbers []string) ([]*document.Document, error)
	FindByAttributes(ctx context.Context, attrs ledger.Attributes) (*document.Document, error)
}

type PartnerLedger interface {
	FindByAttributes(ctx context.Context, attrs ledger.Attributes) (*document.Document, error)
}

// Options tune a Service. Zero values fall back to DefaultWorkers, no timeout and no rate limit.
type Options struct {
	Workers          int
	LookupTimeout    time.Duration
	LookupsPerSecond float64
	Logger           zerolog.Logger
	Metrics          *Metrics
}

const DefaultWorkers = 5

type Service struct {
	billing BillingLedger
	partner PartnerLedger
	workers int
	timeout time.Duration
	limiter *rate.Limiter
	log     zerolog.Logger
	metrics *Metrics
}

func NewService(billing BillingLedger, partner PartnerLedger, opts Options) *Service {
	s := &Service{
		billing: billing,
		partner: partner,
		workers: opts.Workers,
		timeout: opts.LookupTimeout,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}

	if s.workers < 1 {
		s.workers = DefaultWorkers
	}

	if opts.LookupsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.LookupsPerSecond), 1)
	}

	return s
}

// Result is the outcome of one reconciliation run.
type Result struct {
	RunID     uuid.UUID
	Period    document.Period
	Documents []*document.Document
	Summary   Summary
}

// Run reconciles every negative invoice billed within period.
// It fails with ErrNoInvoices rather than producing an empty result.
func (s *Service) Run(ctx context.Context, period document.Period) (*Result, error) {
	runID := uuid.New()

	ctx, span := tracer.Start(ctx, "reconcile.Run")
	defer span.End()

	span.SetAttributes(attribute.String("run_id", runID.String()), attribute.String("period", period.String()))
	log := s.log.With().Str("run_id", runID.String()).Str("period", period.String()).Logger()

	log.Info().Msg("fetching negative invoices")

	rows, err := s.billing.FetchNegativeInvoices(ctx, period.Start, period.End)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetching negative invoices: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInvoices, period)
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))

	log.Info().Int("rows", len(rows)).Int("workers", s.workers).Msg("resolving invoices")

	docs, err := s.resolveAll(ctx, rows, log)
	if err != nil {
		return nil, fmt.Errorf("resolving invoices: %w", err)
	}

	summary := Summarize(len(rows), docs)

	log.Info().
		Int("resolved", summary.Resolved).
		Int("dropped", summary.Dropped).
		Msg("reconciliation finished")

	return &Result{RunID: runID, Period: period, Documents: docs, Summary: summary}, nil
}

// ResolveAll resolves rows on a bounded worker pool. Rows that fail to resolve are logged
// and left out. The returned documents are in completion order, not input order.
func (s *Service) ResolveAll(ctx context.Context, rows []document.Row) ([]*document.Document, error) {
	return s.resolveAll(ctx, rows, s.log)
}

func (s *Service) resolveAll(ctx context.Context, rows []document.Row, log zerolog.Logger) ([]*document.Document, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to resolve", document.ErrInvalidArgument)
	}

	results := make(chan *document.Document, len(rows))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			doc, err := s.Resolve(ctx, row)
			if err != nil && ctx.Err() != nil {
				// The whole batch is being abandoned; this row did not fail on its own.
				return nil
			}

			if err != nil {
				log.Error().Err(err).Str("doc_num", row.DocNum).Msg("dropping invoice")
				s.metrics.observeRow(nil)

				return nil
			}

			s.metrics.observeRow(doc)
			results <- doc

			return nil
		})
	}

	_ = g.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]*document.Document, 0, len(rows))
	for doc := range results {
		docs = append(docs, doc)
	}

	return docs, nil
}

// Resolve builds one document from row and attaches its memos, partner and replacements,
// then evaluates it. Steps run in order because replacements are looked up per memo.
func (s *Service) Resolve(ctx context.Context, row document.Row) (*document.Document, error) {
	doc, err := document.New(row)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "reconcile.Resolve")
	defer span.End()

	span.SetAttributes(attribute.String("doc_num", doc.DocNum))

	if numbers := document.SplitMemoNumbers(row.MemoNumbers); len(numbers) > 0 {
		memos, err := lookup(ctx, s, "billing_memos", func(ctx context.Context) ([]*document.Document, error) {
			return s.billing.FindMemosByNumbers(ctx, numbers)
		})
		if err != nil {
			return nil, fmt.Errorf("finding memos of %s: %w", doc.DocNum, err)
		}

		if len(memos) > 0 {
			doc.Memos = memos
		}
	}

	doc.Partner, err = lookup(ctx, s, "partner_document", func(ctx context.Context) (*document.Document, error) {
		return s.partner.FindByAttributes(ctx, ledger.AttributesOf(doc))
	})
	if err != nil {
		return nil, fmt.Errorf("finding partner of %s: %w", doc.DocNum, err)
	}

	if len(doc.Memos) > 0 {
		replaces := document.NewSet()

		for _, memo := range doc.Memos {
			r, err := lookup(ctx, s, "billing_replacement", func(ctx context.Context) (*document.Document, error) {
				return s.billing.FindByAttributes(ctx, ledger.AttributesOf(memo))
			})
			if err != nil {
				return nil, fmt.Errorf("finding replacement of memo %s: %w", memo.DocNum, err)
			}

			replaces.Add(r)
		}

		doc.Replaces = replaces
	}

	doc.Evaluation = Evaluate(doc)
	span.SetAttributes(attribute.String("evaluation", doc.Evaluation.String()))

	return doc, nil
}

// lookup runs fn under the service's rate limit and per-lookup timeout.
func lookup[T any](ctx context.Context, s *Service, name string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return zero, err
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)

		defer cancel()
	}

	start := time.Now()
	v, err := fn(ctx)
	s.metrics.observeLookup(name, time.Since(start), err)

	return v, err
}
