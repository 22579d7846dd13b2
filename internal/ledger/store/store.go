package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
	"github.com/MrJamesThe3rd/reconciler/internal/ledger"
)

// Store answers ledger lookups over a shared, read-only connection pool.
type Store struct {
	db      *sql.DB
	name    string
	dialect ledger.Dialect
	queries ledger.Queries
	log     zerolog.Logger
}

func New(db *sql.DB, name string, dialect ledger.Dialect, queries ledger.Queries) *Store {
	return &Store{db: db, name: name, dialect: dialect, queries: queries, log: zerolog.Nop()}
}

// WithLogger sets the logger that reports skipped ledger rows.
func (s *Store) WithLogger(log zerolog.Logger) *Store {
	s.log = log.With().Str("ledger", s.name).Logger()
	return s
}

// Name identifies the ledger in logs and metrics.
func (s *Store) Name() string {
	return s.name
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRow reads one document row. Expected column order is documented on ledger.Queries;
// withMemos expects the trailing memo_lts column.
func scanRow(s scanner, withMemos bool) (document.Row, error) {
	var (
		storeName, docNum, status, logDIAN, uuid, memos sql.NullString
		docType, line, store, pos, trx                  decimal.NullDecimal
		amount, customer                                decimal.NullDecimal
		billedAt, sentAt                                sql.NullTime
		duplicated                                      sql.NullBool
	)

	dest := []any{
		&storeName, &docNum, &docType, &line, &store, &pos, &trx, &billedAt, &sentAt,
		&amount, &customer, &duplicated, &status, &logDIAN, &uuid,
	}
	if withMemos {
		dest = append(dest, &memos)
	}

	if err := s.Scan(dest...); err != nil {
		return document.Row{}, err
	}

	row := document.Row{
		StoreName:   storeName.String,
		DocNum:      strings.TrimSpace(docNum.String),
		MemoNumbers: memos.String,
		Status:      nullString(status),
		LogDIAN:     nullString(logDIAN),
		UUID:        nullString(uuid),
	}

	if billedAt.Valid {
		row.BilledAt = &billedAt.Time
	}

	if sentAt.Valid {
		row.SentAt = &sentAt.Time
	}

	if duplicated.Valid {
		row.Duplicated = &duplicated.Bool
	}

	ints := []struct {
		name string
		src  decimal.NullDecimal
		dst  **int
	}{
		{"doc_type", docType, &row.DocType},
		{"line", line, &row.Line},
		{"store", store, &row.Store},
		{"pos", pos, &row.POS},
		{"trx", trx, &row.TRX},
	}

	for _, f := range ints {
		v, err := integer(f.name, f.src)
		if err != nil {
			return document.Row{}, err
		}

		if v != nil {
			n := int(*v)
			*f.dst = &n
		}
	}

	var err error
	if row.Amount, err = integer("amount", amount); err != nil {
		return document.Row{}, err
	}

	if row.Customer, err = integer("customer", customer); err != nil {
		return document.Row{}, err
	}

	return row, nil
}

// integer converts a NUMERIC/NUMBER column to an exact integer.
func integer(column string, d decimal.NullDecimal) (*int64, error) {
	if !d.Valid {
		return nil, nil
	}

	if !d.Decimal.IsInteger() {
		return nil, fmt.Errorf("%w: column %s holds non-integral value %s",
			document.ErrInvalidArgument, column, d.Decimal.String())
	}

	n := d.Decimal.IntPart()

	return &n, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	return &s.String
}

// FetchNegativeInvoices returns the raw negative invoice rows billed between start and end, inclusive.
func (s *Store) FetchNegativeInvoices(ctx context.Context, start, end time.Time) ([]document.Row, error) {
	period, err := document.NewPeriod(start, end)
	if err != nil {
		return nil, err
	}

	if s.queries.NegativeInvoices == "" {
		return nil, s.unsupported("negative invoices")
	}

	rows, err := s.db.QueryContext(ctx, s.queries.NegativeInvoices, period.Start, period.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, s.lookupErr("listing negative invoices", err)
	}
	defer rows.Close()

	out := make([]document.Row, 0)

	for rows.Next() {
		row, err := scanRow(rows, true)
		if err != nil {
			return nil, s.lookupErr("scanning negative invoice", err)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, s.lookupErr("listing negative invoices", err)
	}

	return out, nil
}

// FindMemosByNumbers returns every document whose doc number is in numbers.
func (s *Store) FindMemosByNumbers(ctx context.Context, numbers []string) ([]*document.Document, error) {
	if len(numbers) == 0 {
		return nil, fmt.Errorf("%w: memo numbers must not be empty", document.ErrInvalidArgument)
	}

	if s.queries.MemosByNumbers == "" {
		return nil, s.unsupported("memos by numbers")
	}

	placeholders := make([]string, len(numbers))
	args := make([]any, len(numbers))

	for i, n := range numbers {
		placeholders[i] = s.dialect.Placeholder(i + 1)
		args[i] = n
	}

	query := strings.Replace(s.queries.MemosByNumbers, ledger.NumbersToken, strings.Join(placeholders, ", "), 1)

	docs, err := s.queryDocuments(ctx, query, false, args...)
	if err != nil {
		return nil, s.lookupErr("finding memos", err)
	}

	return docs, nil
}

// FindByAttributes returns the document recorded for the given point-of-sale transaction,
// dated up to one day either side of its billing day. It returns nil when nothing matches.
// When several rows qualify the closest date wins, then the lowest doc number, then the lowest trx.
// Rows too incomplete to form a document are skipped rather than failing the lookup.
func (s *Store) FindByAttributes(ctx context.Context, attrs ledger.Attributes) (*document.Document, error) {
	if attrs.BilledAt.IsZero() {
		return nil, fmt.Errorf("%w: billed_at is required", document.ErrInvalidArgument)
	}

	if s.queries.ByAttributes == "" {
		return nil, s.unsupported("documents by attributes")
	}

	first, last := attrs.Bounds()

	candidates, err := s.queryDocuments(ctx, s.queries.ByAttributes, true,
		attrs.Line, attrs.Store, attrs.POS, attrs.TRX, first, last.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, s.lookupErr("finding document by attributes", err)
	}

	return closest(candidates, attrs), nil
}

// queryDocuments builds a document per row. With skipInvalid, rows failing validation are
// logged and left out; scan and driver errors always fail.
func (s *Store) queryDocuments(ctx context.Context, query string, skipInvalid bool, args ...any) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		row, err := scanRow(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		doc, err := document.New(row)
		if skipInvalid && errors.Is(err, document.ErrInvalidArgument) {
			s.log.Warn().Err(err).Str("doc_num", row.DocNum).Msg("skipping malformed ledger row")
			continue
		}

		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// closest drops candidates outside the date window and breaks ties deterministically.
func closest(candidates []*document.Document, attrs ledger.Attributes) *document.Document {
	first, last := attrs.Bounds()
	day := document.DateOf(attrs.BilledAt)

	var in []*document.Document

	for _, c := range candidates {
		if c.Line != attrs.Line || c.Store != attrs.Store || c.POS != attrs.POS || c.TRX != attrs.TRX {
			continue
		}

		if c.BilledAt.Before(first) || c.BilledAt.After(last) {
			continue
		}

		in = append(in, c)
	}

	if len(in) == 0 {
		return nil
	}

	sort.SliceStable(in, func(i, j int) bool {
		di, dj := distance(in[i].BilledAt, day), distance(in[j].BilledAt, day)
		if di != dj {
			return di < dj
		}

		if in[i].DocNum != in[j].DocNum {
			return in[i].DocNum < in[j].DocNum
		}

		return in[i].TRX < in[j].TRX
	})

	return in[0]
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}

	return d
}

func (s *Store) lookupErr(op string, err error) error {
	return fmt.Errorf("%w: %s ledger: %s: %w", document.ErrLookupFailure, s.name, op, err)
}

func (s *Store) unsupported(lookup string) error {
	return fmt.Errorf("%w: %s ledger has no %s query", document.ErrInvalidArgument, s.name, lookup)
}
