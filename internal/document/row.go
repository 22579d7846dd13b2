package document

import (
	"fmt"
	"strings"
	"time"
)

// MemoSeparator joins memo numbers inside the billing ledger's memo_lts column.
const MemoSeparator = "|"

// Row is one raw ledger row. Pointer fields are nil when the column was NULL.
type Row struct {
	StoreName  string
	DocNum     string
	DocType    *int
	Line       *int
	Store      *int
	POS        *int
	TRX        *int
	BilledAt   *time.Time
	SentAt     *time.Time
	Amount     *int64
	Customer   *int64
	Duplicated *bool
	Status     *string
	LogDIAN    *string
	UUID       *string

	// MemoNumbers is the raw memo_lts value; only negative-invoice rows carry it.
	MemoNumbers string
}

// New builds an unresolved Document from a row, rejecting rows missing a required field.
func New(r Row) (*Document, error) {
	if strings.TrimSpace(r.DocNum) == "" {
		return nil, missing("doc_num")
	}

	required := []struct {
		name string
		ok   bool
	}{
		{"line", r.Line != nil},
		{"store", r.Store != nil},
		{"pos", r.POS != nil},
		{"trx", r.TRX != nil},
		{"billed_at", r.BilledAt != nil && !r.BilledAt.IsZero()},
		{"amount", r.Amount != nil},
		{"customer", r.Customer != nil},
	}

	for _, f := range required {
		if !f.ok {
			return nil, missing(f.name)
		}
	}

	return &Document{
		StoreName:  r.StoreName,
		DocNum:     r.DocNum,
		DocType:    r.DocType,
		Line:       *r.Line,
		Store:      *r.Store,
		POS:        *r.POS,
		TRX:        *r.TRX,
		BilledAt:   DateOf(*r.BilledAt),
		SentAt:     r.SentAt,
		Amount:     *r.Amount,
		Customer:   *r.Customer,
		Duplicated: r.Duplicated,
		Status:     deref(r.Status),
		LogDIAN:    deref(r.LogDIAN),
		UUID:       deref(r.UUID),
	}, nil
}

// SplitMemoNumbers turns a memo_lts value into memo doc numbers, skipping blanks.
func SplitMemoNumbers(raw string) []string {
	var nums []string

	for _, n := range strings.Split(raw, MemoSeparator) {
		n = strings.TrimSpace(n)
		if n != "" {
			nums = append(nums, n)
		}
	}

	return nums
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func missing(field string) error {
	return fmt.Errorf("%w: row is missing %s", ErrInvalidArgument, field)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
