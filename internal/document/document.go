package document

import (
	"time"
)

// Document is one invoice or credit note as recorded in either ledger.
type Document struct {
	StoreName  string
	DocNum     string
	DocType    *int
	Line       int
	Store      int
	POS        int
	TRX        int
	BilledAt   time.Time
	SentAt     *time.Time
	Amount     int64 // Amount in minor currency units
	Customer   int64
	Duplicated *bool
	Status     string
	LogDIAN    string
	UUID       string

	// Resolved by the reconcile service, never by the document itself.
	Memos    []*Document
	Partner  *Document
	Replaces *Set

	Evaluation Evaluation
}

// Key is the natural business key of a document.
// Two documents with the same Key are the same document.
type Key struct {
	DocNum   string
	Line     int
	Store    int
	POS      int
	TRX      int
	BilledAt string
	Amount   int64
	Customer int64
}

func (d *Document) Key() Key {
	return Key{
		DocNum:   d.DocNum,
		Line:     d.Line,
		Store:    d.Store,
		POS:      d.POS,
		TRX:      d.TRX,
		BilledAt: d.BilledAt.Format(time.DateOnly),
		Amount:   d.Amount,
		Customer: d.Customer,
	}
}

// Equal reports whether both documents share the same natural key.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}

	return d.Key() == other.Key()
}

// MemoNumbers returns the doc numbers of the attached memos, in lookup order.
func (d *Document) MemoNumbers() []string {
	nums := make([]string, 0, len(d.Memos))
	for _, m := range d.Memos {
		nums = append(nums, m.DocNum)
	}

	return nums
}

// ReplaceNumbers returns the doc numbers of the replacement invoices.
func (d *Document) ReplaceNumbers() []string {
	if d.Replaces == nil {
		return []string{}
	}

	docs := d.Replaces.Docs()

	nums := make([]string, 0, len(docs))
	for _, r := range docs {
		nums = append(nums, r.DocNum)
	}

	return nums
}

func (d *Document) MemoTotal() int64 {
	var total int64
	for _, m := range d.Memos {
		total += m.Amount
	}

	return total
}

// AmountDifferenceWithMemos is the invoice amount minus the absolute memo total.
func (d *Document) AmountDifferenceWithMemos() int64 {
	return d.Amount - abs(d.MemoTotal())
}

func (d *Document) ReplaceTotal() int64 {
	if d.Replaces == nil {
		return 0
	}

	return d.Replaces.Total()
}

func (d *Document) TotalWithReplaces() int64 {
	return d.AmountDifferenceWithMemos() + d.ReplaceTotal()
}

// HasReplaces reports whether at least one replacement invoice was resolved.
func (d *Document) HasReplaces() bool {
	return d.Replaces != nil && d.Replaces.Len() > 0
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
