// Package ledger describes the read-only lookups run against the billing and partner ledgers.
package ledger

import (
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// Window is how many days either side of billed_at a counterpart may be dated.
const Window = 1

// Attributes identify the point-of-sale transaction behind a document.
type Attributes struct {
	Line     int
	Store    int
	POS      int
	TRX      int
	BilledAt time.Time
}

// AttributesOf returns the lookup attributes of d.
func AttributesOf(d *document.Document) Attributes {
	return Attributes{
		Line:     d.Line,
		Store:    d.Store,
		POS:      d.POS,
		TRX:      d.TRX,
		BilledAt: d.BilledAt,
	}
}

// Bounds returns the first and last day a counterpart of a may be dated on.
func (a Attributes) Bounds() (time.Time, time.Time) {
	day := document.DateOf(a.BilledAt)
	return day.AddDate(0, 0, -Window), day.AddDate(0, 0, Window)
}

// Dialect selects the bind-parameter syntax of a ledger's database.
type Dialect int

const (
	Postgres Dialect = iota
	Oracle
)

// Placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Oracle {
		return ":" + strconv.Itoa(n)
	}

	return "$" + strconv.Itoa(n)
}

func (d Dialect) String() string {
	if d == Oracle {
		return "oracle"
	}

	return "postgres"
}
