// Package report flattens reconciled documents into rows and hands them to sinks.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// ErrEmptyReport is returned by sinks asked to write a report with no rows.
var ErrEmptyReport = errors.New("report has no rows")

// DefaultHeaders name the report columns in output order.
var DefaultHeaders = []string{
	"factura",
	"c_origen",
	"tienda",
	"no_tienda",
	"caja",
	"trx",
	"fecha",
	"notas",
	"total_factura",
	"total_notas",
	"sub_total",
	"cliente",
	"cufe",
	"factura_jano",
	"remplazos",
	"valor_remplazos",
	"total",
	"evaluación",
}

// Row maps a header to its rendered value.
type Row map[string]string

// Projector renders documents under a fixed set of column names.
type Projector struct {
	headers []string
}

// NewProjector renames the report columns. An empty headers slice keeps DefaultHeaders.
func NewProjector(headers []string) (*Projector, error) {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}

	if len(headers) != len(DefaultHeaders) {
		return nil, fmt.Errorf("%w: expected %d headers, got %d",
			document.ErrInvalidArgument, len(DefaultHeaders), len(headers))
	}

	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h == "" || seen[h] {
			return nil, fmt.Errorf("%w: header %q is empty or repeated", document.ErrInvalidArgument, h)
		}

		seen[h] = true
	}

	return &Projector{headers: append([]string(nil), headers...)}, nil
}

func (p *Projector) Headers() []string {
	return append([]string(nil), p.headers...)
}

// Project renders one resolved document.
func (p *Projector) Project(d *document.Document) Row {
	partner := ""
	if d.Partner != nil {
		partner = d.Partner.DocNum
	}

	docType := ""
	if d.DocType != nil {
		docType = strconv.Itoa(*d.DocType)
	}

	values := []string{
		d.DocNum,
		docType,
		d.StoreName,
		strconv.Itoa(d.Store),
		strconv.Itoa(d.POS),
		strconv.Itoa(d.TRX),
		d.BilledAt.Format(time.DateOnly),
		strings.Join(d.MemoNumbers(), document.MemoSeparator),
		amount(d.Amount),
		amount(d.MemoTotal()),
		amount(d.AmountDifferenceWithMemos()),
		strconv.FormatInt(d.Customer, 10),
		d.UUID,
		partner,
		strings.Join(d.ReplaceNumbers(), document.MemoSeparator),
		amount(d.ReplaceTotal()),
		amount(d.TotalWithReplaces()),
		d.Evaluation.String(),
	}

	row := make(Row, len(p.headers))
	for i, h := range p.headers {
		row[h] = values[i]
	}

	return row
}

func (p *Projector) ProjectAll(docs []*document.Document) []Row {
	rows := make([]Row, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, p.Project(d))
	}

	return rows
}

func amount(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Name builds a report file name from the reconciled period and the run time,
// e.g. facturas_negativas_2025-06-01_2025-06-30_20250701083000.csv.
func Name(prefix string, period document.Period, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s.csv",
		prefix,
		period.Start.Format(time.DateOnly),
		period.End.Format(time.DateOnly),
		now.Format("20060102150405"),
	)
}
