package reconcile

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// Summary counts the outcome of one reconciliation run.
type Summary struct {
	Rows         int
	Resolved     int
	Dropped      int
	ByEvaluation map[document.Evaluation]int
}

// Summarize tallies docs, the documents resolved out of rows input rows.
func Summarize(rows int, docs []*document.Document) Summary {
	s := Summary{
		Rows:         rows,
		Resolved:     len(docs),
		Dropped:      rows - len(docs),
		ByEvaluation: make(map[document.Evaluation]int, len(document.Evaluations)),
	}

	for _, d := range docs {
		s.ByEvaluation[d.Evaluation]++
	}

	return s
}

func (s Summary) Count(e document.Evaluation) int {
	return s.ByEvaluation[e]
}

// String renders one line per label followed by the row totals.
func (s Summary) String() string {
	var sb strings.Builder

	for _, e := range document.Evaluations {
		sb.WriteString(fmt.Sprintf("* %-22s %d\n", e, s.Count(e)))
	}

	sb.WriteString(fmt.Sprintf("%d rows, %d resolved, %d dropped\n", s.Rows, s.Resolved, s.Dropped))

	return sb.String()
}
