package reconcile

import (
	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// Evaluate classifies a resolved document. The checks run in a fixed order:
// a missing or mismatched partner short-circuits any amount comparison.
func Evaluate(d *document.Document) document.Evaluation {
	switch {
	case d.Partner == nil:
		return document.EvaluationMissingPartner
	case d.Partner.DocNum != d.DocNum:
		return document.EvaluationPrefixError
	case d.AmountDifferenceWithMemos() >= 0:
		return document.EvaluationOK
	case !d.HasReplaces():
		return document.EvaluationPOSError
	case d.TotalWithReplaces() >= 0:
		return document.EvaluationReplaceOK
	default:
		return document.EvaluationReplaceError
	}
}
