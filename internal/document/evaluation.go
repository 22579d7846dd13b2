package document

// Evaluation is the reconciliation label stamped on a resolved document.
type Evaluation string

const (
	EvaluationPending        Evaluation = ""
	EvaluationOK             Evaluation = "OK"
	EvaluationPrefixError    Evaluation = "Error Prefijo Factura"
	EvaluationPOSError       Evaluation = "Error POS"
	EvaluationReplaceOK      Evaluation = "Remplazo OK"
	EvaluationReplaceError   Evaluation = "Error Remplazo"
	EvaluationMissingPartner Evaluation = "Sin Factura En Jano"
)

// Evaluations lists every final label in report order.
var Evaluations = []Evaluation{
	EvaluationOK,
	EvaluationPrefixError,
	EvaluationPOSError,
	EvaluationReplaceOK,
	EvaluationReplaceError,
	EvaluationMissingPartner,
}

func (e Evaluation) String() string {
	return string(e)
}

// IsFinal reports whether e is one of the six reconciliation outcomes.
func (e Evaluation) IsFinal() bool {
	for _, v := range Evaluations {
		if e == v {
			return true
		}
	}

	return false
}
