package ledger

// NumbersToken is replaced by one bind parameter per memo number.
const NumbersToken = "{{numbers}}"

// Queries holds the parameterised statements a ledger answers.
// Every statement returns the document columns in this order:
//
//	store_name, doc_num, doc_type, line, store, pos, trx, billed_at, sent_at,
//	amount, customer, duplicated, status, log_dian, uuid
//
// NegativeInvoices appends memo_lts. An empty statement means the ledger does not support the lookup.
type Queries struct {
	// NegativeInvoices binds the first billing day and the day after the last one.
	NegativeInvoices string
	// MemosByNumbers contains NumbersToken inside an IN list.
	MemosByNumbers string
	// ByAttributes binds line, store, pos, trx, the first day and the day after the last one.
	ByAttributes string
}

// BillerQueries are the statements run against the billing ledger (PostgreSQL).
var BillerQueries = Queries{
	NegativeInvoices: `
		SELECT d.store_name, d.doc_num, d.doc_type, d.line, d.store, d.pos, d.trx, d.billed_at, d.sent_at,
		       d.amount, d.customer, d.duplicated, d.status, d.log_dian, d.uuid,
		       COALESCE(d.memo_lts, '') AS memo_lts
		FROM documents d
		WHERE d.amount < 0 AND d.billed_at >= $1 AND d.billed_at < $2
		ORDER BY d.billed_at, d.doc_num`,
	MemosByNumbers: `
		SELECT d.store_name, d.doc_num, d.doc_type, d.line, d.store, d.pos, d.trx, d.billed_at, d.sent_at,
		       d.amount, d.customer, d.duplicated, d.status, d.log_dian, d.uuid
		FROM memos d
		WHERE d.doc_num IN (` + NumbersToken + `)
		ORDER BY d.billed_at, d.doc_num`,
	ByAttributes: `
		SELECT d.store_name, d.doc_num, d.doc_type, d.line, d.store, d.pos, d.trx, d.billed_at, d.sent_at,
		       d.amount, d.customer, d.duplicated, d.status, d.log_dian, d.uuid
		FROM documents d
		WHERE d.line = $1 AND d.store = $2 AND d.pos = $3 AND d.trx = $4
		  AND d.billed_at >= $5 AND d.billed_at < $6`,
}

// JanoQueries are the statements run against the partner ledger (Oracle).
var JanoQueries = Queries{
	ByAttributes: `
		SELECT t.nombre_tienda, t.num_documento, t.tipo_documento, t.linea, t.tienda, t.caja, t.trx,
		       t.fecha, t.fecha_envio, t.valor, t.cliente, NULL, t.estado, NULL, t.cufe
		FROM jano_documentos t
		WHERE t.linea = :1 AND t.tienda = :2 AND t.caja = :3 AND t.trx = :4
		  AND t.fecha >= :5 AND t.fecha < :6`,
}
