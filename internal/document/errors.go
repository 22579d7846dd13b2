package document

import "errors"

var (
	// ErrInvalidArgument marks malformed caller input: empty identifier lists, rows missing fields.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidRange marks an unusable date window.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrLookupFailure marks a ledger that could not be queried.
	ErrLookupFailure = errors.New("lookup failure")
)
