package logging

// Standardized field names for structured logging. Using the same keys
// everywhere keeps log output easy to filter and aggregate.
const (
	FieldDocument  = "document"
	FieldKind      = "kind"
	FieldOutcome   = "outcome"
	FieldProperty  = "property"
	FieldOwner     = "owner"
	FieldPeriod    = "period"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldCount     = "count"
	FieldState     = "state"
	FieldReason    = "reason"
	FieldError     = "error"
	FieldInputFile = "input_file"
)
