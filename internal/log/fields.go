package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldYear       = "year"
	FieldTargetYear = "target_year"
	FieldBackend    = "backend"
	FieldRecordID   = "record_id"
	FieldRecordKind = "record_kind"
	FieldRecipient  = "recipient_id"
	FieldAmount     = "amount"
	FieldCurrency   = "currency"
	FieldObligation = "obligation"
	FieldRemaining  = "remaining"
	FieldPurity     = "purity"
	FieldPath       = "path"
	FieldEvent      = "event"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentArchive = "archive"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentConfig  = "config"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpAdd      = "add"
	OpPay      = "pay"
	OpSettings = "settings"
	OpAdvance  = "advance"
	OpSwitch   = "switch"
	OpRestore  = "restore"
	OpHistory  = "history"
	OpBackup   = "backup"
	OpImport   = "import"
	OpReset    = "reset"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message; nil errors are skipped.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithYear(year int) LogFields {
	f[FieldYear] = year
	return f
}

// WithRecord adds the kind and id of a stored record.
func (f LogFields) WithRecord(kind, id string) LogFields {
	f[FieldRecordKind] = kind
	f[FieldRecordID] = id
	return f
}

// WithPayment adds payment fields; amounts are logged as decimal strings.
func (f LogFields) WithPayment(recipientID string, amount, remaining decimal.Decimal) LogFields {
	f[FieldRecipient] = recipientID
	f[FieldAmount] = amount.String()
	f[FieldRemaining] = remaining.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
