package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldDate      = "date"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldRows      = "rows"
	FieldPeriod    = "period"
	FieldTarget    = "target"
	FieldScore     = "score"
	FieldGrade     = "grade"
	FieldMessageID = "message_id"
	FieldCacheKey  = "cache_key"
	FieldCacheHit  = "cache_hit"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentExpense   = "expense"
	ComponentAnalytics = "analytics"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpRowsForDate    = "rows_for_date"
	OpInsert         = "insert"
	OpDeleteForDate  = "delete_for_date"
	OpReplaceDay     = "replace_day"
	OpCategoryTotals = "category_totals"
	OpMonthlyTotals  = "monthly_totals"
	OpBreakdown      = "breakdown"
	OpMonthly        = "monthly_breakdown"
	OpPlanSavings    = "plan_savings"
	OpScore          = "score_health"
	OpMirror         = "mirror"
	OpShutdown       = "shutdown"
	OpStartup        = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeAuth          = "auth_error"
	ErrorTypeTimeout       = "timeout_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRange adds an inclusive date range
func (f LogFields) WithRange(start, end string) LogFields {
	f[FieldStartDate] = start
	f[FieldEndDate] = end
	return f
}

// WithDay adds the date and row count of a single-day operation
func (f LogFields) WithDay(date string, rows int) LogFields {
	f[FieldDate] = date
	f[FieldRows] = rows
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
