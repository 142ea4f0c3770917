package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldAmount        = "amount"
	FieldTxType        = "tx_type"
	FieldTxDate        = "tx_date"
	FieldPeriod        = "period"
	FieldBackend       = "backend"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentSeed    = "seed"
)

// Operations defines standard operation names
const (
	OpAdd      = "add"
	OpDelete   = "delete"
	OpList     = "list"
	OpClear    = "clear"
	OpSeed     = "seed"
	OpReport   = "report"
	OpSync     = "sync"
	OpPersist  = "persist"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
