package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldUserID      = "user_id"
	FieldGoalID      = "goal_id"
	FieldGoalTitle   = "goal_title"
	FieldTxID        = "transaction_id"
	FieldMerchant    = "merchant"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldTier        = "tier"
	FieldIntent      = "intent"
	FieldChatID      = "chat_id"
	FieldQueue       = "queue"
	FieldYear        = "year"
	FieldMonth       = "month"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentGuardian = "guardian"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentNotify   = "notify"
	ComponentChat     = "chat"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpEvaluate = "evaluate"
	OpCompose  = "compose"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpDeliver  = "deliver"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
