package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldSessionID     = "session_id"
	FieldAccountID     = "account_id"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldBudgetID      = "budget_id"
	FieldRuleID        = "rule_id"
	FieldPreset        = "preset"
	FieldRangeStart    = "range_start"
	FieldRangeEnd      = "range_end"
	FieldPageOffset    = "page_offset"
	FieldPageLimit     = "page_limit"
	FieldTotal         = "total"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAPI       = "api"
	ComponentSession   = "session"
	ComponentCache     = "cache"
	ComponentViews     = "views"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentTemplate  = "template"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpPreview  = "preview"
	OpSuggest  = "suggest"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
