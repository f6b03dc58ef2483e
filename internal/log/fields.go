package log

// Field names shared across components.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldEntryID     = "entry_id"
	FieldVehicleType = "vehicle_type"
	FieldPricePaise  = "price_paise"
	FieldDay         = "day"
	FieldQuery       = "query"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentEntries = "entries"
	ComponentStorage = "storage"
	ComponentWashAPI = "washapi"
	ComponentCache   = "cache"
)
