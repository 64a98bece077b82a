package logger

// DefaultServiceName is used when the configuration leaves the name empty
const DefaultServiceName = "shemeta"

// LogFormatJSON selects the JSON handler; any other format is text
const LogFormatJSON = "json"

// Attribute keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyUserID      = "user_id"
)
