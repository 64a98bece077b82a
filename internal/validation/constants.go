package validation

// Embedded schemas
const (
	SchemaDir         = "schemas"
	SchemaCropCatalog = "crop_catalog.schema.json"
)

// Error messages
const (
	ErrMsgReadData      = "failed to read data file"
	ErrMsgParseData     = "failed to parse document"
	ErrMsgLoadSchema    = "failed to load schema"
	ErrMsgUnknownSchema = "unknown schema"
	ErrMsgParseSchema   = "failed to parse schema JSON"
	ErrMsgAddSchema     = "failed to add schema resource"
	ErrMsgCompileSchema = "failed to compile schema"
	ErrMsgSchemaFailed  = "schema validation failed"
)
