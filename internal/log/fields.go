package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldWeekEnding  = "week_ending"
	FieldVendor      = "vendor"
	FieldDocNum      = "doc_num"
	FieldRecords     = "records"
	FieldCount       = "count"
	FieldAmountCents = "amount_cents"
	FieldRemoteRef   = "remote_ref"
	FieldLocalPath   = "local_path"
	FieldStatusCode  = "status_code"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentQBO      = "qbo"
	ComponentDocs     = "docs"
	ComponentAlloc    = "alloc"
	ComponentWorkbook = "workbook"
	ComponentRun      = "run"
)

// Operations defines standard operation names
const (
	OpFetch    = "fetch"
	OpParse    = "parse"
	OpAllocate = "allocate"
	OpRender   = "render"
	OpPublish  = "publish"
	OpRefresh  = "refresh"
)
