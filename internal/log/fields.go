package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldRef         = "ref"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldSheetNumber = "sheet_number"
	FieldSheetIndex  = "sheet_index"
	FieldDirectorate = "directorate"
	FieldFileName    = "file_name"
	FieldValues      = "values"
	FieldChapters    = "chapters"
	FieldSections    = "sections"
	FieldItems       = "items"
	FieldTypes       = "types"
)

const (
	ComponentApp       = "app"
	ComponentCatalog   = "catalog"
	ComponentSheets    = "sheets"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentProcessor = "processor"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
)

const (
	OpProcess  = "process"
	OpBatch    = "batch"
	OpLoad     = "load"
	OpRead     = "read"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpImport   = "import"
	OpExport   = "export"
	OpCheck    = "check"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeSource        = "source_error"
	ErrorTypeCatalog       = "catalog_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields builds a set of structured log fields.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError sets the error message and its category. A nil err is ignored.
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithSheet adds the fields identifying one processed sheet.
func (f LogFields) WithSheet(ref string, month, sheetNumber, sheetIndex int) LogFields {
	f[FieldRef] = ref
	f[FieldMonth] = month
	f[FieldSheetNumber] = sheetNumber
	f[FieldSheetIndex] = sheetIndex
	return f
}

// WithCounts adds per-level counts of emitted nodes.
func (f LogFields) WithCounts(chapters, sections, items, types int) LogFields {
	f[FieldChapters] = chapters
	f[FieldSections] = sections
	f[FieldItems] = items
	f[FieldTypes] = types
	return f
}

func (f LogFields) WithDuration(ms int64) LogFields {
	f[FieldDuration] = ms
	return f
}

// ToSlice flattens the fields into slog key/value pairs, sorted by key.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
