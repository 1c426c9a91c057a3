package schedule

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaURL is the identifier the embedded schema is registered under.
const schemaURL = "https://github.com/nibzard/jcal-go/schedule.schema.json"

//go:embed schedule.schema.json
var schemaJSON string

var (
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
	compileSchemaOnce sync.Once
)

// SchemaJSON returns the JSON Schema describing schedule files.
func SchemaJSON() string {
	return schemaJSON
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
	Records    int
}

// Validate checks raw schedule file bytes against the schema and the
// invariants a schema cannot express: id uniqueness and the rule that
// only detailed records carry dateTime and content.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	schema, err := compileSchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available: %v", err))
	} else {
		result.UsedSchema = true
		if err := schema.Validate(raw); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
		}
	}

	validateSemantics(raw, result)
	return result
}

func compileSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

func validateSemantics(raw interface{}, result *ValidationResult) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return
	}
	items, ok := obj["schedules"].([]interface{})
	if !ok {
		return
	}
	result.Records = len(items)

	seen := make(map[string]int, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		path := fmt.Sprintf("schedules[%d]", i)

		if id, _ := rec["id"].(string); id != "" {
			if first, dup := seen[id]; dup {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Field: fieldPath(path, "id"),
					Err:   fmt.Errorf("duplicate id %q (first used by schedules[%d])", id, first),
				})
			} else {
				seen[id] = i
			}
		}

		dateTime, hasTime := rec["dateTime"]
		_, hasContent := rec["content"]
		switch kind, _ := rec["type"].(string); Kind(kind) {
		case KindTodo:
			if hasTime {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{Field: fieldPath(path, "dateTime"), Err: errors.New("todo records cannot carry a time")})
			}
			if hasContent {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{Field: fieldPath(path, "content"), Err: errors.New("todo records cannot carry content")})
			}
		case KindDetailed:
			if !hasTime {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: missing, record never matches date filters", fieldPath(path, "dateTime")))
			} else if s, ok := dateTime.(string); ok {
				if _, err := ParseInstant(s); err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %q is not an ISO-8601 instant, record never matches date filters", fieldPath(path, "dateTime"), s))
				}
			}
			if !hasContent {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: missing", fieldPath(path, "content")))
			}
		}
	}
}

func fieldPath(record, field string) string {
	if record == "" {
		return field
	}
	return record + "." + field
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Field: jsonPointerToPath(err.InstanceLocation),
			Err:   errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/schedules/3/status" into "schedules[3].status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
