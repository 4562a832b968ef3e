// Package schemas validates screener JSON documents against the embedded JSON Schemas.
package schemas

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/candidate-screener/schemas"
)

// Embedded schema names
const (
	JobPosting        = "job_posting.schema.json"
	CandidateEvidence = "candidate_evidence.schema.json"
	ScreeningResult   = "screening_result.schema.json"

	// CandidateEvidenceItem checks a single record of a candidate batch
	CandidateEvidenceItem = CandidateEvidence + "#/definitions/candidate_evidence"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling the schema itself
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compiledMu sync.Mutex
	compiled   = make(map[string]*gojsonschema.Schema)
)

// load compiles an embedded schema once and caches it. A name with a
// "#/definitions/..." fragment compiles that definition alone.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	file, fragment, _ := strings.Cut(name, "#")
	data, err := fs.ReadFile(schemafiles.FS, file)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	if fragment != "" {
		data, err = extractDefinition(data, fragment)
		if err != nil {
			return nil, &SchemaLoadError{Name: name, Cause: err}
		}
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}

	compiled[name] = s
	return s, nil
}

// extractDefinition resolves a JSON pointer inside a schema document and
// returns it as a standalone schema. The document's definitions stay
// reachable so local $refs keep resolving.
func extractDefinition(data []byte, pointer string) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var node any = doc
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("pointer %s does not resolve", pointer)
		}
		if node, ok = obj[segment]; !ok {
			return nil, fmt.Errorf("pointer %s does not resolve", pointer)
		}
	}

	def, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pointer %s is not a schema object", pointer)
	}
	standalone := make(map[string]any, len(def)+2)
	for k, v := range def {
		standalone[k] = v
	}
	if v, ok := doc["$schema"]; ok {
		standalone["$schema"] = v
	}
	if v, ok := doc["definitions"]; ok {
		standalone["definitions"] = v
	}
	return json.Marshal(standalone)
}

// Validate validates a JSON document against the named embedded schema
func Validate(name string, document []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}

	return toValidationError(name, result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Name: "(string schema)", Cause: err}
	}

	return toValidationError("(string schema)", result)
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
