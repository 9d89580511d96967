package validation

import (
	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema declares the expected shape of an inbound payload.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Pattern     *string `json:"pattern,omitempty"`
	MinLength   *int    `json:"minLength,omitempty"`
	MaxLength   *int    `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateInput validates a decoded JSON document against a schema.
// Schema compilation errors surface as a single validation error rather
// than panicking; schemas are declared in code and exercised by tests.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "", Message: err.Error()}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		errors = append(errors, ValidationError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}

	return &ValidationResult{Valid: false, Errors: errors}
}

func IntPtr(i int) *int {
	return &i
}
