// Package validation gates raw catalog items before they are projected onto
// the structured model. Items that fail here are skipped entirely; the
// per-field report is what the writer logs instead of a partial row.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// catalogItemSchema describes the validated projection of one catalog item.
// Every field is optional: absence is handled by raw-tree fallbacks, only a
// type mismatch makes the item invalid.
var catalogItemSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":         map[string]interface{}{"type": []string{"string", "number"}},
		"name":       map[string]interface{}{"type": "string"},
		"short_name": map[string]interface{}{"type": "string"},
		"name_ex": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"primary":   map[string]interface{}{"type": "string"},
				"extension": map[string]interface{}{"type": "string"},
			},
		},
		"address_name":    map[string]interface{}{"type": "string"},
		"address_comment": map[string]interface{}{"type": "string"},
		"address": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"postcode": map[string]interface{}{"type": []string{"string", "number"}},
			},
		},
		"point": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"lat": map[string]interface{}{"type": "number"},
				"lon": map[string]interface{}{"type": "number"},
			},
			"required": []string{"lat", "lon"},
		},
		"adm_div": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{"type": "string"},
					"name": map[string]interface{}{"type": "string"},
				},
			},
		},
		"reviews": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"general_rating":       map[string]interface{}{"type": []string{"number", "string"}},
				"general_review_count": map[string]interface{}{"type": []string{"number", "string"}},
			},
		},
		"contact_groups": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"contacts": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"type":    map[string]interface{}{"type": "string"},
								"value":   map[string]interface{}{"type": "string"},
								"text":    map[string]interface{}{"type": "string"},
								"url":     map[string]interface{}{"type": "string"},
								"comment": map[string]interface{}{"type": "string"},
							},
						},
					},
				},
			},
		},
		"schedule": map[string]interface{}{"type": "object"},
		"rubrics": map[string]interface{}{
			"type": "array",
		},
		"timezone": map[string]interface{}{"type": "string"},
		"url":      map[string]interface{}{"type": "string"},
	},
}

// FieldError is one entry of the validation report: the failing field path,
// the offending value as found in the document, and the validator message.
type FieldError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

// Report is the full per-item validation outcome.
type Report struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// String renders the report the way it is logged alongside a skipped row.
func (r *Report) String() string {
	if r.Valid {
		return "valid"
	}
	lines := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		lines[i] = fmt.Sprintf("[*] field: %s, value: %v, error: %s", fe.Field, fe.Value, fe.Message)
	}
	return strings.Join(lines, "\n")
}

// ValidateCatalogItem checks one raw item against the structured-item schema.
// Returns a report; err is non-nil only when the validator itself fails.
func ValidateCatalogItem(item map[string]interface{}) (*Report, error) {
	schemaLoader := gojsonschema.NewGoLoader(catalogItemSchema)
	documentLoader := gojsonschema.NewGoLoader(item)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	report := &Report{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		report.Errors = append(report.Errors, FieldError{
			Field:   desc.Field(),
			Value:   desc.Value(),
			Message: desc.Description(),
		})
	}
	return report, nil
}
