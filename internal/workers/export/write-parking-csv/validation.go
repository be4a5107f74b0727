// internal/workers/export/write-parking-csv/validation.go
package writeparkingcsv

import (
	"errors"

	"catalog-export/internal/common/validation"
)

var (
	ErrMalformedDocument = errors.New("MALFORMED_DOCUMENT")
	ErrItemInvalid       = errors.New("SCHEMA_VALIDATION_FAILED")
)

// extractItem reaches result.items[0] inside one catalog document. Only the
// first item is consumed.
func extractItem(doc map[string]interface{}) (map[string]interface{}, error) {
	result, ok := doc["result"].(map[string]interface{})
	if !ok {
		return nil, ErrMalformedDocument
	}
	items, ok := result["items"].([]interface{})
	if !ok || len(items) == 0 {
		return nil, ErrMalformedDocument
	}
	item, ok := items[0].(map[string]interface{})
	if !ok {
		return nil, ErrMalformedDocument
	}
	return item, nil
}

// validateItem gates the raw item against the structured-item schema.
// Returns the field-level report for logging; err wraps ErrItemInvalid when
// the item must be skipped.
func validateItem(item map[string]interface{}) (*validation.Report, error) {
	report, err := validation.ValidateCatalogItem(item)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		return report, ErrItemInvalid
	}
	return report, nil
}
