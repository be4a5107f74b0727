package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPath(t *testing.T) {
	root := map[string]interface{}{
		"name": "Паркинг",
		"address": map[string]interface{}{
			"postcode": "630099",
			"comment":  "",
		},
		"point": map[string]interface{}{"lat": 55.03, "lon": 82.92},
	}
	src := NewRawTreeSource(root)

	v, ok := src.GetPath("name")
	assert.True(t, ok)
	assert.Equal(t, "Паркинг", v)

	v, ok = src.GetPath("address.postcode")
	assert.True(t, ok)
	assert.Equal(t, "630099", v)

	_, ok = src.GetPath("address.missing")
	assert.False(t, ok)

	// Intermediate segment resolving to a scalar fails the whole path.
	_, ok = src.GetPath("name.primary")
	assert.False(t, ok)

	_, ok = src.GetPath("")
	assert.False(t, ok)
}

func TestResolverPrefersStructured(t *testing.T) {
	structured := NewStructuredSource(map[string]interface{}{
		"name_ex": map[string]interface{}{"primary": "Центральный паркинг"},
	})
	raw := NewRawTreeSource(map[string]interface{}{
		"name": "Паркинг (сырое)",
	})
	r := NewResolver(structured, raw)

	v, ok := r.Resolve(Spec{Field: "name", Structured: "name_ex.primary", Raw: []string{"name"}})
	assert.True(t, ok)
	assert.Equal(t, "Центральный паркинг", v)
}

func TestResolverFallsBackThroughRawPaths(t *testing.T) {
	structured := NewStructuredSource(nil)
	raw := NewRawTreeSource(map[string]interface{}{
		"short_name": "ЦП",
	})
	r := NewResolver(structured, raw)

	v, ok := r.Resolve(Spec{
		Field:      "name",
		Structured: "name_ex.primary",
		Raw:        []string{"name", "name_ex.primary", "short_name"},
	})
	assert.True(t, ok)
	assert.Equal(t, "ЦП", v)
}

func TestResolverSkipsEmptyValues(t *testing.T) {
	structured := NewStructuredSource(map[string]interface{}{"address_name": ""})
	raw := NewRawTreeSource(map[string]interface{}{"address": "ул. Ленина, 1"})
	r := NewResolver(structured, raw)

	v, ok := r.Resolve(Spec{Field: "address", Structured: "address_name", Raw: []string{"address"}})
	assert.True(t, ok)
	assert.Equal(t, "ул. Ленина, 1", v)

	_, ok = r.Resolve(Spec{Field: "postcode", Structured: "address.postcode", Raw: []string{"address.postcode"}})
	assert.False(t, ok)
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue(false))
	assert.True(t, IsEmptyValue(float64(0)))
	assert.True(t, IsEmptyValue(map[string]interface{}{}))
	assert.True(t, IsEmptyValue([]interface{}{}))

	assert.False(t, IsEmptyValue("0"))
	assert.False(t, IsEmptyValue(float64(42)))
	assert.False(t, IsEmptyValue(true))
	assert.False(t, IsEmptyValue([]interface{}{"x"}))
}
