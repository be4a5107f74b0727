// internal/extract/resolve.go
package extract

// FieldSource is the capability the resolver depends on: dotted-path lookup
// over some representation of the catalog item. Two implementations exist,
// one over the validated structured projection and one over the raw document
// tree; the resolver never sees the concrete representation.
type FieldSource interface {
	// GetPath resolves a "."-separated key path. Every intermediate segment
	// must be present as an object member; ok is false otherwise.
	GetPath(path string) (interface{}, bool)
}

// RawTreeSource resolves paths against the raw decoded document.
type RawTreeSource struct {
	root map[string]interface{}
}

func NewRawTreeSource(root map[string]interface{}) *RawTreeSource {
	return &RawTreeSource{root: root}
}

func (s *RawTreeSource) GetPath(path string) (interface{}, bool) {
	return lookupPath(s.root, path)
}

// StructuredSource resolves paths against the tree form of the validated
// structured item.
type StructuredSource struct {
	tree map[string]interface{}
}

// NewStructuredSource wraps an item tree (models.CatalogItem.Tree()). A nil
// tree yields a source that never resolves.
func NewStructuredSource(tree map[string]interface{}) *StructuredSource {
	return &StructuredSource{tree: tree}
}

func (s *StructuredSource) GetPath(path string) (interface{}, bool) {
	return lookupPath(s.tree, path)
}

func lookupPath(root map[string]interface{}, path string) (interface{}, bool) {
	if root == nil || path == "" {
		return nil, false
	}

	var cur interface{} = root
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		segment := path[start:i]
		start = i + 1

		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Spec declares the fallback chain of one output field: the structured path
// to try first, then raw-document paths in priority order.
type Spec struct {
	Field      string
	Structured string
	Raw        []string
}

// Resolver resolves field specs source by source, treating every traversal
// failure as "not found".
type Resolver struct {
	structured FieldSource
	raw        FieldSource
}

func NewResolver(structured, raw FieldSource) *Resolver {
	return &Resolver{structured: structured, raw: raw}
}

// Resolve returns the first non-empty value the spec's chain yields.
func (r *Resolver) Resolve(spec Spec) (interface{}, bool) {
	if r.structured != nil && spec.Structured != "" {
		if v, ok := r.structured.GetPath(spec.Structured); ok && !IsEmptyValue(v) {
			return v, true
		}
	}
	if r.raw != nil {
		for _, path := range spec.Raw {
			if v, ok := r.raw.GetPath(path); ok && !IsEmptyValue(v) {
				return v, true
			}
		}
	}
	return nil, false
}

// IsEmptyValue reports whether a resolved value counts as "no result" for
// fallback purposes: nil, empty string/containers, false and numeric zero.
func IsEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case map[string]interface{}:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	default:
		return false
	}
}
