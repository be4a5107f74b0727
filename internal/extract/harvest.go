// internal/extract/harvest.go
package extract

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Harvest categories, in canonical order.
const (
	CategoryCapacity       = "capacity"
	CategoryPriceHour      = "price_hour"
	CategoryPriceDay       = "price_day"
	CategoryPriceMonth     = "price_month"
	CategoryVehicleTypes   = "vehicle_types"
	CategoryGuarded        = "guarded"
	CategoryPaymentMethods = "payment_methods"
)

// Categories returns the fixed category set in canonical order.
func Categories() []string {
	return []string{
		CategoryCapacity,
		CategoryPriceHour,
		CategoryPriceDay,
		CategoryPriceMonth,
		CategoryVehicleTypes,
		CategoryGuarded,
		CategoryPaymentMethods,
	}
}

// Result maps each category to its candidate values, first occurrence kept.
type Result map[string][]string

// categoryRule classifies one attribute/stop-factor element into a non-price
// category. Rules are data, evaluated independently at every element: a node
// can contribute to several categories at once.
type categoryRule struct {
	category     string
	tagPatterns  []*regexp.Regexp
	nameKeywords []string // case-insensitive substrings of the display name
	defaultValue string   // recorded when the element carries no name
}

// priceRule maps tag/name keywords to one price category. Evaluated in
// order, first match wins: month before day before hour, so that tags like
// "cost_parking_month" never leak into the day bucket.
type priceRule struct {
	category     string
	tagKeywords  []string
	nameKeywords []string
}

var attributeCategoryRules = []categoryRule{
	{
		category: CategoryGuarded,
		tagPatterns: []*regexp.Regexp{
			regexp.MustCompile(`car_parking_guarded`),
			regexp.MustCompile(`car_parking_guarded_car_parking`),
		},
		nameKeywords: []string{"охраня"},
		defaultValue: "Охраняемая",
	},
	{
		category: CategoryVehicleTypes,
		tagPatterns: []*regexp.Regexp{
			regexp.MustCompile(`car_parking_truck`),
			regexp.MustCompile(`car_parking_truck_car_parking`),
		},
		nameKeywords: []string{"груз"},
		defaultValue: "Для грузовиков",
	},
	{
		category: CategoryPaymentMethods,
		tagPatterns: []*regexp.Regexp{
			regexp.MustCompile(`general_payment_type_`),
			regexp.MustCompile(`payment_type`),
		},
		nameKeywords: []string{"налич", "карта"},
	},
}

var attributePriceRules = []priceRule{
	{category: CategoryPriceMonth, tagKeywords: []string{"month"}},
	{category: CategoryPriceDay, tagKeywords: []string{"day"}},
	{category: CategoryPriceHour, tagKeywords: []string{"hour"}},
}

var stopFactorPriceRules = []priceRule{
	{category: CategoryPriceMonth, tagKeywords: []string{"month"}, nameKeywords: []string{"в месяц"}},
	{category: CategoryPriceDay, tagKeywords: []string{"day"}, nameKeywords: []string{"в сутки", "сут"}},
	{category: CategoryPriceHour, tagKeywords: []string{"hour"}, nameKeywords: []string{"в час"}},
}

var stopFactorCategoryRules = []categoryRule{
	{
		category:     CategoryGuarded,
		tagPatterns:  []*regexp.Regexp{regexp.MustCompile(`guard`)},
		nameKeywords: []string{"охраня"},
		defaultValue: "Охраняемая",
	},
	{
		category:     CategoryVehicleTypes,
		tagPatterns:  []*regexp.Regexp{regexp.MustCompile(`truck`)},
		nameKeywords: []string{"груз"},
		defaultValue: "Для грузовиков",
	},
	{
		category:     CategoryPaymentMethods,
		tagPatterns:  []*regexp.Regexp{regexp.MustCompile(`^general_payment_type`)},
		nameKeywords: []string{"налич", "карта"},
	},
}

// Harvester recursively walks a JSON-like tree collecting parking facts.
type Harvester struct{}

func NewHarvester() *Harvester {
	return &Harvester{}
}

// Harvest traverses tree depth-first, recursing into every object value and
// array element regardless of key name, and returns one ordered
// de-duplicated candidate list per category. A nil tree yields empty lists.
func (h *Harvester) Harvest(tree interface{}) Result {
	found := Result{}
	for _, c := range Categories() {
		found[c] = []string{}
	}
	h.walk(tree, found)

	for _, c := range Categories() {
		found[c] = dedupe(found[c])
	}
	return found
}

func (h *Harvester) walk(node interface{}, found Result) {
	switch n := node.(type) {
	case map[string]interface{}:
		h.inspectObject(n, found)
		// Deterministic traversal order: JSON decoding loses member order,
		// so recursion follows sorted keys.
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.walk(n[k], found)
		}
	case []interface{}:
		for _, item := range n {
			h.walk(item, found)
		}
	}
}

func (h *Harvester) inspectObject(obj map[string]interface{}, found Result) {
	if capObj, ok := obj["capacity"].(map[string]interface{}); ok {
		if total := scalarString(capObj["total"]); total != "" {
			found[CategoryCapacity] = append(found[CategoryCapacity], total)
		}
	}

	if attrs, ok := obj["attributes"].([]interface{}); ok {
		for _, a := range attrs {
			if attr, ok := a.(map[string]interface{}); ok {
				h.classifyAttribute(attr, found)
			}
		}
	}

	if factors, ok := obj["stop_factors"].([]interface{}); ok {
		for _, f := range factors {
			if factor, ok := f.(map[string]interface{}); ok {
				h.classifyStopFactor(factor, found)
			}
		}
	}

	// Single-object case: a node carrying its own capacity tag next to a
	// total value.
	if tag := strings.ToLower(scalarString(obj["tag"])); tag != "" && strings.Contains(tag, "capacity") {
		if total, ok := obj["total"]; ok {
			found[CategoryCapacity] = append(found[CategoryCapacity], scalarString(total))
		}
	}
}

// classifyAttribute applies the attribute rules to one attributes[] element.
// Price classification and the category rules are independent of each other.
func (h *Harvester) classifyAttribute(attr map[string]interface{}, found Result) {
	tag := strings.ToLower(scalarString(attr["tag"]))
	name := scalarString(attr["name"])
	if name == "" {
		name = scalarString(attr["value"])
	}
	lname := strings.ToLower(name)

	if strings.Contains(tag, "parking") {
		for _, rule := range attributePriceRules {
			if containsAny(tag, rule.tagKeywords) {
				found[rule.category] = append(found[rule.category], name)
				break
			}
		}
	}

	for _, rule := range attributeCategoryRules {
		if matchAny(rule.tagPatterns, tag) || containsAny(lname, rule.nameKeywords) {
			value := name
			if value == "" {
				value = rule.defaultValue
			}
			found[rule.category] = append(found[rule.category], value)
		}
	}
}

// classifyStopFactor applies the stop-factor rules to one stop_factors[]
// element. Price-like factors that match no period keyword default to the
// day bucket.
func (h *Harvester) classifyStopFactor(factor map[string]interface{}, found Result) {
	tag := strings.ToLower(scalarString(factor["tag"]))
	name := scalarString(factor["name"])
	lname := strings.ToLower(name)

	if strings.Contains(tag, "parking") || strings.Contains(tag, "food_service_avg_price") {
		category := CategoryPriceDay
		for _, rule := range stopFactorPriceRules {
			if containsAny(tag, rule.tagKeywords) || containsAny(lname, rule.nameKeywords) {
				category = rule.category
				break
			}
		}
		found[category] = append(found[category], name)
	}

	for _, rule := range stopFactorCategoryRules {
		if matchAny(rule.tagPatterns, tag) || containsAny(lname, rule.nameKeywords) {
			value := name
			if value == "" {
				value = rule.defaultValue
			}
			found[rule.category] = append(found[rule.category], value)
		}
	}
}

// MergeResults concatenates results per category in argument order, then
// de-duplicates keeping the first occurrence.
func MergeResults(results ...Result) Result {
	merged := Result{}
	for _, c := range Categories() {
		var vals []string
		for _, r := range results {
			vals = append(vals, r[c]...)
		}
		merged[c] = dedupe(vals)
	}
	return merged
}

func dedupe(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	uniq := make([]string, 0, len(vals))
	for _, v := range vals {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}
	return uniq
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// scalarString renders a scalar tree value the way it appears in the output
// row. Zero, false, nil and empty values render as "".
func scalarString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == 0 {
			return ""
		}
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%v", val)
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		return fmt.Sprintf("%v", val)
	}
}
