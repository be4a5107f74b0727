// internal/workers/export/write-parking-csv/assembler.go
package writeparkingcsv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	stderrors "catalog-export/internal/common/errors"
	"catalog-export/internal/extract"
	"catalog-export/internal/models"
)

// fieldSpecs declares the fallback chain of every descriptive field once, as
// data: structured path first, then raw paths in priority order.
var fieldSpecs = []extract.Spec{
	{Field: "name", Structured: "name_ex.primary", Raw: []string{"name", "name_ex.primary", "short_name"}},
	{Field: "description", Structured: "name_ex.extension", Raw: []string{"name_ex.extension", "description"}},
	{Field: "address", Structured: "address_name", Raw: []string{"address_name", "address.formatted", "address"}},
	{Field: "address_comment", Structured: "address_comment", Raw: []string{"address_comment", "address.comment"}},
	{Field: "postcode", Structured: "address.postcode", Raw: []string{"address.postcode"}},
	{Field: "timezone", Structured: "timezone", Raw: []string{"timezone"}},
	{Field: "general_rating", Structured: "reviews.general_rating", Raw: []string{"reviews.general_rating"}},
	{Field: "general_review_count", Structured: "reviews.general_review_count", Raw: []string{"reviews.general_review_count"}},
	{Field: "url", Structured: "url", Raw: []string{"url"}},
}

var coordinateSpecs = []extract.Spec{
	{Field: "point_lat", Structured: "point.lat", Raw: []string{"lat", "point.lat"}},
	{Field: "point_lon", Structured: "point.lon", Raw: []string{"lon", "point.lon"}},
}

// admDivTypes are the recognized administrative division type tags; each maps
// to the output column of the same name.
var admDivTypes = []string{"country", "region", "district_area", "city", "district", "living_area"}

var (
	phoneStripRe  = regexp.MustCompile(`[^0-9+]`)
	phonePrefixRe = regexp.MustCompile(`^\+7`)
)

// assemble builds one output row from the structured projection and the raw
// item tree. Individual resolution misses leave cells blank and never abort
// the record.
func (w *Writer) assemble(item *models.CatalogItem, raw map[string]interface{}) Row {
	row := Row{}
	resolver := extract.NewResolver(
		extract.NewStructuredSource(item.Tree()),
		extract.NewRawTreeSource(raw),
	)

	for _, spec := range fieldSpecs {
		if !w.columns.Has(spec.Field) {
			continue
		}
		if v, ok := resolver.Resolve(spec); ok {
			row[spec.Field] = formatValue(v)
		} else {
			miss := stderrors.NewFieldResolutionMissError(spec.Field)
			w.logger.Debug("field unresolved, leaving blank", map[string]interface{}{"error": miss.Error(), "field": spec.Field})
		}
	}
	for _, spec := range coordinateSpecs {
		if v, ok := resolver.Resolve(spec); ok {
			row[spec.Field] = formatValue(v)
		}
	}

	w.assignAdmDivisions(row, item, raw)
	w.assignContacts(row, item)
	w.assignParking(row, item, raw)
	w.assignSchedule(row, item)
	if w.cfg.AddRubrics {
		w.assignRubrics(row, item, raw)
	}
	return row
}

// assignAdmDivisions copies recognized division names onto their columns;
// later entries of the same type overwrite earlier ones.
func (w *Writer) assignAdmDivisions(row Row, item *models.CatalogItem, raw map[string]interface{}) {
	divs := item.AdmDiv
	if len(divs) == 0 {
		divs = rawAdmDivisions(raw)
	}
	for _, div := range divs {
		if div.Name == "" {
			continue
		}
		for _, t := range admDivTypes {
			if div.Type == t {
				row[t] = div.Name
			}
		}
	}
}

func rawAdmDivisions(raw map[string]interface{}) []models.AdmDiv {
	list, ok := raw["adm_div"].([]interface{})
	if !ok {
		list, ok = raw["administrative_divisions"].([]interface{})
		if !ok {
			return nil
		}
	}
	var divs []models.AdmDiv
	for _, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		dType, _ := obj["type"].(string)
		dName, _ := obj["name"].(string)
		divs = append(divs, models.AdmDiv{Type: dType, Name: dName})
	}
	return divs
}

// contactValuePriority lists, per channel, the contact fields holding the
// displayable value. Channels not listed resolve from the url field.
var contactValuePriority = map[string][]string{
	"phone": {"text", "value"},
	"email": {"value"},
	"skype": {"value", "url"},
}

// assignContacts fills the numbered contact slots. Numbering restarts at 1
// per contact group; entries beyond the configured slot count are dropped
// silently.
func (w *Writer) assignContacts(row Row, item *models.CatalogItem) {
	for _, group := range item.ContactGroups {
		counters := make(map[string]int, len(contactChannels))
		for _, contact := range group.Contacts {
			for _, ch := range contactChannels {
				value := contactValue(contact, ch.key)
				if value == "" {
					continue
				}
				if contact.Type != "" && contact.Type != ch.key {
					continue
				}
				counters[ch.key]++
				idx := counters[ch.key]
				if idx > w.cfg.ColumnsPerEntity {
					continue
				}
				if ch.key == "phone" {
					value = formatPhone(value)
				}
				if w.cfg.AddComments && contact.Comment != "" {
					value = fmt.Sprintf("%s (%s)", value, contact.Comment)
				}
				row[fmt.Sprintf("%s_%d", ch.key, idx)] = value
			}
		}
	}
}

func contactValue(contact models.Contact, channel string) string {
	priority, ok := contactValuePriority[channel]
	if !ok {
		priority = []string{"url"}
	}
	for _, field := range priority {
		var v string
		switch field {
		case "text":
			v = contact.Text
		case "value":
			v = contact.Value
		case "url":
			v = contact.URL
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// formatPhone strips everything except digits and '+', then rewrites a
// leading +7 to 8.
func formatPhone(s string) string {
	return phonePrefixRe.ReplaceAllString(phoneStripRe.ReplaceAllString(s, ""), "8")
}

// assignParking harvests the structured tree and the raw tree separately,
// merges per category (structured first, first occurrence wins) and formats
// the seven parking columns.
func (w *Writer) assignParking(row Row, item *models.CatalogItem, raw map[string]interface{}) {
	structuredRes := w.harvester.Harvest(item.Tree())
	rawRes := w.harvester.Harvest(raw)
	merged := extract.MergeResults(structuredRes, rawRes)

	if vals := merged[extract.CategoryCapacity]; len(vals) > 0 {
		row["parking_capacity"] = vals[0]
	}
	priceColumns := map[string]string{
		extract.CategoryPriceHour:  "parking_price_hour",
		extract.CategoryPriceDay:   "parking_price_day",
		extract.CategoryPriceMonth: "parking_price_month",
	}
	for category, key := range priceColumns {
		if vals := merged[category]; len(vals) > 0 {
			if price := extract.NormalizePrice(vals[0]); price != "" {
				row[key] = price
			}
		}
	}
	if vals := merged[extract.CategoryVehicleTypes]; len(vals) > 0 {
		row["parking_vehicle_types"] = strings.Join(vals, w.cfg.JoinChar)
	}
	// Guarded is asymmetric: any signal means "Да", no signal leaves the
	// cell blank. An explicit negative is never emitted.
	if len(merged[extract.CategoryGuarded]) > 0 {
		row["parking_guarded"] = "Да"
	}
	if vals := merged[extract.CategoryPaymentMethods]; len(vals) > 0 {
		row["parking_payment_methods"] = strings.Join(vals, w.cfg.JoinChar)
	}

	w.logger.Debug("parsed parking fields", map[string]interface{}{
		"capacity": row["parking_capacity"],
		"hour":     row["parking_price_hour"],
		"day":      row["parking_price_day"],
		"month":    row["parking_price_month"],
		"vehicle":  row["parking_vehicle_types"],
		"guarded":  row["parking_guarded"],
		"payment":  row["parking_payment_methods"],
	})
}

// assignSchedule renders the structured schedule; there is no raw-JSON
// schedule fallback.
func (w *Writer) assignSchedule(row Row, item *models.CatalogItem) {
	if item.Schedule == nil {
		return
	}
	if s := item.Schedule.Render(w.cfg.JoinChar, w.cfg.AddComments); s != "" {
		row["schedule"] = s
	}
}

// assignRubrics joins structured rubric names, falling back to raw rubric
// entries which may be objects or plain strings.
func (w *Writer) assignRubrics(row Row, item *models.CatalogItem, raw map[string]interface{}) {
	var names []string
	for _, r := range item.Rubrics {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		list, ok := raw["rubrics"].([]interface{})
		if !ok {
			return
		}
		for _, entry := range list {
			switch rv := entry.(type) {
			case map[string]interface{}:
				if n, _ := rv["name"].(string); n != "" {
					names = append(names, n)
				}
			case string:
				names = append(names, rv)
			}
		}
	}
	if len(names) > 0 {
		row["rubrics"] = strings.Join(names, w.cfg.JoinChar)
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
