// internal/models/catalog.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CatalogItem is the validated structured projection of one catalog item.
// Every field is optional; absent or undecodable fields stay nil and the
// writer falls back to the raw document tree for them.
type CatalogItem struct {
	ID             interface{}    `json:"id,omitempty"`
	Name           string         `json:"name,omitempty"`
	ShortName      string         `json:"short_name,omitempty"`
	NameEx         *NameEx        `json:"name_ex,omitempty"`
	AddressName    string         `json:"address_name,omitempty"`
	AddressComment string         `json:"address_comment,omitempty"`
	Address        *Address       `json:"address,omitempty"`
	Point          *Point         `json:"point,omitempty"`
	AdmDiv         []AdmDiv       `json:"adm_div,omitempty"`
	Reviews        *Reviews       `json:"reviews,omitempty"`
	ContactGroups  []ContactGroup `json:"contact_groups,omitempty"`
	Schedule       *Schedule      `json:"schedule,omitempty"`
	Rubrics        []Rubric       `json:"rubrics,omitempty"`
	Timezone       string         `json:"timezone,omitempty"`
	URL            string         `json:"url,omitempty"`
}

type NameEx struct {
	Primary   string `json:"primary,omitempty"`
	Extension string `json:"extension,omitempty"`
}

type Address struct {
	Postcode interface{} `json:"postcode,omitempty"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AdmDiv is one administrative division entry (country, region, city, ...).
type AdmDiv struct {
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

type Reviews struct {
	GeneralRating      interface{} `json:"general_rating,omitempty"`
	GeneralReviewCount interface{} `json:"general_review_count,omitempty"`
}

type ContactGroup struct {
	Contacts []Contact `json:"contacts,omitempty"`
}

type Contact struct {
	Type    string `json:"type,omitempty"`
	Value   string `json:"value,omitempty"`
	Text    string `json:"text,omitempty"`
	URL     string `json:"url,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type Rubric struct {
	Name string `json:"name,omitempty"`
}

// FromRaw projects a raw (already schema-validated) item map onto the
// structured model. Fields are decoded independently so one undecodable
// field does not discard the rest of the projection.
func FromRaw(item map[string]interface{}) *CatalogItem {
	it := &CatalogItem{}
	decodeField(item, "id", &it.ID)
	decodeField(item, "name", &it.Name)
	decodeField(item, "short_name", &it.ShortName)
	decodeField(item, "name_ex", &it.NameEx)
	decodeField(item, "address_name", &it.AddressName)
	decodeField(item, "address_comment", &it.AddressComment)
	decodeField(item, "address", &it.Address)
	decodeField(item, "point", &it.Point)
	decodeField(item, "adm_div", &it.AdmDiv)
	decodeField(item, "reviews", &it.Reviews)
	decodeField(item, "contact_groups", &it.ContactGroups)
	decodeField(item, "schedule", &it.Schedule)
	decodeField(item, "rubrics", &it.Rubrics)
	decodeField(item, "timezone", &it.Timezone)
	decodeField(item, "url", &it.URL)
	return it
}

func decodeField(item map[string]interface{}, key string, target interface{}) {
	raw, ok := item[key]
	if !ok || raw == nil {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, target)
}

// Tree re-marshals the structured item into a plain JSON tree, the form the
// attribute harvester walks. Returns nil for a nil item.
func (c *CatalogItem) Tree() map[string]interface{} {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil
	}
	return tree
}

// Schedule holds per-day working hours plus an optional free-text comment.
type Schedule struct {
	Mon     *ScheduleDay `json:"Mon,omitempty"`
	Tue     *ScheduleDay `json:"Tue,omitempty"`
	Wed     *ScheduleDay `json:"Wed,omitempty"`
	Thu     *ScheduleDay `json:"Thu,omitempty"`
	Fri     *ScheduleDay `json:"Fri,omitempty"`
	Sat     *ScheduleDay `json:"Sat,omitempty"`
	Sun     *ScheduleDay `json:"Sun,omitempty"`
	Comment string       `json:"comment,omitempty"`
}

type ScheduleDay struct {
	WorkingHours []WorkingHours `json:"working_hours,omitempty"`
}

type WorkingHours struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

var scheduleDayNames = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

func (s *Schedule) days() []*ScheduleDay {
	return []*ScheduleDay{s.Mon, s.Tue, s.Wed, s.Thu, s.Fri, s.Sat, s.Sun}
}

// Render produces the canonical display string: one "<day> <from>-<to>"
// segment per working day in Пн..Вс order, joined with sep. The schedule
// comment is appended as a final parenthesized segment when withComment is
// set. Returns "" when no day carries working hours.
func (s *Schedule) Render(sep string, withComment bool) string {
	if s == nil {
		return ""
	}

	var segments []string
	for i, day := range s.days() {
		if day == nil || len(day.WorkingHours) == 0 {
			continue
		}
		ranges := make([]string, 0, len(day.WorkingHours))
		for _, wh := range day.WorkingHours {
			if wh.From == "" && wh.To == "" {
				continue
			}
			ranges = append(ranges, fmt.Sprintf("%s-%s", wh.From, wh.To))
		}
		if len(ranges) == 0 {
			continue
		}
		segments = append(segments, fmt.Sprintf("%s %s", scheduleDayNames[i], strings.Join(ranges, ", ")))
	}

	if len(segments) == 0 {
		return ""
	}
	if withComment && s.Comment != "" {
		segments = append(segments, fmt.Sprintf("(%s)", s.Comment))
	}
	return strings.Join(segments, sep)
}
