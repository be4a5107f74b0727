// internal/workers/export/write-parking-csv/models.go
package writeparkingcsv

import "fmt"

// Row is one assembled output record, keyed by column key. Missing keys
// render as empty cells.
type Row map[string]string

// column pairs an internal column key with its header label.
type column struct {
	key   string
	label string
}

// contactChannels lists the known contact channel types in header order.
// Each expands into ColumnsPerEntity numbered slots.
var contactChannels = []column{
	{"phone", "Телефон"},
	{"email", "E-mail"},
	{"website", "Веб-сайт"},
	{"instagram", "Instagram"},
	{"twitter", "Twitter"},
	{"facebook", "Facebook"},
	{"vkontakte", "ВКонтакте"},
	{"whatsapp", "WhatsApp"},
	{"viber", "Viber"},
	{"telegram", "Telegram"},
	{"youtube", "YouTube"},
	{"skype", "Skype"},
}

// staticColumns are the descriptive fields preceding the contact slots.
var staticColumns = []column{
	{"name", "Наименование"},
	{"description", "Описание"},
	{"rubrics", "Рубрики"},
	{"address", "Адрес"},
	{"address_comment", "Комментарий к адресу"},
	{"postcode", "Почтовый индекс"},
	{"living_area", "Микрорайон"},
	{"district", "Район"},
	{"city", "Город"},
	{"district_area", "Округ"},
	{"region", "Регион"},
	{"country", "Страна"},
	{"schedule", "Часы работы"},
	{"timezone", "Часовой пояс"},
	{"general_rating", "Рейтинг"},
	{"general_review_count", "Количество отзывов"},
}

// parkingColumns are the seven harvested parking fields.
var parkingColumns = []column{
	{"parking_capacity", "Парковка: вместимость"},
	{"parking_price_hour", "Парковка: цена/час"},
	{"parking_price_day", "Парковка: цена/сутки"},
	{"parking_price_month", "Парковка: цена/месяц"},
	{"parking_vehicle_types", "Парковка: типы транспорта"},
	{"parking_guarded", "Парковка: охраняемая"},
	{"parking_payment_methods", "Парковка: способы оплаты"},
}

var tailColumns = []column{
	{"point_lat", "Широта"},
	{"point_lon", "Долгота"},
	{"url", "2GIS URL"},
}

// ColumnSet is the declared column mapping of the output table: fixed
// insertion order equal to header order.
type ColumnSet struct {
	keys   []string
	labels map[string]string
}

// buildColumns declares the full column set for the given options.
func buildColumns(cfg *Config) *ColumnSet {
	cs := &ColumnSet{labels: make(map[string]string)}

	for _, c := range staticColumns {
		if c.key == "rubrics" && !cfg.AddRubrics {
			continue
		}
		cs.add(c.key, c.label)
	}
	for _, ch := range contactChannels {
		for n := 1; n <= cfg.ColumnsPerEntity; n++ {
			cs.add(fmt.Sprintf("%s_%d", ch.key, n), fmt.Sprintf("%s %d", ch.label, n))
		}
	}
	for _, c := range parkingColumns {
		cs.add(c.key, c.label)
	}
	for _, c := range tailColumns {
		cs.add(c.key, c.label)
	}
	return cs
}

func (cs *ColumnSet) add(key, label string) {
	cs.keys = append(cs.keys, key)
	cs.labels[key] = label
}

// Keys returns the column keys in header order.
func (cs *ColumnSet) Keys() []string {
	return cs.keys
}

// Label returns the header label of a column key.
func (cs *ColumnSet) Label(key string) string {
	return cs.labels[key]
}

// Has reports whether the column set declares key.
func (cs *ColumnSet) Has(key string) bool {
	_, ok := cs.labels[key]
	return ok
}

// HeaderRecord renders the header line in column order.
func (cs *ColumnSet) HeaderRecord() []string {
	out := make([]string, len(cs.keys))
	for i, k := range cs.keys {
		out[i] = cs.labels[k]
	}
	return out
}

// Record renders a row in column order, empty string for unset fields.
func (cs *ColumnSet) Record(row Row) []string {
	out := make([]string, len(cs.keys))
	for i, k := range cs.keys {
		out[i] = row[k]
	}
	return out
}
