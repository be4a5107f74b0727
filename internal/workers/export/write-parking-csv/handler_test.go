package writeparkingcsv

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-export/internal/common/logger"
)

func newTestWriter(t *testing.T, cfg *Config) (*Writer, string) {
	t.Helper()
	w := NewWriter(cfg, logger.NewTestLogger(t))
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, w.Open(path))
	return w, path
}

func decodeDoc(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func wrapItem(item map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"result": map[string]interface{}{
			"items": []interface{}{item},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

// cell returns the value of the column with the given header label.
func cell(t *testing.T, rows [][]string, rowIdx int, label string) string {
	t.Helper()
	for i, h := range rows[0] {
		if h == label {
			require.Greater(t, len(rows), rowIdx)
			return rows[rowIdx][i]
		}
	}
	t.Fatalf("column %q not found in header %v", label, rows[0])
	return ""
}

func TestWriterHeaderOnly(t *testing.T) {
	w, path := newTestWriter(t, nil)
	require.NoError(t, w.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, "Наименование", rows[0][0])
	assert.Contains(t, rows[0], "Парковка: вместимость")
	assert.Equal(t, "2GIS URL", rows[0][len(rows[0])-1])
}

func TestWriterSkipsDocumentWithoutItems(t *testing.T) {
	w, path := newTestWriter(t, nil)

	w.Write(decodeDoc(t, `{"result": {"total": 0}}`))
	w.Write(decodeDoc(t, `{"meta": {"code": 404}}`))
	w.Write(decodeDoc(t, `{"result": {"items": []}}`))

	assert.Equal(t, 0, w.WroteCount())
	require.NoError(t, w.Close())
	assert.Len(t, readCSV(t, path), 1)
}

func TestWriterSkipsInvalidItem(t *testing.T) {
	w, path := newTestWriter(t, nil)

	w.Write(wrapItem(map[string]interface{}{"name": 42.0}))

	assert.Equal(t, 0, w.WroteCount())
	require.NoError(t, w.Close())
	assert.Len(t, readCSV(t, path), 1)
}

func TestWriterWritesParkingRow(t *testing.T) {
	w, path := newTestWriter(t, nil)

	w.Write(decodeDoc(t, `{
		"result": {
			"items": [{
				"name": "Центральный паркинг",
				"name_ex": {"primary": "Центральный паркинг", "extension": "крытая стоянка"},
				"address_name": "ул. Ленина, 1",
				"point": {"lat": 55.03, "lon": 82.92},
				"adm_div": [
					{"type": "city", "name": "Новосибирск"},
					{"type": "region", "name": "Новосибирская область"}
				],
				"rubrics": [{"name": "Автопарковки"}],
				"schedule": {
					"Mon": {"working_hours": [{"from": "08:00", "to": "22:00"}]},
					"Tue": {"working_hours": [{"from": "08:00", "to": "22:00"}]}
				},
				"contact_groups": [
					{"contacts": [
						{"type": "phone", "text": "+7 (383) 123-45-67", "value": "+73831234567"},
						{"type": "website", "url": "https://parking.example"}
					]}
				],
				"attributes": [
					{"tag": "car_parking_guarded"},
					{"tag": "car_parking_cost_parking_hour", "name": "В час 50 ₽"}
				],
				"stop_factors": [
					{"tag": "parking_cost", "name": "В сутки 300 ₽"}
				],
				"capacity": {"total": 150},
				"url": "https://2gis.ru/firm/70000001234"
			}]
		}
	}`))

	assert.Equal(t, 1, w.WroteCount())
	require.NoError(t, w.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "Центральный паркинг", cell(t, rows, 1, "Наименование"))
	assert.Equal(t, "крытая стоянка", cell(t, rows, 1, "Описание"))
	assert.Equal(t, "ул. Ленина, 1", cell(t, rows, 1, "Адрес"))
	assert.Equal(t, "Новосибирск", cell(t, rows, 1, "Город"))
	assert.Equal(t, "Новосибирская область", cell(t, rows, 1, "Регион"))
	assert.Equal(t, "Автопарковки", cell(t, rows, 1, "Рубрики"))
	assert.Equal(t, "Пн 08:00-22:00; Вт 08:00-22:00", cell(t, rows, 1, "Часы работы"))
	assert.Equal(t, "83831234567", cell(t, rows, 1, "Телефон 1"))
	assert.Equal(t, "https://parking.example", cell(t, rows, 1, "Веб-сайт 1"))
	assert.Equal(t, "150", cell(t, rows, 1, "Парковка: вместимость"))
	assert.Equal(t, "50 ₽", cell(t, rows, 1, "Парковка: цена/час"))
	assert.Equal(t, "300 ₽", cell(t, rows, 1, "Парковка: цена/сутки"))
	assert.Equal(t, "Да", cell(t, rows, 1, "Парковка: охраняемая"))
	assert.Equal(t, "55.03", cell(t, rows, 1, "Широта"))
	assert.Equal(t, "82.92", cell(t, rows, 1, "Долгота"))
	assert.Equal(t, "https://2gis.ru/firm/70000001234", cell(t, rows, 1, "2GIS URL"))
}

func TestWriterGuardedColumnStaysBlankWithoutSignal(t *testing.T) {
	w, path := newTestWriter(t, nil)

	w.Write(wrapItem(map[string]interface{}{
		"name":       "Стоянка без охраны",
		"attributes": []interface{}{map[string]interface{}{"tag": "wifi"}},
	}))

	require.NoError(t, w.Close())
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", cell(t, rows, 1, "Парковка: охраняемая"))
}

func TestWriterCountsAcrossDocuments(t *testing.T) {
	w, _ := newTestWriter(t, nil)

	w.Write(wrapItem(map[string]interface{}{"name": "Первая"}))
	w.Write(decodeDoc(t, `{"result": {}}`))
	w.Write(wrapItem(map[string]interface{}{"name": "Вторая"}))

	assert.Equal(t, 2, w.WroteCount())
	require.NoError(t, w.Close())
}

func TestWriterCloseIsIdempotent(t *testing.T) {
	w, _ := newTestWriter(t, nil)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWriterOpenFailure(t *testing.T) {
	w := NewWriter(nil, logger.NewTestLogger(t))
	err := w.Open(filepath.Join(t.TempDir(), "missing", "export.csv"))
	require.Error(t, err)
}
