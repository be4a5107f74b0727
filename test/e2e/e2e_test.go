// test/e2e/e2e_test.go
package e2e

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-export/internal/common/logger"
	wpc "catalog-export/internal/workers/export/write-parking-csv"
)

// writeDoc drops one catalog document into the input directory.
func writeDoc(t *testing.T, dir, name string, doc map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func readOutput(t *testing.T, path string) [][]string {
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

func lookup(t *testing.T, rows [][]string, rowIdx int, label string) string {
	t.Helper()
	for i, h := range rows[0] {
		if h == label {
			return rows[rowIdx][i]
		}
	}
	t.Fatalf("column %q not found in header %v", label, rows[0])
	return ""
}

// TestExportPipeline drives the whole flow the export manager runs: read
// catalog documents from a directory, write the parking table, then run both
// post-processing passes.
func TestExportPipeline(t *testing.T) {
	inputDir := t.TempDir()
	outputFile := filepath.Join(t.TempDir(), "export.csv")

	parking := map[string]interface{}{
		"result": map[string]interface{}{
			"items": []interface{}{map[string]interface{}{
				"name":         "Центральный паркинг",
				"name_ex":      map[string]interface{}{"primary": "Центральный паркинг"},
				"address_name": "ул. Ленина, 1",
				"point":        map[string]interface{}{"lat": 55.03, "lon": 82.92},
				"adm_div": []interface{}{
					map[string]interface{}{"type": "city", "name": "Новосибирск"},
				},
				"rubrics": []interface{}{map[string]interface{}{"name": "Автопарковки"}},
				"contact_groups": []interface{}{
					map[string]interface{}{"contacts": []interface{}{
						map[string]interface{}{"type": "phone", "text": "+7 (383) 123-45-67"},
					}},
				},
				"attributes": []interface{}{
					map[string]interface{}{"tag": "car_parking_guarded"},
					map[string]interface{}{"tag": "car_parking_cost_parking_month", "name": "5 000 ₽"},
				},
				"stop_factors": []interface{}{
					map[string]interface{}{"tag": "parking_cost", "name": "В сутки 300 ₽"},
				},
				"capacity": map[string]interface{}{"total": 150},
				"url":      "https://2gis.ru/firm/70000001234",
			}},
		},
	}

	writeDoc(t, inputDir, "001.json", parking)
	// The same document twice produces a duplicate row.
	writeDoc(t, inputDir, "002.json", parking)
	// A document without items contributes nothing.
	writeDoc(t, inputDir, "003.json", map[string]interface{}{
		"result": map[string]interface{}{"total": 0},
	})

	writer := wpc.NewWriter(&wpc.Config{
		ColumnsPerEntity:   3,
		AddRubrics:         true,
		JoinChar:           "; ",
		RemoveEmptyColumns: true,
		RemoveDuplicates:   true,
	}, logger.NewTestLogger(t))
	require.NoError(t, writer.Open(outputFile))

	entries, err := os.ReadDir(inputDir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(inputDir, e.Name()))
		require.NoError(t, err)
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &doc))
		writer.Write(doc)
	}

	assert.Equal(t, 2, writer.WroteCount())
	require.NoError(t, writer.Close())

	rows := readOutput(t, outputFile)
	// Two identical rows collapse into one.
	require.Len(t, rows, 2)

	header := rows[0]
	// Only the used contact channel survives, renamed without its slot number.
	assert.Contains(t, header, "Телефон")
	assert.NotContains(t, header, "Телефон 1")
	assert.NotContains(t, header, "E-mail 1")

	assert.Equal(t, "Центральный паркинг", lookup(t, rows, 1, "Наименование"))
	assert.Equal(t, "Новосибирск", lookup(t, rows, 1, "Город"))
	assert.Equal(t, "Автопарковки", lookup(t, rows, 1, "Рубрики"))
	assert.Equal(t, "83831234567", lookup(t, rows, 1, "Телефон"))
	assert.Equal(t, "150", lookup(t, rows, 1, "Парковка: вместимость"))
	assert.Equal(t, "5000 ₽", lookup(t, rows, 1, "Парковка: цена/месяц"))
	assert.Equal(t, "300 ₽", lookup(t, rows, 1, "Парковка: цена/сутки"))
	assert.Equal(t, "Да", lookup(t, rows, 1, "Парковка: охраняемая"))
	assert.Equal(t, "https://2gis.ru/firm/70000001234", lookup(t, rows, 1, "2GIS URL"))

	// The temp files of both passes are renamed away.
	base := filepath.Dir(outputFile)
	_, err = os.Stat(filepath.Join(base, "export.removed-columns.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "export.deduplicated.csv"))
	assert.True(t, os.IsNotExist(err))
}
