// internal/workers/export/write-parking-csv/postprocess.go
package writeparkingcsv

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	numberedColumnRe = regexp.MustCompile(`^(.+)_(\d+)$`)
	trailingNumberRe = regexp.MustCompile(`\s+\d+$`)
)

// tempPath inserts a pass suffix before the file extension, e.g.
// export.csv -> export.removed-columns.csv.
func tempPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + suffix + ext
}

// removeEmptyColumns drops numbered contact columns that stayed empty across
// every data row. When a channel retains a single slot, its header label
// loses the numeric suffix. The table is rewritten through a temp file and
// atomically renamed into place.
func (w *Writer) removeEmptyColumns() error {
	rows, err := readTable(w.path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	keys := w.columns.Keys()
	counts := make([]int, len(keys))
	for _, rec := range rows[1:] {
		for i := range keys {
			if i < len(rec) && rec[i] != "" {
				counts[i]++
			}
		}
	}

	keep := make([]bool, len(keys))
	removed := 0
	for i, key := range keys {
		keep[i] = true
		if counts[i] == 0 && isContactColumn(key) {
			keep[i] = false
			removed++
		}
	}
	if removed == 0 {
		return nil
	}

	// Surviving slot count per channel decides label renumbering.
	surviving := make(map[string]int)
	for i, key := range keys {
		if !keep[i] {
			continue
		}
		if m := numberedColumnRe.FindStringSubmatch(key); m != nil {
			surviving[m[1]]++
		}
	}

	next := &ColumnSet{labels: make(map[string]string)}
	for i, key := range keys {
		if !keep[i] {
			continue
		}
		label := w.columns.Label(key)
		if m := numberedColumnRe.FindStringSubmatch(key); m != nil && surviving[m[1]] == 1 {
			label = trailingNumberRe.ReplaceAllString(label, "")
		}
		next.add(key, label)
	}

	tmp := tempPath(w.path, "removed-columns")
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	out := csv.NewWriter(file)
	if err := out.Write(next.HeaderRecord()); err != nil {
		file.Close()
		return err
	}
	for _, rec := range rows[1:] {
		filtered := make([]string, 0, len(next.keys))
		for i := range keys {
			if !keep[i] {
				continue
			}
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			filtered = append(filtered, cell)
		}
		if err := out.Write(filtered); err != nil {
			file.Close()
			return err
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return err
	}

	w.columns = next
	w.logger.Info("removed empty contact columns", map[string]interface{}{
		"removed":   removed,
		"remaining": len(next.keys),
	})
	return nil
}

// deduplicateLines keeps the first occurrence of every exact line, including
// the header, preserving order.
func (w *Writer) deduplicateLines() error {
	in, err := os.Open(w.path)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := tempPath(w.path, "deduplicated")
	outFile, err := os.Create(tmp)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(outFile)

	seen := make(map[string]struct{})
	dropped := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if _, dup := seen[line]; dup {
			dropped++
			continue
		}
		seen[line] = struct{}{}
		if _, err := out.WriteString(line + "\n"); err != nil {
			outFile.Close()
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		outFile.Close()
		return err
	}
	if err := out.Flush(); err != nil {
		outFile.Close()
		return err
	}
	if err := outFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return err
	}

	w.logger.Info("removed duplicate lines", map[string]interface{}{"dropped": dropped})
	return nil
}

func isContactColumn(key string) bool {
	m := numberedColumnRe.FindStringSubmatch(key)
	if m == nil {
		return false
	}
	for _, ch := range contactChannels {
		if ch.key == m[1] {
			return true
		}
	}
	return false
}

func readTable(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
