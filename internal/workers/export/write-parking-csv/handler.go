// internal/workers/export/write-parking-csv/handler.go
package writeparkingcsv

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"

	stderrors "catalog-export/internal/common/errors"
	"catalog-export/internal/common/logger"
	"catalog-export/internal/common/metrics"
	"catalog-export/internal/extract"
	"catalog-export/internal/models"
)

const TaskType = "write-parking-csv"

// Writer appends one normalized row per catalog document to a CSV table and
// reshapes the finished table on Close. It owns the output file exclusively
// between Open and Close; all per-document failures are row-scoped.
type Writer struct {
	cfg       *Config
	logger    logger.Logger
	columns   *ColumnSet
	harvester *extract.Harvester

	path  string
	file  *os.File
	csvw  *csv.Writer
	wrote int
}

// NewWriter declares the column set for the given options. The set is fixed
// for the lifetime of the writer; only the post-processing passes may shrink
// it.
func NewWriter(cfg *Config, log logger.Logger) *Writer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Writer{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		columns:   buildColumns(cfg),
		harvester: extract.NewHarvester(),
	}
}

// Open creates the output table and writes the header row.
func (w *Writer) Open(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return stderrors.NewSinkOpenFailedError(path, err)
	}

	w.path = path
	w.file = file
	w.csvw = csv.NewWriter(file)
	w.wrote = 0

	if err := w.writeRecord(w.columns.HeaderRecord()); err != nil {
		file.Close()
		return stderrors.NewSinkOpenFailedError(path, err)
	}
	return nil
}

// Write consumes one catalog document and appends at most one row. Failures
// never propagate: malformed documents and validation failures are logged
// and skipped, field-level misses leave cells blank.
func (w *Writer) Write(doc map[string]interface{}) {
	item, err := extractItem(doc)
	if err != nil {
		serr := stderrors.NewMalformedDocumentError(err.Error())
		w.logger.Error("catalog document has no reachable item, skipping row",
			map[string]interface{}{"error": serr.Error()})
		metrics.RowsSkipped.WithLabelValues("malformed_document").Inc()
		return
	}

	report, err := validateItem(item)
	if err != nil {
		fields := map[string]interface{}{"error": err.Error()}
		if errors.Is(err, ErrItemInvalid) {
			serr := stderrors.NewSchemaValidationFailedError(report.String())
			fields["error"] = serr.Error()
			fields["report"] = serr.Details
			fields["document"] = compactJSON(doc)
		}
		w.logger.Error("catalog item failed validation, skipping row", fields)
		metrics.RowsSkipped.WithLabelValues("schema_validation").Inc()
		return
	}

	structured := models.FromRaw(item)
	row := w.assemble(structured, item)

	if w.cfg.Verbose {
		w.logger.Info("парсинг строки", map[string]interface{}{
			"row":  w.wrote + 1,
			"name": row["name"],
		})
	}

	if err := w.writeRecord(w.columns.Record(row)); err != nil {
		serr := stderrors.NewRowWriteFailedError(err)
		w.logger.Error("sink rejected row, continuing", map[string]interface{}{"error": serr.Error()})
		metrics.RowWriteFailures.Inc()
		return
	}

	w.wrote++
	metrics.RowsWritten.Inc()
}

func (w *Writer) writeRecord(record []string) error {
	if w.csvw == nil {
		return errors.New("writer is not open")
	}
	if err := w.csvw.Write(record); err != nil {
		return err
	}
	w.csvw.Flush()
	return w.csvw.Error()
}

// WroteCount reports the number of data rows written so far.
func (w *Writer) WroteCount() int {
	return w.wrote
}

// Close flushes and closes the table, then runs the enabled column-shaping
// passes: empty-column removal first, exact-line deduplication second.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	w.csvw.Flush()
	flushErr := w.csvw.Error()
	closeErr := w.file.Close()
	w.file = nil
	w.csvw = nil
	if flushErr != nil {
		return stderrors.NewRowWriteFailedError(flushErr)
	}
	if closeErr != nil {
		return stderrors.NewRowWriteFailedError(closeErr)
	}

	if w.cfg.RemoveEmptyColumns {
		w.logger.Info("removing empty CSV columns", nil)
		if err := w.removeEmptyColumns(); err != nil {
			return stderrors.NewPostProcessFailedError("remove_empty_columns", err)
		}
		metrics.PostProcessPasses.WithLabelValues("remove_empty_columns").Inc()
	}
	if w.cfg.RemoveDuplicates {
		w.logger.Info("removing duplicate CSV lines", nil)
		if err := w.deduplicateLines(); err != nil {
			return stderrors.NewPostProcessFailedError("remove_duplicates", err)
		}
		metrics.PostProcessPasses.WithLabelValues("remove_duplicates").Inc()
	}
	return nil
}

func compactJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
