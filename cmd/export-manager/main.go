// cmd/export-manager/main.go
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"catalog-export/internal/common/config"
	"catalog-export/internal/common/logger"
	wpc "catalog-export/internal/workers/export/write-parking-csv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	runID := uuid.New().String()
	zapLog.Info("Starting export manager...",
		zap.String("run_id", runID),
		zap.String("input_dir", cfg.Export.InputDir),
		zap.String("output_file", cfg.Export.OutputFile),
	)

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.ListenAddress))
			if err := http.ListenAndServe(cfg.Metrics.ListenAddress, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	docs, err := listDocuments(cfg.Export.InputDir)
	if err != nil {
		zapLog.Fatal("input directory scan failed", zap.Error(err))
	}
	if len(docs) == 0 {
		zapLog.Warn("no catalog documents found", zap.String("input_dir", cfg.Export.InputDir))
	}

	writer := wpc.NewWriter(wpc.FromApp(cfg), log)
	if err := writer.Open(cfg.Export.OutputFile); err != nil {
		zapLog.Fatal("output table open failed", zap.Error(err))
	}

	start := time.Now()
	processed := 0
	for _, path := range docs {
		doc, err := readDocument(path)
		if err != nil {
			zapLog.Error("catalog document unreadable, skipping",
				zap.String("path", path), zap.Error(err))
			continue
		}
		writer.Write(doc)
		processed++
	}

	if err := writer.Close(); err != nil {
		zapLog.Fatal("output table finalize failed", zap.Error(err))
	}

	zapLog.Info("Export finished",
		zap.String("run_id", runID),
		zap.Int("documents", processed),
		zap.Int("rows", writer.WroteCount()),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("output_file", cfg.Export.OutputFile),
	)
}

// listDocuments returns the .json files of dir in lexical order.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		docs = append(docs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(docs)
	return docs, nil
}

func readDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
