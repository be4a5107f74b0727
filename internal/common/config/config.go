// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Export  ExportConfig  `mapstructure:"export"`
	CSV     CSVConfig     `mapstructure:"csv"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

type MetricsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ListenAddress string `mapstructure:"listen_address"`
}

// ExportConfig holds the run-level settings of the export manager.
type ExportConfig struct {
	InputDir   string `mapstructure:"input_dir"`
	OutputFile string `mapstructure:"output_file"`
	Verbose    bool   `mapstructure:"verbose"` // per-row logging
}

// CSVConfig holds the options recognized by the CSV writer.
type CSVConfig struct {
	ColumnsPerEntity   int    `mapstructure:"columns_per_entity"` // numbered slots per contact channel
	AddRubrics         bool   `mapstructure:"add_rubrics"`
	AddComments        bool   `mapstructure:"add_comments"` // append contact/schedule comments
	JoinChar           string `mapstructure:"join_char"`    // separator for multi-value fields
	RemoveEmptyColumns bool   `mapstructure:"remove_empty_columns"`
	RemoveDuplicates   bool   `mapstructure:"remove_duplicates"`
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalog-export"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = ":9105"
	}
	if cfg.Export.OutputFile == "" {
		cfg.Export.OutputFile = "export.csv"
	}
	if cfg.CSV.ColumnsPerEntity == 0 {
		cfg.CSV.ColumnsPerEntity = 3
	}
	if cfg.CSV.JoinChar == "" {
		cfg.CSV.JoinChar = "; "
	}
}

func validateConfig(cfg *Config) error {
	if cfg.CSV.ColumnsPerEntity < 1 {
		return fmt.Errorf("csv.columns_per_entity must be >= 1, got %d", cfg.CSV.ColumnsPerEntity)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", cfg.Logging.Level)
	}
	return nil
}
