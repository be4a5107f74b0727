// internal/workers/export/write-parking-csv/config.go
package writeparkingcsv

import "catalog-export/internal/common/config"

// Config holds the options recognized by the parking CSV writer.
type Config struct {
	ColumnsPerEntity   int    // numbered slots per contact channel
	AddRubrics         bool   // include the rubrics column
	AddComments        bool   // append contact/schedule comments
	JoinChar           string // separator for multi-value fields
	RemoveEmptyColumns bool
	RemoveDuplicates   bool
	Verbose            bool // per-row logging
}

// FromApp projects the application configuration onto writer options.
func FromApp(cfg *config.Config) *Config {
	return &Config{
		ColumnsPerEntity:   cfg.CSV.ColumnsPerEntity,
		AddRubrics:         cfg.CSV.AddRubrics,
		AddComments:        cfg.CSV.AddComments,
		JoinChar:           cfg.CSV.JoinChar,
		RemoveEmptyColumns: cfg.CSV.RemoveEmptyColumns,
		RemoveDuplicates:   cfg.CSV.RemoveDuplicates,
		Verbose:            cfg.Export.Verbose,
	}
}

// DefaultConfig returns the options used when no configuration is supplied.
func DefaultConfig() *Config {
	return &Config{
		ColumnsPerEntity: 3,
		AddRubrics:       true,
		JoinChar:         "; ",
	}
}
