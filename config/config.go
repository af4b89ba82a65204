package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultCSVFile is the dataset export the analysis was written against.
const DefaultCSVFile = "Internet_Fijo_Accesos_por_tecnología_y_segmento_20251210.csv"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CSVFile   string `envconfig:"CSV_FILE" default:"Internet_Fijo_Accesos_por_tecnología_y_segmento_20251210.csv" validate:"required"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"graficos" validate:"required"`

	ChartWidthIn  float64 `envconfig:"CHART_WIDTH_IN" default:"10" validate:"gt=0"`
	ChartHeightIn float64 `envconfig:"CHART_HEIGHT_IN" default:"5" validate:"gt=0"`

	ExportTables bool `envconfig:"EXPORT_TABLES" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console" validate:"oneof=console json"`
}

// Load reads envFile (if it exists), then the process environment, and
// returns a validated Config. Variables already set in the environment win
// over the file.
func Load(envFile string) (*Config, bool, error) {
	fromFile := true
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("config: read %s: %w", envFile, err)
		}
		fromFile = false
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fromFile, fmt.Errorf("config: decode env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fromFile, fmt.Errorf("config: invalid: %w", err)
	}
	return &cfg, fromFile, nil
}

// TablesDir is where exported tables are written.
func (c *Config) TablesDir() string {
	return filepath.Join(c.OutputDir, "tablas")
}
