package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings for one classification run.
//
// Fields:
// - Env: The current environment (e.g. local, development, production).
// - SourceDir: The folder scanned for photos and boundary files.
// - TargetDir: The folder receiving the classified tree; derived from the source when empty.
// - BoundaryFile: The KML/OVKML boundary document; auto-discovered in SourceDir when empty.
// - ParseMode: The boundary parsing strategy, "standard" or "nested".
// - Workers: The number of concurrent workers classifying photos.
// - Watermark: Whether to draw the location overlay on copied photos.
// - WatermarkFont: Path to a TTF font for the overlay text.
// - GenerateCSV / GenerateKML: Whether to write the per-region reports.
// - MetricsPort: Monitoring server port; 0 disables the server.
// - Database: Optional PostgreSQL sink for placement records.
type Config struct {
	Env           string
	SourceDir     string
	TargetDir     string
	BoundaryFile  string
	ParseMode     string
	Workers       int
	Watermark     bool
	WatermarkFont string
	GenerateCSV   bool
	GenerateKML   bool
	MetricsPort   int
	Database      PostgresConfig
}

// PostgresConfig holds the connection details for the optional placements
// database. An empty Host disables persistence entirely.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// MustLoad reads the configuration from the environment (a .env file is
// honored when present) and panics on malformed numeric values, matching the
// fail-fast startup contract of the binaries.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GAZETTEER")
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("source_dir", "")
	v.SetDefault("target_dir", "")
	v.SetDefault("boundary_file", "")
	v.SetDefault("parse_mode", "standard")
	v.SetDefault("workers", "4")
	v.SetDefault("watermark", false)
	v.SetDefault("watermark_font", "")
	v.SetDefault("generate_csv", true)
	v.SetDefault("generate_kml", true)
	v.SetDefault("metrics_port", "0")

	workers, err := strconv.Atoi(v.GetString("workers"))
	if err != nil {
		panic("failed to parse workers from configuration, must be an integer")
	}

	metricsPort, err := strconv.Atoi(v.GetString("metrics_port"))
	if err != nil {
		panic("failed to parse metrics port from configuration")
	}

	return &Config{
		Env:           v.GetString("env"),
		SourceDir:     v.GetString("source_dir"),
		TargetDir:     v.GetString("target_dir"),
		BoundaryFile:  v.GetString("boundary_file"),
		ParseMode:     v.GetString("parse_mode"),
		Workers:       workers,
		Watermark:     v.GetBool("watermark"),
		WatermarkFont: v.GetString("watermark_font"),
		GenerateCSV:   v.GetBool("generate_csv"),
		GenerateKML:   v.GetBool("generate_kml"),
		MetricsPort:   metricsPort,
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}
