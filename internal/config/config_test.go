package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AerialWorks/gazetteer/internal/config"
)

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()
	require.NotNil(t, cfg)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "standard", cfg.ParseMode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Zero(t, cfg.MetricsPort)
	assert.False(t, cfg.Watermark)
	assert.True(t, cfg.GenerateCSV)
	assert.True(t, cfg.GenerateKML)
	assert.Empty(t, cfg.Database.Host)
}

func TestMustLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GAZETTEER_ENV", "local")
	t.Setenv("GAZETTEER_SOURCE_DIR", "/data/photos")
	t.Setenv("GAZETTEER_TARGET_DIR", "/data/classified")
	t.Setenv("GAZETTEER_BOUNDARY_FILE", "/data/boundaries.kml")
	t.Setenv("GAZETTEER_PARSE_MODE", "nested")
	t.Setenv("GAZETTEER_WORKERS", "8")
	t.Setenv("GAZETTEER_WATERMARK", "true")
	t.Setenv("GAZETTEER_WATERMARK_FONT", "/fonts/sim.ttf")
	t.Setenv("GAZETTEER_GENERATE_CSV", "false")
	t.Setenv("GAZETTEER_METRICS_PORT", "9090")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USERNAME", "gazetteer")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "placements")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "/data/photos", cfg.SourceDir)
	assert.Equal(t, "/data/classified", cfg.TargetDir)
	assert.Equal(t, "/data/boundaries.kml", cfg.BoundaryFile)
	assert.Equal(t, "nested", cfg.ParseMode)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Watermark)
	assert.Equal(t, "/fonts/sim.ttf", cfg.WatermarkFont)
	assert.False(t, cfg.GenerateCSV)
	assert.True(t, cfg.GenerateKML)
	assert.Equal(t, 9090, cfg.MetricsPort)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "gazetteer", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "placements", cfg.Database.Name)
}

func TestMustLoad_MalformedNumbers(t *testing.T) {
	t.Run("workers must be an integer", func(t *testing.T) {
		t.Setenv("GAZETTEER_WORKERS", "many")
		assert.PanicsWithValue(t,
			"failed to parse workers from configuration, must be an integer",
			func() { config.MustLoad() },
		)
	})

	t.Run("metrics port must be an integer", func(t *testing.T) {
		t.Setenv("GAZETTEER_METRICS_PORT", "http")
		assert.PanicsWithValue(t,
			"failed to parse metrics port from configuration",
			func() { config.MustLoad() },
		)
	})
}
