package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AerialWorks/gazetteer/internal/config"
	"github.com/AerialWorks/gazetteer/internal/exif"
	"github.com/AerialWorks/gazetteer/internal/kml"
	"github.com/AerialWorks/gazetteer/internal/linker"
	"github.com/AerialWorks/gazetteer/internal/metrics"
	"github.com/AerialWorks/gazetteer/internal/models"
	"github.com/AerialWorks/gazetteer/internal/report"
	"github.com/AerialWorks/gazetteer/internal/repository"
	"github.com/AerialWorks/gazetteer/internal/resolver"
	"github.com/AerialWorks/gazetteer/internal/service"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	if cfg.SourceDir == "" {
		log.Fatal("GAZETTEER_SOURCE_DIR is required")
	}
	if info, err := os.Stat(cfg.SourceDir); err != nil || !info.IsDir() {
		log.Fatalf("Source directory does not exist: %s", cfg.SourceDir)
	}

	// Create a separate registry for application metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Locate the boundary document when none was configured explicitly.
	boundaryFile := cfg.BoundaryFile
	if boundaryFile == "" {
		found, err := kml.FindBoundaryFiles(cfg.SourceDir)
		if err != nil || len(found) == 0 {
			log.Fatalf("No KML/OVKML boundary file found in %s", cfg.SourceDir)
		}
		boundaryFile = found[0]
		logger.InfoContext(ctx, "Boundary file discovered", "path", boundaryFile)
	}

	// Parse the boundary document. A parse failure is reported once and the
	// batch continues with an empty forest: every photo then lands in a
	// sentinel bucket instead of aborting the run.
	mode := kml.Mode(cfg.ParseMode)
	forest, err := kml.NewParser(logger).Parse(boundaryFile, mode)
	if err != nil {
		appMetrics.ParseFailures.Inc()
		logger.ErrorContext(ctx, "Failed to parse boundary file, continuing with empty forest",
			"path", boundaryFile, "error", err)
	} else if mode == kml.ModeStandard {
		// Nested-mode forests arrive linked; style-width forests need the
		// geometric linking pass before any point query.
		stats := linker.Link(forest, logger)
		appMetrics.UnlinkedRegions.WithLabelValues(models.LevelTown.String()).
			Set(float64(stats.UnlinkedTowns))
		appMetrics.UnlinkedRegions.WithLabelValues(models.LevelVillage.String()).
			Set(float64(stats.UnlinkedVillages))
	}

	// Connect the optional placements database.
	var dtb *pgxpool.Pool
	var repo repository.Interface
	if cfg.Database.Host != "" {
		dtb, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()
		repo = repository.NewRepository(dtb, logger)
	}

	targetDir := cfg.TargetDir
	if targetDir == "" {
		targetDir = filepath.Join(cfg.SourceDir, "classified_"+time.Now().Format("20060102150405"))
	}
	if err = os.MkdirAll(targetDir, 0o755); err != nil {
		log.Fatalf("Failed to create target directory: %v", err)
	}

	classifier := service.NewClassifier(
		logger,
		exif.NewExtractor(logger),
		resolver.New(forest),
		repo,
		appMetrics,
		service.Options{
			SourceDir:     cfg.SourceDir,
			TargetDir:     targetDir,
			Watermark:     cfg.Watermark,
			WatermarkFont: cfg.WatermarkFont,
			NumWorkers:    cfg.Workers,
		},
	)

	logger.InfoContext(ctx, "Application started.",
		"source", cfg.SourceDir, "target", targetDir, "mode", cfg.ParseMode)

	// Start the monitoring server for long batches when a port is set.
	if cfg.MetricsPort > 0 {
		go startMonitoringServer(ctx, logger, reg, dtb, cfg.MetricsPort)
	}

	placements, err := classifier.Run(ctx)
	if err != nil {
		log.Fatalf("Classification batch failed: %v", err)
	}

	report.Write(placements, targetDir, report.Options{CSV: cfg.GenerateCSV, KML: cfg.GenerateKML}, logger)

	logger.InfoContext(ctx, "Application finished.", "photos", len(placements))
}

// startMonitoringServer starts an HTTP server that provides health check and
// metrics endpoints. It listens on the specified port and logs the server's
// status and any errors encountered.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)
		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
