package service

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/AerialWorks/gazetteer/internal/annotate"
	"github.com/AerialWorks/gazetteer/internal/metrics"
	"github.com/AerialWorks/gazetteer/internal/models"
	"github.com/AerialWorks/gazetteer/internal/repository"
)

// supportedImageExtensions lists the photo formats picked up by the source
// scan.
var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
}

// Sentinel bucket directory names under the target directory.
const (
	noGPSDirName     = "no_gps"
	unmatchedDirName = "unmatched"
)

// Extractor supplies photo metadata. Implemented by the EXIF package;
// narrowed to an interface here so tests can stub it.
type Extractor interface {
	Extract(path string) models.PhotoInfo
}

// Resolver answers point-in-region queries against the built forest.
type Resolver interface {
	Resolve(coords models.Coordinates) models.MatchResult
}

// Options configures one classification batch.
type Options struct {
	SourceDir     string // Folder scanned recursively for photos.
	TargetDir     string // Folder receiving the classified tree.
	Watermark     bool   // Draw the location overlay on copied photos.
	WatermarkFont string // TTF font for the overlay text.
	NumWorkers    int    // Number of concurrent classification workers.
}

// ClassifierService runs the photo classification batch: extract the
// coordinate, resolve it against the region tree, and copy the photo into
// the directory the match maps to.
type ClassifierService struct {
	log       *slog.Logger         // Logger for logging service activities
	extractor Extractor            // Source of per-photo coordinates and metadata
	resolver  Resolver             // Point-in-region resolution over the built forest
	repo      repository.Interface // Optional placement sink, may be nil
	metrics   *metrics.Metrics     // Metrics for tracking batch progress
	opts      Options
}

// NewClassifier creates a new instance of ClassifierService.
func NewClassifier(
	log *slog.Logger,
	extractor Extractor,
	resolver Resolver,
	repo repository.Interface,
	appMetrics *metrics.Metrics,
	opts Options,
) *ClassifierService {
	if opts.NumWorkers < 1 {
		opts.NumWorkers = 1
	}
	return &ClassifierService{
		log:       log,
		extractor: extractor,
		resolver:  resolver,
		repo:      repo,
		metrics:   appMetrics,
		opts:      opts,
	}
}

// Run scans the source directory and classifies every photo found. It
// returns the placement decision per photo, in scan order. Per-photo
// failures are logged and counted, never fatal: the batch always completes.
func (cs *ClassifierService) Run(ctx context.Context) ([]models.Placement, error) {
	photos, err := cs.scanPhotos()
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		cs.log.InfoContext(ctx, "No photos to process.")
		return nil, nil
	}

	cs.log.InfoContext(ctx, "Found photos to process. Starting worker pool.",
		"jobs", len(photos), "num_workers", cs.opts.NumWorkers)

	placements := cs.processBatch(ctx, photos)

	matched, withGPS := 0, 0
	for _, placement := range placements {
		if placement.Photo.Coordinates != nil {
			withGPS++
		}
		if placement.Bucket == models.BucketMatched {
			matched++
		}
	}
	cs.log.InfoContext(ctx, "Processing batch finished",
		"total", len(placements), "with_gps", withGPS, "matched", matched)

	return placements, nil
}

// job pairs a photo path with its slot in the results slice.
type job struct {
	idx  int
	path string
}

// processBatch fans the photos out over the worker pool. The forest behind
// the resolver is read-only at this point, so workers share it freely; each
// worker writes only its own result slots.
func (cs *ClassifierService) processBatch(ctx context.Context, photos []string) []models.Placement {
	jobs := make(chan job, len(photos))
	placements := make([]models.Placement, len(photos))
	var wgr sync.WaitGroup

	for i := 1; i <= cs.opts.NumWorkers; i++ {
		wgr.Add(1)
		go cs.worker(ctx, i, &wgr, jobs, placements)
	}

	for idx, path := range photos {
		jobs <- job{idx: idx, path: path}
	}
	close(jobs)

	wgr.Wait()

	return placements
}

// worker classifies photos from the jobs channel and writes each placement
// into its own slot.
func (cs *ClassifierService) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan job,
	placements []models.Placement,
) {
	defer wg.Done()
	for item := range jobs {
		cs.metrics.ActiveWorkers.Inc()
		cs.log.DebugContext(ctx, "Processing photo", "worker", idx, "photo", item.path)

		info := cs.extractor.Extract(item.path)
		placement := cs.classify(info)
		placements[item.idx] = placement

		if err := cs.place(ctx, item.path, placement); err != nil {
			cs.log.ErrorContext(ctx, "Failed to place photo",
				"worker", idx, "photo", item.path, "error", err)
		}

		cs.metrics.PhotosProcessed.WithLabelValues(string(placement.Bucket)).Inc()
		cs.metrics.ActiveWorkers.Dec()
	}
}

// classify maps one photo's metadata to a placement decision. This is a pure
// function of the extracted info and the match result; no geometry happens
// here.
func (cs *ClassifierService) classify(info models.PhotoInfo) models.Placement {
	if info.Coordinates == nil {
		return models.Placement{Photo: info, Bucket: models.BucketNoGPS}
	}

	start := time.Now()
	match := cs.resolver.Resolve(*info.Coordinates)
	cs.metrics.ResolveSeconds.Observe(time.Since(start).Seconds())

	path := match.PathParts()
	if len(path) == 0 {
		return models.Placement{Photo: info, Bucket: models.BucketUnmatched}
	}

	return models.Placement{Photo: info, Bucket: models.BucketMatched, Path: path}
}

// place copies the photo into the directory its placement maps to and
// records the outcome in the repository when one is configured.
func (cs *ClassifierService) place(ctx context.Context, srcPath string, placement models.Placement) error {
	destDir := cs.destinationDir(placement)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	destPath := filepath.Join(destDir, placement.Photo.Filename)
	if cs.opts.Watermark && placement.Photo.Coordinates != nil {
		location := strings.Join(placement.Path, "/")
		err := annotate.Watermark(srcPath, destPath, location, *placement.Photo.Coordinates, cs.opts.WatermarkFont)
		if err != nil {
			cs.log.WarnContext(ctx, "Watermarking failed, copying photo unchanged",
				"photo", srcPath, "error", err)
			if err = copyFile(srcPath, destPath); err != nil {
				return err
			}
		}
	} else if err := copyFile(srcPath, destPath); err != nil {
		return err
	}

	if cs.repo != nil {
		if err := cs.repo.SavePlacement(ctx, placement); err != nil {
			cs.log.ErrorContext(ctx, "Failed to record placement",
				"photo", placement.Photo.Filename, "error", err)
		}
	}

	return nil
}

// destinationDir maps a placement to its directory under the target: the
// region path for matches, a sentinel folder otherwise.
func (cs *ClassifierService) destinationDir(placement models.Placement) string {
	switch placement.Bucket {
	case models.BucketMatched:
		return filepath.Join(append([]string{cs.opts.TargetDir}, placement.Path...)...)
	case models.BucketNoGPS:
		return filepath.Join(cs.opts.TargetDir, noGPSDirName)
	default:
		return filepath.Join(cs.opts.TargetDir, unmatchedDirName)
	}
}

// scanPhotos collects every supported image under the source directory,
// skipping the target tree (it usually lives inside the source folder).
func (cs *ClassifierService) scanPhotos() ([]string, error) {
	var photos []string
	err := filepath.WalkDir(cs.opts.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if cs.opts.TargetDir != "" && path == cs.opts.TargetDir {
				return filepath.SkipDir
			}
			return nil
		}
		if supportedImageExtensions[strings.ToLower(filepath.Ext(path))] {
			photos = append(photos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	return photos, nil
}

// copyFile duplicates the file contents; metadata is left to the filesystem.
func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source photo: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination photo: %w", err)
	}
	defer dest.Close()

	if _, err = io.Copy(dest, src); err != nil {
		return fmt.Errorf("failed to copy photo: %w", err)
	}

	return nil
}
