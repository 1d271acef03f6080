// Package report writes the per-region CSV and KML summaries of a finished
// classification batch.
package report

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// Options selects which report files to produce.
type Options struct {
	CSV bool
	KML bool
}

// Write groups the matched placements by region path and writes the selected
// reports into each region directory under targetDir. A failing report is
// logged and skipped; it never aborts the remaining regions.
func Write(placements []models.Placement, targetDir string, opts Options, log *slog.Logger) {
	if !opts.CSV && !opts.KML {
		return
	}

	groups := groupByRegion(placements)
	for _, key := range sortedKeys(groups) {
		photos := groups[key]
		parts := strings.Split(key, "/")
		dir := filepath.Join(append([]string{targetDir}, parts...)...)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Failed to create report directory", "dir", dir, "error", err)
			continue
		}

		regionName := parts[len(parts)-1]
		if opts.CSV {
			if err := writeCSV(dir, regionName, photos); err != nil {
				log.Error("Failed to write CSV report", "region", key, "error", err)
			}
		}
		if opts.KML {
			if err := writeKML(dir, regionName, key, photos); err != nil {
				log.Error("Failed to write KML report", "region", key, "error", err)
			}
		}
	}
}

// groupByRegion buckets matched photos by their slash-joined region path.
func groupByRegion(placements []models.Placement) map[string][]models.PhotoInfo {
	groups := make(map[string][]models.PhotoInfo)
	for _, placement := range placements {
		if placement.Bucket != models.BucketMatched || len(placement.Path) == 0 {
			continue
		}
		key := strings.Join(placement.Path, "/")
		groups[key] = append(groups[key], placement.Photo)
	}
	return groups
}

func sortedKeys(groups map[string][]models.PhotoInfo) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
