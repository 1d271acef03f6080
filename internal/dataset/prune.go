// Package dataset holds the housekeeping operations for annotation datasets:
// pruning empty detection results and keeping image/label directories in
// sync.
package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions are the file types an image may use next to a label file.
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// PruneStats summarizes one PruneEmptyLabels run.
type PruneStats struct {
	RemovedLabels int
	MovedImages   int
}

// PruneEmptyLabels deletes zero-byte .txt label files from labelsDir and
// moves the matching image from imagesDir into undetectedDir for manual
// review. A zero-byte label means the detector found nothing in that image.
func PruneEmptyLabels(labelsDir, imagesDir, undetectedDir string, log *slog.Logger) (PruneStats, error) {
	var stats PruneStats

	entries, err := os.ReadDir(labelsDir)
	if err != nil {
		return stats, fmt.Errorf("failed to read labels directory: %w", err)
	}

	if err = os.MkdirAll(undetectedDir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create undetected directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		info, errInfo := entry.Info()
		if errInfo != nil || info.Size() != 0 {
			continue
		}

		labelPath := filepath.Join(labelsDir, entry.Name())
		if errRemove := os.Remove(labelPath); errRemove != nil {
			log.Warn("Failed to remove empty label", "path", labelPath, "error", errRemove)
			continue
		}
		stats.RemovedLabels++

		stem := strings.TrimSuffix(entry.Name(), ".txt")
		if moveImage(imagesDir, undetectedDir, stem, log) {
			stats.MovedImages++
		}
	}

	log.Info("Pruned empty labels",
		"removed_labels", stats.RemovedLabels, "moved_images", stats.MovedImages)

	return stats, nil
}

// moveImage relocates the first existing image with the given stem.
func moveImage(imagesDir, undetectedDir, stem string, log *slog.Logger) bool {
	for _, ext := range imageExtensions {
		src := filepath.Join(imagesDir, stem+ext)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dest := filepath.Join(undetectedDir, stem+ext)
		if err := os.Rename(src, dest); err != nil {
			log.Warn("Failed to move undetected image", "path", src, "error", err)
			return false
		}
		return true
	}
	return false
}

// SyncStats summarizes one RemoveUnpaired run.
type SyncStats struct {
	Common       int
	RemovedFirst int
	RemovedOther int
}

// RemoveUnpaired deletes every file whose stem (name without extension) does
// not occur in both directories, keeping the two sides of an image/label
// pairing consistent. With a backupDir the files are moved there instead of
// deleted; with dryRun nothing is touched and only the counts are computed.
func RemoveUnpaired(firstDir, otherDir, backupDir string, dryRun bool, log *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	firstStems, err := stemsIn(firstDir)
	if err != nil {
		return stats, err
	}
	otherStems, err := stemsIn(otherDir)
	if err != nil {
		return stats, err
	}

	for stem := range firstStems {
		if _, ok := otherStems[stem]; ok {
			stats.Common++
		}
	}

	stats.RemovedFirst, err = removeMissing(firstDir, firstStems, otherStems, backupDir, dryRun, log)
	if err != nil {
		return stats, err
	}
	stats.RemovedOther, err = removeMissing(otherDir, otherStems, firstStems, backupDir, dryRun, log)
	if err != nil {
		return stats, err
	}

	log.Info("Directory pair synchronized",
		"common", stats.Common,
		"removed_first", stats.RemovedFirst,
		"removed_other", stats.RemovedOther,
		"dry_run", dryRun,
	)

	return stats, nil
}

// stemsIn maps file stems to the full file names directly inside dir.
func stemsIn(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	stems := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		stems[stem] = append(stems[stem], name)
	}
	return stems, nil
}

// removeMissing drops the files in dir whose stems are absent from keep.
func removeMissing(
	dir string,
	stems, keep map[string][]string,
	backupDir string,
	dryRun bool,
	log *slog.Logger,
) (int, error) {
	if backupDir != "" && !dryRun {
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	removed := 0
	for stem, names := range stems {
		if _, ok := keep[stem]; ok {
			continue
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			if dryRun {
				log.Info("Would remove unpaired file", "path", path)
				removed++
				continue
			}

			var err error
			if backupDir != "" {
				err = os.Rename(path, filepath.Join(backupDir, name))
			} else {
				err = os.Remove(path)
			}
			if err != nil {
				log.Warn("Failed to remove unpaired file", "path", path, "error", err)
				continue
			}
			removed++
		}
	}

	return removed, nil
}
