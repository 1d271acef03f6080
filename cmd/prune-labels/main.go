// Removes zero-byte YOLO label files (moving their images aside for manual
// review) or prunes files that do not exist in both of two paired
// directories.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AerialWorks/gazetteer/internal/dataset"
)

var (
	labelsDir     string // The directory with YOLO .txt label files.
	imagesDir     string // The directory with the matching images.
	undetectedDir string // Where images with empty labels are moved.

	pairA     string // First directory of a pair to synchronize.
	pairB     string // Second directory of a pair to synchronize.
	backupDir string // Move pruned files here instead of deleting them.
	dryRun    bool   // Only report what would be removed.
)

func init() {
	flag.StringVar(&labelsDir, "labels", "", "directory with YOLO label files")
	flag.StringVar(&imagesDir, "images", "", "directory with the labeled images")
	flag.StringVar(&undetectedDir, "undetected", "", "directory for images with empty labels (default <labels>/../undetected)")
	flag.StringVar(&pairA, "a", "", "first directory of a pair to synchronize by file stem")
	flag.StringVar(&pairB, "b", "", "second directory of the pair")
	flag.StringVar(&backupDir, "backup", "", "move pruned files here instead of deleting")
	flag.BoolVar(&dryRun, "dry-run", false, "report what would be removed without touching files")
}

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	switch {
	case pairA != "" && pairB != "":
		if _, err := dataset.RemoveUnpaired(pairA, pairB, backupDir, dryRun, logger); err != nil {
			logger.Error("Failed to synchronize directory pair", "error", err)
			os.Exit(1)
		}
	case labelsDir != "" && imagesDir != "":
		if undetectedDir == "" {
			undetectedDir = filepath.Join(filepath.Dir(labelsDir), "undetected")
		}
		if _, err := dataset.PruneEmptyLabels(labelsDir, imagesDir, undetectedDir, logger); err != nil {
			logger.Error("Failed to prune empty labels", "error", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
