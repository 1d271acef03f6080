// Renders YOLO bounding boxes onto their images for visual inspection of a
// labeled dataset.
package main

import (
	"flag"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/AerialWorks/gazetteer/internal/annotate"
)

var (
	labelsDir string // The directory with YOLO .txt label files.
	imagesDir string // The directory with the matching images.
	outDir    string // The output directory for annotated images.
	thickness int    // The stroke thickness of the box outlines.
)

// imageExtensions are tried in order when locating the image for a label.
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

func init() {
	flag.StringVar(&labelsDir, "labels", "", "directory with YOLO label files")
	flag.StringVar(&imagesDir, "images", "", "directory with the labeled images")
	flag.StringVar(&outDir, "out", "", "output directory for annotated images")
	flag.IntVar(&thickness, "thickness", 3, "box outline thickness in pixels")
}

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if labelsDir == "" || imagesDir == "" || outDir == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(labelsDir)
	if err != nil {
		logger.Error("Failed to read labels directory", "error", err)
		os.Exit(1)
	}

	red := color.NRGBA{R: 255, A: 255}
	drawn := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		boxes, err := annotate.ParseYOLOLabels(filepath.Join(labelsDir, entry.Name()))
		if err != nil || len(boxes) == 0 {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), ".txt")
		imagePath := findImage(stem)
		if imagePath == "" {
			logger.Warn("No image found for label file", "label", entry.Name())
			continue
		}

		img, err := imaging.Open(imagePath)
		if err != nil {
			logger.Warn("Failed to open image", "path", imagePath, "error", err)
			continue
		}

		annotated := annotate.DrawBoxes(img, boxes, red, thickness)
		outPath := filepath.Join(outDir, filepath.Base(imagePath))
		if err = imaging.Save(annotated, outPath, imaging.JPEGQuality(95)); err != nil {
			logger.Warn("Failed to save annotated image", "path", outPath, "error", err)
			continue
		}
		drawn++
	}

	logger.Info("Annotated images written", "count", drawn, "out", outDir)
}

// findImage returns the first existing image with the given stem.
func findImage(stem string) string {
	for _, ext := range imageExtensions {
		path := filepath.Join(imagesDir, stem+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
