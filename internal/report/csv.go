package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// csvHeader lists the per-photo columns of the region report.
var csvHeader = []string{
	"filename", "longitude", "latitude", "altitude_m",
	"taken_at", "camera_make", "camera_model",
}

// writeCSV writes the photo report for one region directory. The file is
// named after the finest region in the path.
func writeCSV(dir, regionName string, photos []models.PhotoInfo) error {
	path := filepath.Join(dir, regionName+"_photos.csv")

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err = writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, photo := range photos {
		record := []string{photo.Filename, "", "", "", photo.TakenAt, photo.Make, photo.Model}
		if coords := photo.Coordinates; coords != nil {
			record[1] = fmt.Sprintf("%.8f", coords.Longitude)
			record[2] = fmt.Sprintf("%.8f", coords.Latitude)
			if coords.Altitude != nil {
				record[3] = fmt.Sprintf("%.1f", *coords.Altitude)
			}
		}
		if err = writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV report: %w", err)
	}

	return nil
}
