// Package exif extracts GPS positions and capture metadata from photo files.
// It is the only source of coordinates in the pipeline; the rest of the core
// never infers them.
package exif

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// registerParsers installs the maker-note parsers exactly once.
var registerParsers = sync.OnceFunc(func() {
	goexif.RegisterParsers(mknote.All...)
})

// Extractor reads photo metadata from files on disk.
type Extractor struct {
	log *slog.Logger
}

// NewExtractor creates an extractor that reports unreadable files to the
// logger.
func NewExtractor(log *slog.Logger) *Extractor {
	registerParsers()
	return &Extractor{log: log}
}

// Extract returns the metadata of the photo at path. Extraction failures are
// not errors for the batch: a photo without readable EXIF or without GPS
// tags comes back with nil Coordinates and is routed to the no-GPS bucket by
// the caller.
func (e *Extractor) Extract(path string) models.PhotoInfo {
	info := models.PhotoInfo{Filename: filepath.Base(path)}

	file, err := os.Open(path)
	if err != nil {
		e.log.Debug("Failed to open photo", "path", path, "error", err)
		return info
	}
	defer file.Close()

	data, err := goexif.Decode(file)
	if err != nil {
		e.log.Debug("Failed to decode EXIF data", "path", path, "error", err)
		return info
	}

	if lat, lon, errLoc := data.LatLong(); errLoc == nil {
		info.Coordinates = &models.Coordinates{
			Longitude: lon,
			Latitude:  lat,
			Altitude:  altitude(data),
		}
	}

	info.TakenAt = takenAt(data)
	info.Make = tagString(data, goexif.Make)
	info.Model = tagString(data, goexif.Model)

	return info
}

// altitude reads the GPS altitude rational and applies the below-sea-level
// reference flag. Returns nil when the tag is absent or malformed.
func altitude(data *goexif.Exif) *float64 {
	tag, err := data.Get(goexif.GPSAltitude)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}

	alt := float64(num) / float64(den)
	if ref, errRef := data.Get(goexif.GPSAltitudeRef); errRef == nil {
		if v, errInt := ref.Int(0); errInt == nil && v == 1 {
			alt = -alt
		}
	}

	return &alt
}

// takenAt prefers the original capture timestamp over the file modification
// timestamp stored in the image IFD.
func takenAt(data *goexif.Exif) string {
	if ts := tagString(data, goexif.DateTimeOriginal); ts != "" {
		return ts
	}
	return tagString(data, goexif.DateTime)
}

func tagString(data *goexif.Exif, field goexif.FieldName) string {
	tag, err := data.Get(field)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
