package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AerialWorks/gazetteer/internal/models"
)

const (
	kmlNamespace   = "http://www.opengis.net/kml/2.2"
	photoStyleID   = "photoStyle"
	photoStyleIcon = "http://maps.google.com/mapfiles/kml/shapes/camera.png"
)

type kmlFile struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Style      kmlStyle       `xml:"Style"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlStyle struct {
	ID        string       `xml:"id,attr"`
	IconStyle kmlIconStyle `xml:"IconStyle"`
}

type kmlIconStyle struct {
	Href string `xml:"Icon>href"`
}

type kmlPlacemark struct {
	Name        string   `xml:"name"`
	StyleURL    string   `xml:"styleUrl"`
	Description string   `xml:"description"`
	Point       kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// writeKML writes a placemark per geotagged photo of one region so the batch
// can be inspected on a map. Photos without coordinates are left out.
func writeKML(dir, regionName, regionKey string, photos []models.PhotoInfo) error {
	doc := kmlFile{
		Xmlns: kmlNamespace,
		Document: kmlDocument{
			Name: regionKey + " photo locations",
			Style: kmlStyle{
				ID:        photoStyleID,
				IconStyle: kmlIconStyle{Href: photoStyleIcon},
			},
		},
	}

	for _, photo := range photos {
		coords := photo.Coordinates
		if coords == nil {
			continue
		}

		altitude := 0.0
		if coords.Altitude != nil {
			altitude = *coords.Altitude
		}

		doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
			Name:        photo.Filename,
			StyleURL:    "#" + photoStyleID,
			Description: photoDescription(photo),
			Point: kmlPoint{
				Coordinates: fmt.Sprintf("%.8f,%.8f,%.1f", coords.Longitude, coords.Latitude, altitude),
			},
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal KML report: %w", err)
	}

	path := filepath.Join(dir, regionName+"_locations.kml")
	const filePerm = 0o644
	if err = os.WriteFile(path, append([]byte(xml.Header), data...), filePerm); err != nil {
		return fmt.Errorf("failed to write KML report: %w", err)
	}

	return nil
}

func photoDescription(photo models.PhotoInfo) string {
	desc := photo.Filename
	if photo.TakenAt != "" {
		desc += ", taken " + photo.TakenAt
	}
	if photo.Make != "" || photo.Model != "" {
		desc += ", " + photo.Make + " " + photo.Model
	}
	return desc
}
