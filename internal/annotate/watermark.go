// Package annotate renders overlays onto photos: the location watermark for
// classified copies and bounding boxes for label visualization.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/AerialWorks/gazetteer/internal/models"
)

const (
	watermarkFontSize = 60
	watermarkPadding  = 20
	jpegQuality       = 95
)

// Watermark copies the photo to destPath with the location path and the
// coordinates drawn over a translucent box in the top-left corner.
//
// The EXIF block of the source is not carried over; callers that need the
// original metadata intact should disable watermarking.
func Watermark(srcPath, destPath, location string, coords models.Coordinates, fontPath string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}

	canvas := imaging.Clone(img)
	face := loadFace(fontPath)

	locationLine := location
	if locationLine == "" {
		locationLine = "unmatched area"
	}
	coordLine := fmt.Sprintf("lon %.6f lat %.6f", coords.Longitude, coords.Latitude)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
	}

	lineHeight := face.Metrics().Height.Ceil()
	width := drawer.MeasureString(locationLine).Ceil()
	if w := drawer.MeasureString(coordLine).Ceil(); w > width {
		width = w
	}

	boxWidth := width + 2*watermarkPadding
	boxHeight := 2*lineHeight + 2*watermarkPadding
	backdrop := image.Rect(0, 0, boxWidth, boxHeight)
	draw.Draw(canvas, backdrop, image.NewUniform(color.NRGBA{A: 80}), image.Point{}, draw.Over)

	ascent := face.Metrics().Ascent.Ceil()
	drawer.Dot = fixed.P(watermarkPadding, watermarkPadding+ascent)
	drawer.DrawString(locationLine)
	drawer.Dot = fixed.P(watermarkPadding, watermarkPadding+ascent+lineHeight)
	drawer.DrawString(coordLine)

	if err = imaging.Save(canvas, destPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to save watermarked photo: %w", err)
	}

	return nil
}

// loadFace loads the configured TTF face, falling back to the built-in
// bitmap face when the path is empty or unreadable.
func loadFace(fontPath string) font.Face {
	if fontPath == "" {
		return basicfont.Face7x13
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    watermarkFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}

	return face
}
