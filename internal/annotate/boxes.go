package annotate

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Box is one object annotation in YOLO format: a class index and a center,
// width and height normalized to the image dimensions.
type Box struct {
	Class   int
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
}

// ParseYOLOLabels reads a YOLO label file: one "class cx cy w h" line per
// object, values normalized to [0,1]. Malformed lines are skipped.
func ParseYOLOLabels(path string) ([]Box, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	var boxes []Box
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		const yoloFields = 5
		if len(fields) != yoloFields {
			continue
		}

		class, errClass := strconv.Atoi(fields[0])
		cx, errCX := strconv.ParseFloat(fields[1], 64)
		cy, errCY := strconv.ParseFloat(fields[2], 64)
		w, errW := strconv.ParseFloat(fields[3], 64)
		h, errH := strconv.ParseFloat(fields[4], 64)
		if errClass != nil || errCX != nil || errCY != nil || errW != nil || errH != nil {
			continue
		}

		boxes = append(boxes, Box{Class: class, CenterX: cx, CenterY: cy, Width: w, Height: h})
	}

	return boxes, nil
}

// DrawBoxes renders the boxes as rectangle outlines onto a copy of the
// image.
func DrawBoxes(img image.Image, boxes []Box, col color.NRGBA, thickness int) *image.NRGBA {
	canvas := imaging.Clone(img)
	bounds := canvas.Bounds()
	imgW := float64(bounds.Dx())
	imgH := float64(bounds.Dy())

	for _, box := range boxes {
		x0 := int((box.CenterX - box.Width/2) * imgW)
		y0 := int((box.CenterY - box.Height/2) * imgH)
		x1 := int((box.CenterX + box.Width/2) * imgW)
		y1 := int((box.CenterY + box.Height/2) * imgH)
		drawRect(canvas, image.Rect(x0, y0, x1, y1).Intersect(bounds), col, thickness)
	}

	return canvas
}

// drawRect draws the four edges of rect with the given stroke thickness.
func drawRect(canvas *image.NRGBA, rect image.Rectangle, col color.NRGBA, thickness int) {
	if rect.Empty() || thickness <= 0 {
		return
	}

	for t := 0; t < thickness; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			canvas.SetNRGBA(x, rect.Min.Y+t, col)
			canvas.SetNRGBA(x, rect.Max.Y-1-t, col)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			canvas.SetNRGBA(rect.Min.X+t, y, col)
			canvas.SetNRGBA(rect.Max.X-1-t, y, col)
		}
	}
}
