package annotate_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AerialWorks/gazetteer/internal/annotate"
)

func TestParseYOLOLabels(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "labels.txt")
	content := "0 0.5 0.5 0.2 0.1\n" +
		"1 0.25 0.75 0.1 0.1\n" +
		"malformed line here\n" +
		"2 0.5 0.5 0.2\n" +
		"x 0.5 0.5 0.2 0.1\n" +
		"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	boxes, err := annotate.ParseYOLOLabels(path)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	assert.Equal(t, annotate.Box{Class: 0, CenterX: 0.5, CenterY: 0.5, Width: 0.2, Height: 0.1}, boxes[0])
	assert.Equal(t, annotate.Box{Class: 1, CenterX: 0.25, CenterY: 0.75, Width: 0.1, Height: 0.1}, boxes[1])
}

func TestParseYOLOLabels_MissingFile(t *testing.T) {
	defer filet.CleanUp(t)

	_, err := annotate.ParseYOLOLabels(filepath.Join(filet.TmpDir(t, ""), "absent.txt"))
	require.Error(t, err)
}

func TestDrawBoxes(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red := color.NRGBA{R: 255, A: 255}

	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.SetNRGBA(x, y, white)
		}
	}

	boxes := []annotate.Box{{Class: 0, CenterX: 0.5, CenterY: 0.5, Width: 0.5, Height: 0.5}}
	canvas := annotate.DrawBoxes(src, boxes, red, 1)

	// The normalized box maps to the rectangle (25,25)-(75,75).
	t.Run("outline pixels are painted", func(t *testing.T) {
		assert.Equal(t, red, canvas.NRGBAAt(25, 25))
		assert.Equal(t, red, canvas.NRGBAAt(50, 25))
		assert.Equal(t, red, canvas.NRGBAAt(25, 50))
		assert.Equal(t, red, canvas.NRGBAAt(74, 50))
		assert.Equal(t, red, canvas.NRGBAAt(50, 74))
	})

	t.Run("interior and exterior stay untouched", func(t *testing.T) {
		assert.Equal(t, white, canvas.NRGBAAt(50, 50))
		assert.Equal(t, white, canvas.NRGBAAt(10, 10))
	})

	t.Run("the source image is not mutated", func(t *testing.T) {
		assert.Equal(t, white, src.NRGBAAt(25, 25))
	})
}

func TestDrawBoxes_ClampedToImage(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	boxes := []annotate.Box{{Class: 0, CenterX: 0.0, CenterY: 0.0, Width: 1.0, Height: 1.0}}

	assert.NotPanics(t, func() {
		annotate.DrawBoxes(src, boxes, red, 2)
	})
}
