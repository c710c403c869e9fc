package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessImage(t *testing.T) {
	data := encodePNG(t, 1200, 800)

	processed, err := ProcessImage(data, 480)
	require.NoError(t, err)
	require.Equal(t, data, processed.Original)

	// Thumbnail decodes as JPEG and fits within the edge limit.
	thumb, err := jpeg.Decode(bytes.NewReader(processed.Thumbnail))
	require.NoError(t, err)
	bounds := thumb.Bounds()
	require.LessOrEqual(t, bounds.Dx(), 480)
	require.LessOrEqual(t, bounds.Dy(), 480)
	require.Equal(t, 480, bounds.Dx())
}

func TestProcessImage_SmallImageNotUpscaled(t *testing.T) {
	data := encodePNG(t, 100, 60)

	processed, err := ProcessImage(data, 480)
	require.NoError(t, err)

	thumb, err := jpeg.Decode(bytes.NewReader(processed.Thumbnail))
	require.NoError(t, err)
	require.Equal(t, 100, thumb.Bounds().Dx())
	require.Equal(t, 60, thumb.Bounds().Dy())
}

func TestProcessImage_RejectsGarbage(t *testing.T) {
	_, err := ProcessImage([]byte("definitely not an image"), 480)
	require.ErrorIs(t, err, ErrNotAnImage)
}
