package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

var (
	// ErrNotAnImage is returned when the uploaded bytes do not decode as an image.
	ErrNotAnImage = errors.New("file is not a valid image")
)

// ProcessedImage holds the validated original and a generated thumbnail.
type ProcessedImage struct {
	Original  []byte
	Thumbnail []byte
}

// ProcessImage decode-verifies the uploaded bytes and renders a JPEG
// thumbnail whose longest edge does not exceed maxEdge.
func ProcessImage(data []byte, maxEdge int) (*ProcessedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	thumb := imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &ProcessedImage{
		Original:  data,
		Thumbnail: buf.Bytes(),
	}, nil
}
