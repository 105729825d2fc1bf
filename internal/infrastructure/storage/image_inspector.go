package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/garyjia/backoffice-console/internal/application/port"
)

// ImageInspector reads image headers with the registered decoders
// (jpeg, png, gif, webp)
type ImageInspector struct{}

// NewImageInspector creates a new ImageInspector
func NewImageInspector() port.ImageInspector {
	return ImageInspector{}
}

// Inspect returns the dimensions and format without decoding pixel data
func (ImageInspector) Inspect(content []byte) (*port.ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no dimensions")
	}
	return &port.ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
