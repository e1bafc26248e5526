// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageProcessor handles raster image files directly: the file itself is the
// single page sent to the extraction call.
type ImageProcessor struct{}

// NewImageProcessor creates the raster image adapter.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

func (p *ImageProcessor) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

func (p *ImageProcessor) RequiresLLM() bool {
	return true
}

func (p *ImageProcessor) CanProcess(source string) bool {
	return hasExtension(source, p.Extensions())
}

func (p *ImageProcessor) Content(ctx context.Context, source string) (Content, error) {
	f, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return Content{}, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return Content{}, fmt.Errorf("%w: opening %s: %v", ErrRender, source, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Content{}, fmt.Errorf("%w: decoding %s: %v", ErrRender, source, err)
	}
	return Content{Pages: []image.Image{img}}, nil
}
