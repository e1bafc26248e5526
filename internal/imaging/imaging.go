// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging prepares rendered page images for the extraction call:
// pages are downscaled to the model's size limit, encoded as JPEG, and
// wrapped in base64 data URLs.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

const (
	// maxDimension caps the longer edge of an encoded page.
	maxDimension = 2048
	// jpegQuality balances legibility against request size.
	jpegQuality = 85
)

// EncodePage downscales one page image if needed and returns it as a
// base64 JPEG data URL.
func EncodePage(img image.Image) (string, error) {
	img = resizeIfNeeded(img, maxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encoding page image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodePages encodes an ordered page sequence, preserving order.
func EncodePages(pages []image.Image) ([]string, error) {
	encoded := make([]string, 0, len(pages))
	for i, page := range pages {
		data, err := EncodePage(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		encoded = append(encoded, data)
	}
	return encoded, nil
}

// resizeIfNeeded scales the image down so neither dimension exceeds max,
// preserving aspect ratio. Images already within the limit pass through.
func resizeIfNeeded(img image.Image, max int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return img
	}

	var nw, nh int
	if w > h {
		nw = max
		nh = h * max / w
	} else {
		nh = max
		nw = w * max / h
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
