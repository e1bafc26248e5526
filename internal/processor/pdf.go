// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"
)

// PDFProcessor rasterizes PDF pages to images via MuPDF.
type PDFProcessor struct {
	dpi int
}

// NewPDFProcessor creates a PDF adapter rendering at the given DPI.
func NewPDFProcessor(dpi int) *PDFProcessor {
	if dpi <= 0 {
		dpi = 300
	}
	return &PDFProcessor{dpi: dpi}
}

func (p *PDFProcessor) Extensions() []string {
	return []string{".pdf"}
}

func (p *PDFProcessor) RequiresLLM() bool {
	return true
}

func (p *PDFProcessor) CanProcess(source string) bool {
	return hasExtension(source, p.Extensions())
}

// Content renders every page of the PDF at the configured DPI.
func (p *PDFProcessor) Content(ctx context.Context, source string) (Content, error) {
	if _, err := os.Stat(source); err != nil {
		return Content{}, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	}
	pages, err := p.renderFile(ctx, source)
	if err != nil {
		return Content{}, err
	}
	return Content{Pages: pages}, nil
}

// renderFile rasterizes a PDF on disk. Shared with the Word and Google Docs
// adapters, which both reduce their sources to an intermediate PDF.
func (p *PDFProcessor) renderFile(ctx context.Context, path string) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrRender, path, err)
	}
	defer doc.Close()

	count := doc.NumPage()
	if count == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", ErrRender, path)
	}

	pages := make([]image.Image, 0, count)
	for n := 0; n < count; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(n, float64(p.dpi))
		if err != nil {
			return nil, fmt.Errorf("%w: rendering page %d of %s: %v", ErrRender, n+1, path, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
