// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// sofficeBinaries are tried in order when locating LibreOffice.
var sofficeBinaries = []string{"soffice", "libreoffice"}

// DocxProcessor converts Word documents by bridging through PDF: LibreOffice
// renders the document to a temporary PDF, which is then rasterized like any
// other PDF.
type DocxProcessor struct {
	pdf *PDFProcessor
}

// NewDocxProcessor creates a Word adapter delegating rasterization to pdf.
func NewDocxProcessor(pdf *PDFProcessor) *DocxProcessor {
	return &DocxProcessor{pdf: pdf}
}

func (d *DocxProcessor) Extensions() []string {
	return []string{".docx", ".doc"}
}

func (d *DocxProcessor) RequiresLLM() bool {
	return true
}

func (d *DocxProcessor) CanProcess(source string) bool {
	return hasExtension(source, d.Extensions())
}

func (d *DocxProcessor) Content(ctx context.Context, source string) (Content, error) {
	if _, err := os.Stat(source); err != nil {
		return Content{}, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	}

	workDir := filepath.Join(os.TempDir(), "documark-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Content{}, fmt.Errorf("%w: creating work directory: %v", ErrRender, err)
	}
	defer os.RemoveAll(workDir)

	pdfPath, err := convertToPDF(ctx, source, workDir)
	if err != nil {
		return Content{}, err
	}

	pages, err := d.pdf.renderFile(ctx, pdfPath)
	if err != nil {
		return Content{}, err
	}
	return Content{Pages: pages}, nil
}

// convertToPDF runs LibreOffice headless to produce a PDF in outDir and
// returns its path.
func convertToPDF(ctx context.Context, source, outDir string) (string, error) {
	bin, err := findSoffice()
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", ErrRender, source, err)
	}

	cmd := exec.CommandContext(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", outDir, abs)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: converting %s with %s: %v (%s)",
			ErrRender, source, bin, err, strings.TrimSpace(string(out)))
	}

	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	pdfPath := filepath.Join(outDir, stem+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		// LibreOffice occasionally renames the output; take any PDF it wrote.
		matches, _ := filepath.Glob(filepath.Join(outDir, "*.pdf"))
		if len(matches) == 0 {
			return "", fmt.Errorf("%w: %s produced no PDF for %s", ErrRender, bin, source)
		}
		pdfPath = matches[0]
	}
	return pdfPath, nil
}

func findSoffice() (string, error) {
	for _, name := range sofficeBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: LibreOffice not found (tried %s)",
		ErrRender, strings.Join(sofficeBinaries, ", "))
}
