// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pdfFixture generates a small one-page PDF holding the given text.
func pdfFixture(t *testing.T, text string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 14)
	doc.Cell(40, 10, text)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func writePDF(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pdfFixture(t, text), 0o644))
	return path
}

func TestPDFProcessor_Content(t *testing.T) {
	source := writePDF(t, t.TempDir(), "report.pdf", "Quarterly report")

	p := NewPDFProcessor(72)
	assert.True(t, p.RequiresLLM())

	content, err := p.Content(context.Background(), source)
	require.NoError(t, err)
	require.False(t, content.IsText())
	require.Len(t, content.Pages, 1)

	// A4 at 72 DPI is roughly 595x842 points.
	bounds := content.Pages[0].Bounds()
	assert.InDelta(t, 595, bounds.Dx(), 5)
	assert.InDelta(t, 842, bounds.Dy(), 5)
}

func TestPDFProcessor_MultiplePages(t *testing.T) {
	doc := gofpdf.New("P", "mm", "A4", "")
	for i := 0; i < 3; i++ {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 14)
		doc.Cell(40, 10, "page")
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	source := filepath.Join(t.TempDir(), "multi.pdf")
	require.NoError(t, os.WriteFile(source, buf.Bytes(), 0o644))

	content, err := NewPDFProcessor(72).Content(context.Background(), source)
	require.NoError(t, err)
	assert.Len(t, content.Pages, 3)
}

func TestPDFProcessor_MissingFile(t *testing.T) {
	p := NewPDFProcessor(72)
	_, err := p.Content(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestPDFProcessor_CorruptFile(t *testing.T) {
	source := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(source, []byte("not a pdf"), 0o644))

	_, err := NewPDFProcessor(72).Content(context.Background(), source)
	assert.ErrorIs(t, err, ErrRender)
}

func TestPDFProcessor_CancelledContext(t *testing.T) {
	source := writePDF(t, t.TempDir(), "report.pdf", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFProcessor(72).Content(ctx, source)
	assert.ErrorIs(t, err, context.Canceled)
}
