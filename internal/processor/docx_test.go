// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocxProcessor_CanProcess(t *testing.T) {
	d := NewDocxProcessor(NewPDFProcessor(72))

	assert.True(t, d.CanProcess("letter.docx"))
	assert.True(t, d.CanProcess("memo.doc"))
	assert.True(t, d.CanProcess("Letter.DOCX"))
	assert.False(t, d.CanProcess("report.pdf"))
	assert.True(t, d.RequiresLLM())
}

func TestDocxProcessor_MissingFile(t *testing.T) {
	d := NewDocxProcessor(NewPDFProcessor(72))
	_, err := d.Content(context.Background(), filepath.Join(t.TempDir(), "nope.docx"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestDocxProcessor_LibreOfficeNotFound(t *testing.T) {
	orig := sofficeBinaries
	sofficeBinaries = []string{"documark-test-no-such-binary"}
	t.Cleanup(func() { sofficeBinaries = orig })

	dir := t.TempDir()
	source := filepath.Join(dir, "letter.docx")
	require.NoError(t, os.WriteFile(source, []byte("docx"), 0o644))

	d := NewDocxProcessor(NewPDFProcessor(72))
	_, err := d.Content(context.Background(), source)
	require.ErrorIs(t, err, ErrRender)
	assert.Contains(t, err.Error(), "LibreOffice not found")
}

// TestDocxProcessor_Content substitutes a stub converter for LibreOffice that
// drops a known PDF into the requested output directory.
func TestDocxProcessor_Content(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub converter is a shell script")
	}

	dir := t.TempDir()
	fixture := writePDF(t, dir, "fixture.pdf", "From a Word document")

	stub := filepath.Join(dir, "soffice-stub")
	script := fmt.Sprintf(`#!/bin/sh
# args: --headless --convert-to pdf --outdir OUTDIR SOURCE
outdir="$5"
src="$6"
base=$(basename "$src")
stem="${base%%.*}"
cp %q "$outdir/$stem.pdf"
`, fixture)
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	orig := sofficeBinaries
	sofficeBinaries = []string{stub}
	t.Cleanup(func() { sofficeBinaries = orig })

	source := filepath.Join(dir, "letter.docx")
	require.NoError(t, os.WriteFile(source, []byte("docx"), 0o644))

	d := NewDocxProcessor(NewPDFProcessor(72))
	content, err := d.Content(context.Background(), source)
	require.NoError(t, err)

	require.False(t, content.IsText())
	assert.Len(t, content.Pages, 1)
}
