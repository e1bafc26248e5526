// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/documark/internal/httputil"
)

// docsURLPattern matches Google Docs, Sheets, and Slides document URLs and
// captures the document identifier.
var docsURLPattern = regexp.MustCompile(
	`docs\.google\.com/(?:document|spreadsheets|presentation)/d/([a-zA-Z0-9-_]+)`)

// exportBaseURL is the host prefix for export URLs. Package-level var for
// test substitution.
var exportBaseURL = "https://docs.google.com"

// GoogleDocsProcessor is a thin façade over the PDF adapter: it resolves a
// document identifier from a URL or a Drive shortcut file, downloads the
// document exported as PDF, and delegates rasterization.
type GoogleDocsProcessor struct {
	pdf    *PDFProcessor
	client *http.Client
}

// NewGoogleDocsProcessor creates the cloud-document adapter.
func NewGoogleDocsProcessor(pdf *PDFProcessor, client *http.Client) *GoogleDocsProcessor {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleDocsProcessor{pdf: pdf, client: client}
}

func (g *GoogleDocsProcessor) Extensions() []string {
	return []string{".gdoc", ".gsheet", ".gslides"}
}

func (g *GoogleDocsProcessor) RequiresLLM() bool {
	return true
}

func (g *GoogleDocsProcessor) CanProcess(source string) bool {
	if IsURL(source) {
		return docsURLPattern.MatchString(source)
	}
	return hasExtension(source, g.Extensions())
}

// DocumentID resolves the document identifier from a URL or a shortcut
// file. Shortcut files are JSON with a doc_id or url field; some are plain
// text holding just the document URL.
func (g *GoogleDocsProcessor) DocumentID(source string) (string, error) {
	if IsURL(source) {
		if m := docsURLPattern.FindStringSubmatch(source); m != nil {
			return m[1], nil
		}
		return "", fmt.Errorf("%w: no document ID in URL %s", ErrRender, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return "", fmt.Errorf("%w: reading %s: %v", ErrRender, source, err)
	}

	var shortcut struct {
		DocID string `json:"doc_id"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(data, &shortcut); err == nil {
		if shortcut.DocID != "" {
			return shortcut.DocID, nil
		}
		if m := docsURLPattern.FindStringSubmatch(shortcut.URL); m != nil {
			return m[1], nil
		}
	}

	// Some shortcut files are plain text containing the document URL.
	if m := docsURLPattern.FindStringSubmatch(string(data)); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: no document ID in %s", ErrRender, source)
}

// docType resolves the export endpoint family for a source. Each family has
// its own export endpoint; the document endpoint does not serve spreadsheet
// or presentation identifiers.
func docType(source string) string {
	switch {
	case strings.Contains(source, "spreadsheets"), strings.HasSuffix(source, ".gsheet"):
		return "spreadsheets"
	case strings.Contains(source, "presentation"), strings.HasSuffix(source, ".gslides"):
		return "presentation"
	default:
		return "document"
	}
}

func (g *GoogleDocsProcessor) Content(ctx context.Context, source string) (Content, error) {
	id, err := g.DocumentID(source)
	if err != nil {
		return Content{}, err
	}

	pdfPath, cleanup, err := g.download(ctx, id, docType(source))
	if err != nil {
		return Content{}, err
	}
	defer cleanup()

	pages, err := g.pdf.renderFile(ctx, pdfPath)
	if err != nil {
		return Content{}, err
	}
	return Content{Pages: pages}, nil
}

// download fetches the document, exported as PDF through the endpoint for
// its type, to a temporary file.
func (g *GoogleDocsProcessor) download(ctx context.Context, id, docType string) (string, func(), error) {
	url := fmt.Sprintf("%s/%s/d/%s/export?format=pdf", exportBaseURL, docType, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating export request: %v", ErrRender, err)
	}

	resp, err := httputil.DoWithRetry(ctx, g.client, req, 0)
	if err != nil {
		return "", nil, fmt.Errorf("%w: exporting document %s: %v", ErrRender, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("%w: export of document %s returned %d (is the document shared?)",
			ErrRender, id, resp.StatusCode)
	}

	path := filepath.Join(os.TempDir(), "documark-"+uuid.NewString()+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating temp file: %v", ErrRender, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("%w: downloading document %s: %v", ErrRender, id, err)
	}
	f.Close()

	return path, func() { os.Remove(path) }, nil
}
