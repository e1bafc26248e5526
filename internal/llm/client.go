// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls a remote text-extraction model to turn rendered page
// images into Markdown. The request asks for a strict JSON object with a
// single markdown_content field; a malformed response falls back to the raw
// text with a warning rather than failing the job.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/documark/internal/httputil"
)

// ErrExtraction marks an extraction call that raised or returned unusable
// output.
var ErrExtraction = errors.New("extraction failed")

// Policy constants for the extraction call. These are fixed at this layer,
// not user-tunable.
const (
	temperature = 0.1
	maxTokens   = 32000
)

// Request is one extraction call: instructions plus encoded page images.
type Request struct {
	// Model is the provider-prefixed model string.
	Model string

	// UserPrompt overrides the default user instruction when non-empty.
	UserPrompt string

	// Images are base64 data URLs, one per page, in page order.
	Images []string
}

// Backend abstracts the extraction call so tests can supply a fake.
// Extract returns the Markdown text plus any warnings raised while
// interpreting the response.
type Backend interface {
	Extract(ctx context.Context, req Request) (markdown string, warnings []string, err error)
}

// HTTPBackend calls an OpenAI-compatible chat completions endpoint.
type HTTPBackend struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the provider's catalog endpoint. Tests point this
	// at a local server.
	BaseURL string

	// Client is the HTTP transport; http.DefaultClient when nil. Timeouts
	// are expected to be bounded by this transport.
	Client *http.Client
}

// NewBackend resolves the credential for the model and returns a backend
// bound to its provider endpoint.
func NewBackend(model string) (*HTTPBackend, error) {
	key, err := RequireCredential(model)
	if err != nil {
		return nil, err
	}
	p, err := ProviderFor(model)
	if err != nil {
		return nil, err
	}
	return &HTTPBackend{APIKey: key, BaseURL: p.BaseURL}, nil
}

// chatRequest is the OpenAI-style chat completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// markdownSchema is the strict response schema: one required string field
// holding the Markdown content.
var markdownSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"markdown_content": {
			"type": "string",
			"description": "The extracted document content in Markdown format"
		}
	},
	"required": ["markdown_content"],
	"additionalProperties": false
}`)

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// extractionResult is the JSON object the model is instructed to return.
// The pointer distinguishes a present-but-empty field from an absent one.
type extractionResult struct {
	MarkdownContent *string `json:"markdown_content"`
}

// Extract posts the instructions and page images to the provider and parses
// the JSON response field. A response that is not the requested JSON shape
// is downgraded to its raw text with a warning; only an entirely empty
// response is an error.
func (b *HTTPBackend) Extract(ctx context.Context, req Request) (string, []string, error) {
	userPrompt := req.UserPrompt
	if userPrompt == "" {
		userPrompt = DefaultUserPrompt("document")
	}

	parts := []contentPart{{Type: "text", Text: userPrompt}}
	for _, img := range req.Images {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: img}})
	}

	body := chatRequest{
		Model: ModelName(req.Model),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: parts},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "markdown_extraction",
				Strict: true,
				Schema: markdownSchema,
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, httpReq, 0)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, fmt.Errorf("%w: provider returned %d: %s", ErrExtraction, resp.StatusCode, string(detail))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", nil, fmt.Errorf("%w: decoding response: %v", ErrExtraction, err)
	}
	if len(cResp.Choices) == 0 {
		return "", nil, fmt.Errorf("%w: response contained no choices", ErrExtraction)
	}

	return parseContent(cResp.Choices[0].Message.Content)
}

// parseContent interprets the model output. The happy path is the requested
// JSON object, authoritative even when its field is empty; anything else
// that still carries text is returned raw with a warning.
func parseContent(content string) (string, []string, error) {
	var result extractionResult
	if err := json.Unmarshal([]byte(content), &result); err == nil && result.MarkdownContent != nil {
		return strings.TrimSpace(*result.MarkdownContent), nil, nil
	}

	raw := strings.TrimSpace(content)
	if raw == "" {
		return "", nil, fmt.Errorf("%w: response contained no text", ErrExtraction)
	}
	return raw, []string{"response was not the requested JSON shape; using raw text"}, nil
}
