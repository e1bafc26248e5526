// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package processor

import (
	"context"
	"fmt"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLProcessor converts HTML files to Markdown directly. It is the
// direct-text family: no rasterization, no extraction call.
type HTMLProcessor struct{}

// NewHTMLProcessor creates the HTML adapter.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{}
}

func (p *HTMLProcessor) Extensions() []string {
	return []string{".html", ".htm"}
}

func (p *HTMLProcessor) RequiresLLM() bool {
	return false
}

func (p *HTMLProcessor) CanProcess(source string) bool {
	return hasExtension(source, p.Extensions())
}

func (p *HTMLProcessor) Content(ctx context.Context, source string) (Content, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return Content{}, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return Content{}, fmt.Errorf("%w: reading %s: %v", ErrRender, source, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return Content{}, fmt.Errorf("%w: converting %s: %v", ErrRender, source, err)
	}
	return Content{Text: markdown}, nil
}
