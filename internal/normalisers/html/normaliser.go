package html

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Elements whose content is never readable text.
const removedSelector = "script, style, noscript, template, iframe, svg"

// Elements that break the flow of text.
const blockSelector = "p, div, br, li, tr, td, th, h1, h2, h3, h4, h5, h6, " +
	"section, article, header, footer, blockquote, pre, dt, dd"

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedTypes returns the file types this normaliser handles.
func (n *Normaliser) SupportedTypes() []string {
	return []string{"html", "htm", "xhtml"}
}

// Normalise converts an HTML document to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw.Content))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %w", domain.ErrProcessing, err)
	}

	doc.Find(removedSelector).Remove()
	doc.Find(blockSelector).AppendHtml("\n")

	return cleanLines(doc.Find("body").Text()), nil
}

// cleanLines trims every line and drops blank ones.
func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
