// Package readability implements modwiki.TextExtractor with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/modwiki"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements modwiki.TextExtractor at compile time.
var _ modwiki.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main prose of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the readable text of rawHTML with whitespace
// collapsed.
func (e *Extractor) ExtractText(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", modwiki.Errorf(modwiki.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}

	return modwiki.CollapseWhitespace(article.TextContent), nil
}
