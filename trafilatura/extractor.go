// Package trafilatura implements modwiki.TextExtractor with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/modwiki"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements modwiki.TextExtractor at compile time.
var _ modwiki.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main prose of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the page's main content as plain text with
// whitespace collapsed.
func (e *Extractor) ExtractText(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", modwiki.Errorf(modwiki.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}

	text := result.ContentText
	if text == "" && result.ContentNode != nil {
		text = nodeText(result.ContentNode)
	}
	return modwiki.CollapseWhitespace(text), nil
}

// nodeText concatenates the text nodes below n, separating blocks with
// spaces.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
