package mock

import "github.com/fwojciec/modwiki"

var _ modwiki.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of modwiki.Extractor.
type Extractor struct {
	ExtractFn func(page *modwiki.Page) (*modwiki.ExtractResult, error)
}

func (e *Extractor) Extract(page *modwiki.Page) (*modwiki.ExtractResult, error) {
	return e.ExtractFn(page)
}

var _ modwiki.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of modwiki.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}
