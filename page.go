package modwiki

import "fmt"

// PageKind describes how a fetched wiki page lists mods.
type PageKind int

const (
	// PageList is a page listing many mods grouped under section headings.
	PageList PageKind = iota
	// PageArticle is a page dedicated to a single mod.
	PageArticle
)

// String returns the page kind name used in logs.
func (k PageKind) String() string {
	switch k {
	case PageList:
		return "list"
	case PageArticle:
		return "article"
	default:
		return fmt.Sprintf("PageKind(%d)", int(k))
	}
}

// Page is a fetched wiki page handed to an Extractor.
type Page struct {
	URL  string
	Kind PageKind

	// Title is the wiki title the page was discovered under, if any.
	Title string

	// Category is the category the page was discovered under. The
	// extractor uses it when the markup has no enclosing heading.
	Category string

	HTML []byte
}

// ParseWarning reports a candidate entry that was skipped during
// extraction. Warnings never abort extraction of the rest of a page.
type ParseWarning struct {
	URL    string `json:"url"`
	Entry  int    `json:"entry"`
	Reason string `json:"reason"`
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("%s entry %d: %s", w.URL, w.Entry, w.Reason)
}

// ExtractResult holds the records and warnings extracted from one page.
type ExtractResult struct {
	Records  []*ModRecord
	Warnings []ParseWarning
}

// Extractor parses fetched markup into mod records.
type Extractor interface {
	// Extract parses a page. Malformed entries are reported as warnings;
	// an error is returned only when the page cannot be parsed at all.
	Extract(page *Page) (*ExtractResult, error)
}

// TextExtractor extracts the main prose of an HTML page with boilerplate
// removed. Used as a fallback when no description can be found
// structurally.
type TextExtractor interface {
	ExtractText(html string) (string, error)
}

// TextExtractors tries each extractor in order and returns the first
// non-empty text. Errors are only reported when every extractor fails.
type TextExtractors []TextExtractor

// ExtractText implements TextExtractor.
func (c TextExtractors) ExtractText(html string) (string, error) {
	var firstErr error
	for _, t := range c {
		text, err := t.ExtractText(html)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	return "", firstErr
}
