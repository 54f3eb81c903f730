// Package goquery implements modwiki.Extractor for MediaWiki markup using
// CSS selectors.
package goquery

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/modwiki"
)

// Ensure Extractor implements modwiki.Extractor at compile time.
var _ modwiki.Extractor = (*Extractor)(nil)

// maxDescriptionLen bounds stored descriptions, in grapheme clusters.
const maxDescriptionLen = 500

// maxParagraphs is the number of article paragraphs joined into a description.
const maxParagraphs = 3

// codeHosts are the hosts whose links are treated as mod repositories.
var codeHosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"codeberg.org":  true,
	"bitbucket.org": true,
}

// skipSelector matches page furniture that never contains mod entries.
const skipSelector = "#toc, .toc, .navbox, .catlinks, .mw-editsection, .reference, .references, .mw-references-wrap"

// boilerplateHeadings are sections whose entries link to wiki pages
// rather than mods. Entries are ignored until the next heading.
var boilerplateHeadings = map[string]bool{
	"see also":       true,
	"references":     true,
	"external links": true,
	"navigation":     true,
}

// Extractor parses wiki list pages and mod articles into records.
type Extractor struct {
	fallback modwiki.TextExtractor
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback sets the extractor used for article descriptions when no
// infobox entry or paragraph qualifies.
func WithFallback(t modwiki.TextExtractor) Option {
	return func(e *Extractor) {
		e.fallback = t
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses a page into records. Each candidate entry is parsed in
// isolation; failures become warnings and the rest of the page proceeds.
func (e *Extractor) Extract(page *modwiki.Page) (*modwiki.ExtractResult, error) {
	if len(bytes.TrimSpace(page.HTML)) == 0 {
		return nil, modwiki.Errorf(modwiki.EINVALID, "empty page %s", page.URL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.HTML))
	if err != nil {
		return nil, modwiki.Errorf(modwiki.EINVALID, "failed to parse HTML: %v", err)
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, modwiki.Errorf(modwiki.EINVALID, "invalid page URL: %v", err)
	}

	if page.Kind == modwiki.PageArticle {
		return e.extractArticle(doc, base, page), nil
	}
	return e.extractList(doc, base, page), nil
}

// extractList walks headings and entries in document order, tracking the
// nearest heading as the category of the entries that follow it.
func (e *Extractor) extractList(doc *goquery.Document, base *url.URL, page *modwiki.Page) *modwiki.ExtractResult {
	result := &modwiki.ExtractResult{}
	root := contentRoot(doc)
	category := page.Category
	entry := 0
	boilerplate := false

	root.Find("h2, h3, h4, li, table.wikitable tr").Each(func(_ int, sel *goquery.Selection) {
		if sel.Closest(skipSelector).Length() > 0 {
			return
		}

		switch goquery.NodeName(sel) {
		case "h2", "h3", "h4":
			heading := headingText(sel)
			boilerplate = boilerplateHeadings[strings.ToLower(heading)]
			if heading != "" && !boilerplate {
				category = heading
			}
			return
		}

		if boilerplate {
			return
		}

		switch goquery.NodeName(sel) {
		case "li":
			// Nested items belong to their parent entry.
			if sel.ParentsFiltered("li").Length() > 0 {
				return
			}
			// Lists inside table cells are part of the row entry.
			if sel.ParentsFiltered("table.wikitable").Length() > 0 {
				return
			}
		case "tr":
			if sel.Find("td").Length() == 0 {
				return
			}
		}

		entry++
		record, err := parseEntry(sel, base, category)
		if err != nil {
			result.Warnings = append(result.Warnings, modwiki.ParseWarning{
				URL:    page.URL,
				Entry:  entry,
				Reason: err.Error(),
			})
			return
		}
		result.Records = append(result.Records, record)
	})

	return result
}

// parseEntry builds a record from one list item or table row. Panics from
// unexpected markup are converted into errors so that one entry cannot
// abort the page.
func parseEntry(sel *goquery.Selection, base *url.URL, category string) (record *modwiki.ModRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record, err = nil, fmt.Errorf("unparseable entry: %v", r)
		}
	}()

	var name, description string
	var nameLink *goquery.Selection

	if goquery.NodeName(sel) == "tr" {
		cells := sel.Find("td")
		first := cells.First()
		nameLink = firstInternalLink(first)
		name = cleanText(first.Text())
		if nameLink != nil {
			name = cleanText(nameLink.Text())
		}
		if cells.Length() > 1 {
			description = cleanText(textWithoutCodeLinks(cells.Eq(1)))
		}
	} else {
		name, nameLink = entryName(sel)
		description = strings.TrimSpace(strings.TrimPrefix(cleanText(textWithoutCodeLinks(sel)), name))
		description = strings.TrimLeft(description, "-–—:|,; ")
	}

	if name == "" {
		return nil, fmt.Errorf("entry has no name")
	}
	if !utf8.ValidString(name) || !utf8.ValidString(description) {
		return nil, fmt.Errorf("entry %q contains malformed UTF-8", name)
	}

	record = modwiki.NewModRecord(name, category)
	record.Description = modwiki.Truncate(description, maxDescriptionLen)
	record.SourceURL = findSourceURL(sel, base)
	record.WikiURL = base.String()
	if nameLink != nil {
		if href, ok := nameLink.Attr("href"); ok {
			if resolved := resolveURL(base, href); resolved != "" {
				record.WikiURL = resolved
			}
		}
	}

	return record, nil
}

// entryName picks the entry's name: the first non-repository link, else
// bold text, else the text before the first separator.
func entryName(sel *goquery.Selection) (string, *goquery.Selection) {
	if link := firstInternalLink(sel); link != nil {
		if name := cleanText(link.Text()); name != "" {
			return name, link
		}
	}

	if bold := sel.Find("b, strong").First(); bold.Length() > 0 {
		if name := cleanText(bold.Text()); name != "" {
			return name, nil
		}
	}

	text := cleanText(textWithoutCodeLinks(sel))
	for _, sep := range []string{" - ", " – ", " — ", ": "} {
		if before, _, found := strings.Cut(text, sep); found {
			return strings.TrimSpace(before), nil
		}
	}
	return text, nil
}

// extractArticle builds the single record described by a mod's own page.
func (e *Extractor) extractArticle(doc *goquery.Document, base *url.URL, page *modwiki.Page) *modwiki.ExtractResult {
	result := &modwiki.ExtractResult{}
	warn := func(reason string) {
		result.Warnings = append(result.Warnings, modwiki.ParseWarning{URL: page.URL, Entry: 1, Reason: reason})
	}

	name := cleanText(doc.Find("h1.firstHeading, h1#firstHeading").First().Text())
	if name == "" {
		name = cleanText(page.Title)
	}
	if name == "" {
		warn("article has no name")
		return result
	}

	root := contentRoot(doc)
	description, author := parseInfobox(root)
	if description == "" {
		description = articleParagraphs(root)
	}
	if description == "" && e.fallback != nil {
		if text, err := e.fallback.ExtractText(string(page.HTML)); err == nil {
			description = cleanText(text)
		}
	}

	if !utf8.ValidString(name) || !utf8.ValidString(description) || !utf8.ValidString(author) {
		warn(fmt.Sprintf("article %q contains malformed UTF-8", name))
		return result
	}

	record := modwiki.NewModRecord(name, page.Category)
	record.Description = modwiki.Truncate(description, maxDescriptionLen)
	record.Author = author
	record.SourceURL = findSourceURL(root, base)
	record.WikiURL = page.URL
	doc.Find("#catlinks .mw-normal-catlinks li a").Each(func(_ int, a *goquery.Selection) {
		if tag := cleanText(a.Text()); tag != "" && utf8.ValidString(tag) {
			record.Tags = append(record.Tags, tag)
		}
	})

	result.Records = append(result.Records, record)
	return result
}

// parseInfobox reads the description and author rows of an infobox.
func parseInfobox(root *goquery.Selection) (description, author string) {
	root.Find(".infobox tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(cleanText(cells.First().Text()))
		value := cleanText(textWithoutCodeLinks(cells.Last()))
		switch {
		case strings.Contains(label, "description") && description == "":
			if len(value) > 10 && !strings.HasPrefix(value, "http") {
				description = value
			}
		case (strings.Contains(label, "author") || strings.Contains(label, "creator") || strings.Contains(label, "developer")) && author == "":
			author = value
		}
	})
	return description, author
}

// articleParagraphs joins the first meaningful top-level paragraphs.
func articleParagraphs(root *goquery.Selection) string {
	var parts []string
	root.ChildrenFiltered("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := cleanText(textWithoutCodeLinks(p))
		if isMeaningfulParagraph(text) {
			parts = append(parts, text)
		}
		return len(parts) < maxParagraphs
	})
	return strings.Join(parts, " ")
}

func isMeaningfulParagraph(text string) bool {
	if len(text) <= 20 || strings.HasPrefix(text, "http") {
		return false
	}
	lower := strings.ToLower(text)
	for _, boilerplate := range []string{"this article is a stub", "disambiguation", "redirect"} {
		if strings.Contains(lower, boilerplate) {
			return false
		}
	}
	return true
}

// contentRoot returns the parsed article body, falling back to <body>.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	if root := doc.Find("div.mw-parser-output").First(); root.Length() > 0 {
		return root
	}
	return doc.Find("body").First()
}

// headingText returns a section heading without its edit links.
func headingText(sel *goquery.Selection) string {
	heading := sel.Clone()
	heading.Find(".mw-editsection").Remove()
	text := cleanText(heading.Text())
	return strings.TrimSpace(strings.TrimSuffix(text, "[edit]"))
}

// firstInternalLink returns the first link that does not point at a code
// host, or nil.
func firstInternalLink(sel *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if isCodeHostLink(href) || strings.HasPrefix(href, "#") {
			return true
		}
		found = a
		return false
	})
	return found
}

// findSourceURL returns the first link to a recognised code host.
func findSourceURL(sel *goquery.Selection, base *url.URL) string {
	var source string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		resolved := resolveURL(base, href)
		if resolved != "" && isCodeHostLink(resolved) {
			source = resolved
			return false
		}
		return true
	})
	return source
}

// isCodeHostLink reports whether href points at a repository
// (owner/name path) on a recognised code host.
func isCodeHostLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !codeHosts[host] {
		return false
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	return len(segments) >= 2
}

// textWithoutCodeLinks returns the selection's text with repository link
// labels removed.
func textWithoutCodeLinks(sel *goquery.Selection) string {
	clone := sel.Clone()
	clone.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if isCodeHostLink(href) {
			a.Remove()
		}
	})
	clone.Find("sup.reference, .mw-editsection").Remove()
	return clone.Text()
}

// cleanText strips leftover wikitext markup and collapses whitespace.
func cleanText(s string) string {
	s = strings.NewReplacer("[[", "", "]]", "", "{{", "", "}}", "", "()", "").Replace(s)
	return modwiki.CollapseWhitespace(s)
}

// resolveURL resolves href against base, dropping the fragment. Returns
// an empty string for non-HTTP links.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
