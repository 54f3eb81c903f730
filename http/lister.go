package http

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/modwiki"
)

// Ensure CategoryLister implements modwiki.CategoryLister.
var _ modwiki.CategoryLister = (*CategoryLister)(nil)

// categoryPageLimit is the number of members requested per API call.
const categoryPageLimit = 50

// maxContinuations bounds the number of API calls for one category.
const maxContinuations = 100

// CategoryLister lists category members through the MediaWiki API,
// requesting XML output and following continuation tokens.
type CategoryLister struct {
	fetcher modwiki.Fetcher
	baseURL string
}

// NewCategoryLister creates a lister for the wiki at baseURL
// (e.g., https://balatromods.miraheze.org). Requests go through fetcher
// so they share its timeout and retry policy.
func NewCategoryLister(fetcher modwiki.Fetcher, baseURL string) *CategoryLister {
	return &CategoryLister{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ListCategory returns the titles of main-namespace pages in category.
func (l *CategoryLister) ListCategory(ctx context.Context, category string) ([]string, error) {
	var titles []string
	seenTokens := make(map[string]bool)
	cmcontinue := ""

	for i := 0; i < maxContinuations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := l.fetcher.Fetch(ctx, l.apiURL(category, cmcontinue))
		if err != nil {
			return nil, err
		}

		batch, next, err := parseCategoryMembers(body)
		if err != nil {
			return nil, err
		}
		titles = append(titles, batch...)

		if next == "" || seenTokens[next] {
			break
		}
		seenTokens[next] = true
		cmcontinue = next
	}

	return titles, nil
}

// PageURL returns the article URL for a wiki title.
func (l *CategoryLister) PageURL(title string) string {
	escaped := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return l.baseURL + "/wiki/" + escaped
}

func (l *CategoryLister) apiURL(category, cmcontinue string) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "categorymembers")
	q.Set("cmtitle", "Category:"+category)
	q.Set("cmlimit", strconv.Itoa(categoryPageLimit))
	q.Set("format", "xml")
	if cmcontinue != "" {
		q.Set("cmcontinue", cmcontinue)
	}
	return l.baseURL + "/w/api.php?" + q.Encode()
}

// parseCategoryMembers parses one API response, returning the member titles
// and the continuation token (empty when the listing is complete).
func parseCategoryMembers(body []byte) ([]string, string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, "", modwiki.Errorf(modwiki.EINVALID, "failed to parse category listing: %v", err)
	}

	if apiErr := doc.FindElement("//error"); apiErr != nil {
		return nil, "", modwiki.Errorf(modwiki.EINVALID, "wiki API error %s: %s",
			apiErr.SelectAttrValue("code", "unknown"), apiErr.SelectAttrValue("info", ""))
	}

	var titles []string
	for _, cm := range doc.FindElements("//categorymembers/cm") {
		title := strings.TrimSpace(cm.SelectAttrValue("title", ""))
		if title == "" || !isArticle(cm.SelectAttrValue("ns", "0"), title) {
			continue
		}
		titles = append(titles, title)
	}

	next := ""
	if cont := doc.FindElement("//continue"); cont != nil {
		next = cont.SelectAttrValue("cmcontinue", "")
	}

	return titles, next, nil
}

// isArticle filters out category, file and template members.
func isArticle(ns, title string) bool {
	if ns != "0" {
		return false
	}
	for _, prefix := range []string{"Category:", "File:", "Template:"} {
		if strings.HasPrefix(title, prefix) {
			return false
		}
	}
	return true
}
