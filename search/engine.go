// Package search implements modwiki.Querier over the cached records.
//
// Search first looks for case-insensitive substrings in names,
// descriptions, authors, tags and categories. When nothing contains the
// query it falls back to approximate name matching based on Levenshtein
// distance between normalized strings:
//
//	sim(a, b) = 1 - lev(a, b) / max(len(a), len(b))   (in runes)
//	score     = max(sim(query, name), 0.9 * mean over query tokens of
//	            the best sim against any name token)
//
// The token term lets "jokerr" match "Joker Pack" while a long unrelated
// name stays well below MinConfidence.
package search

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/fwojciec/modwiki"
)

// Ensure Engine implements modwiki.Querier at compile time.
var _ modwiki.Querier = (*Engine)(nil)

// Substring scores.
const (
	scoreExactName    = 100
	scoreNameContains = 50
	scoreDescription  = 25
	scoreAuthor       = 20
	scoreTag          = 15
)

const (
	// MinConfidence is the lowest fuzzy score Info accepts as a match.
	MinConfidence = 0.6

	// MinFuzzyScore is the lowest fuzzy score returned by Search.
	MinFuzzyScore = 0.4

	// MaxFuzzyResults bounds the fuzzy fallback of Search.
	MaxFuzzyResults = 10

	// ambiguityMargin is the score gap under which Info treats two
	// fuzzy candidates as equally good and refuses to choose.
	ambiguityMargin = 0.05

	// minWholeSimilarity is the whole-name similarity a single-word
	// query needs before Info accepts it.
	minWholeSimilarity = 0.45

	// tokenWeight discounts token-level similarity against a whole-name match.
	tokenWeight = 0.9

	// maxExamples is the number of sample records per browse group.
	maxExamples = 3
)

// Engine answers queries from a Store. It never touches the network.
type Engine struct {
	store modwiki.Store
}

// NewEngine creates an Engine reading from store.
func NewEngine(store modwiki.Store) *Engine {
	return &Engine{store: store}
}

// Search returns records matching query ordered by score, then name, then
// ID. Substring matches take precedence; fuzzy name matches are returned
// only when there are none.
func (e *Engine) Search(ctx context.Context, query string) ([]*modwiki.SearchResult, error) {
	q := modwiki.NormalizeID(query)
	if q == "" {
		return nil, modwiki.Errorf(modwiki.EINVALID, "search query must not be empty")
	}

	records, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var results []*modwiki.SearchResult
	for _, r := range records {
		if score := substringScore(q, r); score > 0 {
			results = append(results, &modwiki.SearchResult{Record: r, Score: score})
		}
	}
	if len(results) > 0 {
		sortResults(results)
		return results, nil
	}

	for _, r := range records {
		if score := FuzzyScore(q, r.Name); score >= MinFuzzyScore {
			results = append(results, &modwiki.SearchResult{Record: r, Score: score, Fuzzy: true})
		}
	}
	sortResults(results)
	if len(results) > MaxFuzzyResults {
		results = results[:MaxFuzzyResults]
	}
	return results, nil
}

// substringScore sums the weights of the fields containing q.
func substringScore(q string, r *modwiki.ModRecord) float64 {
	var score float64
	name := modwiki.NormalizeID(r.Name)
	switch {
	case name == q:
		score += scoreExactName
	case strings.Contains(name, q):
		score += scoreNameContains
	}
	if strings.Contains(modwiki.NormalizeID(r.Description), q) {
		score += scoreDescription
	}
	if r.Author != "" && strings.Contains(modwiki.NormalizeID(r.Author), q) {
		score += scoreAuthor
	}
	if strings.Contains(modwiki.NormalizeID(r.Category), q) {
		score += scoreTag
	} else {
		for _, tag := range r.Tags {
			if strings.Contains(modwiki.NormalizeID(tag), q) {
				score += scoreTag
				break
			}
		}
	}
	return score
}

func sortResults(results []*modwiki.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Record.Name != b.Record.Name {
			return a.Record.Name < b.Record.Name
		}
		return a.Record.ID < b.Record.ID
	})
}

// Browse groups every record by category, sorted by category name.
func (e *Engine) Browse(ctx context.Context) ([]*modwiki.CategoryGroup, error) {
	records, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*modwiki.ModRecord)
	for _, r := range records {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	groups := make([]*modwiki.CategoryGroup, 0, len(byCategory))
	for category, members := range byCategory {
		sortByName(members)
		examples := members
		if len(examples) > maxExamples {
			examples = examples[:maxExamples]
		}
		groups = append(groups, &modwiki.CategoryGroup{
			Category: category,
			Count:    len(members),
			Examples: examples,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups, nil
}

// BrowseCategory returns the records in category, matched
// case-insensitively, sorted by name. Short names such as "joker" or
// "qol" select the corresponding "... Mods" category.
func (e *Engine) BrowseCategory(ctx context.Context, category string) ([]*modwiki.ModRecord, error) {
	records, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	want := modwiki.NormalizeID(category)
	if alias, ok := categoryAliases[want]; ok {
		want = alias
	}

	var exact, suffixed []*modwiki.ModRecord
	for _, r := range records {
		switch modwiki.NormalizeID(r.Category) {
		case want:
			exact = append(exact, r)
		case want + " mods":
			suffixed = append(suffixed, r)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = suffixed
	}
	if matches == nil {
		matches = []*modwiki.ModRecord{}
	}
	sortByName(matches)
	return matches, nil
}

// categoryAliases maps short category names to the wiki's category names.
// Other short names resolve by appending " mods" (e.g. "joker").
var categoryAliases = map[string]string{
	"qol": "quality of life mods",
}

// Info resolves name to a record: an exact ID match first, else the best
// fuzzy name match scoring at least MinConfidence. Several candidates
// within ambiguityMargin of each other yield ENOTFOUND listing them.
func (e *Engine) Info(ctx context.Context, name string) (*modwiki.ModRecord, error) {
	id := modwiki.NormalizeID(name)
	if id == "" {
		return nil, modwiki.Errorf(modwiki.EINVALID, "mod name must not be empty")
	}

	record, err := e.store.Get(ctx, id)
	if err == nil {
		return record, nil
	}
	if modwiki.ErrorCode(err) != modwiki.ENOTFOUND {
		return nil, err
	}

	records, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		closest    *modwiki.ModRecord
		closeScore float64
		candidates []*modwiki.SearchResult
	)
	singleToken := len(strings.Fields(id)) == 1
	for _, r := range records {
		score := FuzzyScore(id, r.Name)
		if closest == nil || score > closeScore || (score == closeScore && r.Name < closest.Name) {
			closest, closeScore = r, score
		}
		if score < MinConfidence {
			continue
		}
		// A single word matching one word of a longer name is not
		// enough to identify a mod.
		if singleToken && similarity(id, modwiki.NormalizeID(r.Name)) < minWholeSimilarity {
			continue
		}
		candidates = append(candidates, &modwiki.SearchResult{Record: r, Score: score, Fuzzy: true})
	}

	if closest == nil {
		return nil, modwiki.Errorf(modwiki.ENOTFOUND, "no mod named %q", name)
	}
	if len(candidates) == 0 {
		return nil, modwiki.Errorf(modwiki.ENOTFOUND, "no mod named %q (closest: %s)", name, closest.Name)
	}

	sortResults(candidates)
	best := candidates[0]
	var rivals []string
	for _, c := range candidates {
		if best.Score-c.Score < ambiguityMargin {
			rivals = append(rivals, c.Record.Name)
		}
	}
	if len(rivals) > 1 {
		return nil, modwiki.Errorf(modwiki.ENOTFOUND, "%q is ambiguous: matches %s", name, strings.Join(rivals, ", "))
	}
	return best.Record, nil
}

// Categories returns every category with its record count, sorted by name.
func (e *Engine) Categories(ctx context.Context) ([]modwiki.CategoryCount, error) {
	groups, err := e.Browse(ctx)
	if err != nil {
		return nil, err
	}
	counts := make([]modwiki.CategoryCount, len(groups))
	for i, g := range groups {
		counts[i] = modwiki.CategoryCount{Category: g.Category, Count: g.Count}
	}
	return counts, nil
}

func sortByName(records []*modwiki.ModRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})
}

// FuzzyScore returns how closely query resembles name, from 0 to 1.
// Both are normalized before comparison.
func FuzzyScore(query, name string) float64 {
	q := modwiki.NormalizeID(query)
	n := modwiki.NormalizeID(name)
	if q == "" || n == "" {
		return 0
	}

	whole := similarity(q, n)

	nameTokens := strings.Fields(n)
	queryTokens := strings.Fields(q)
	var sum float64
	for _, qt := range queryTokens {
		var best float64
		for _, nt := range nameTokens {
			if s := similarity(qt, nt); s > best {
				best = s
			}
		}
		sum += best
	}
	tokens := tokenWeight * sum / float64(len(queryTokens))

	return max(whole, tokens)
}

// similarity is one minus the edit distance scaled by the longer length.
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
