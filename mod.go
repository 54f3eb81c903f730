package modwiki

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CategoryUncategorized is used for records whose category could not be
// inferred from the wiki's structure.
const CategoryUncategorized = "uncategorized"

// ModRecord describes one discoverable mod.
type ModRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	WikiURL     string    `json:"wikiUrl,omitempty"`
	Author      string    `json:"author,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	LastSeen    time.Time `json:"lastSeen"`
}

// NewModRecord returns a record for name with its ID derived and the
// category defaulted to CategoryUncategorized when empty.
func NewModRecord(name, category string) *ModRecord {
	name = CollapseWhitespace(name)
	category = CollapseWhitespace(category)
	if category == "" {
		category = CategoryUncategorized
	}
	return &ModRecord{
		ID:       NormalizeID(name),
		Name:     name,
		Category: category,
	}
}

// Validate returns an error if the record contains invalid fields.
func (m *ModRecord) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return Errorf(EINVALID, "mod name required")
	}
	if m.ID == "" || m.ID != NormalizeID(m.Name) {
		return Errorf(EINVALID, "mod %q has id %q, want %q", m.Name, m.ID, NormalizeID(m.Name))
	}
	if m.Category == "" {
		return Errorf(EINVALID, "mod %q category required", m.Name)
	}
	for _, s := range []string{m.Name, m.Category, m.Description, m.SourceURL, m.WikiURL, m.Author} {
		if !utf8.ValidString(s) {
			return Errorf(EINVALID, "mod %q contains malformed UTF-8", m.ID)
		}
	}
	for _, tag := range m.Tags {
		if !utf8.ValidString(tag) {
			return Errorf(EINVALID, "mod %q contains malformed UTF-8 tag", m.ID)
		}
	}
	return nil
}

// InstallTarget returns the repository URL an installer should clone.
// ok is false when the wiki lists no code-hosting link for the mod.
func (m *ModRecord) InstallTarget() (url string, ok bool) {
	if m.SourceURL == "" {
		return "", false
	}
	return m.SourceURL, true
}

// Clone returns a deep copy of the record.
func (m *ModRecord) Clone() *ModRecord {
	other := *m
	if m.Tags != nil {
		other.Tags = append([]string(nil), m.Tags...)
	}
	return &other
}

// NormalizeID derives a stable identifier from a mod's canonical name:
// NFKC-normalized, case-folded, with whitespace collapsed.
func NormalizeID(name string) string {
	s := norm.NFKC.String(name)
	// cases.Caser is stateful and not safe for concurrent use.
	s = cases.Fold().String(s)
	return CollapseWhitespace(s)
}

// CollapseWhitespace trims s and replaces every run of Unicode whitespace
// with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
