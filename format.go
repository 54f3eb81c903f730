package modwiki

import (
	"fmt"
	"strings"
)

// Labels for the field-per-line record format. RepositoryLabel is consumed
// by installation scripts and must not change; the line is omitted when a
// record has no known repository.
const (
	NameLabel        = "Name: "
	IDLabel          = "ID: "
	CategoryLabel    = "Category: "
	AuthorLabel      = "Author: "
	DescriptionLabel = "Description: "
	RepositoryLabel  = "Repository: "
	WikiLabel        = "Wiki: "
	TagsLabel        = "Tags: "
)

// ListingDescriptionLen is the description length used in listings.
const ListingDescriptionLen = 300

// FormatRecord formats a record with one labeled field per line.
// Empty optional fields are omitted.
func FormatRecord(m *ModRecord) string {
	var b strings.Builder
	writeField(&b, NameLabel, m.Name)
	writeField(&b, IDLabel, m.ID)
	writeField(&b, CategoryLabel, m.Category)
	writeField(&b, AuthorLabel, m.Author)
	writeField(&b, DescriptionLabel, m.Description)
	if len(m.Tags) > 0 {
		writeField(&b, TagsLabel, strings.Join(m.Tags, ", "))
	}
	if url, ok := m.InstallTarget(); ok {
		writeField(&b, RepositoryLabel, url)
	}
	writeField(&b, WikiLabel, m.WikiURL)
	return b.String()
}

// FormatListing formats a record for a multi-record listing. The
// description is truncated to ListingDescriptionLen characters.
func FormatListing(m *ModRecord) string {
	var b strings.Builder
	writeField(&b, NameLabel, m.Name)
	writeField(&b, CategoryLabel, m.Category)
	writeField(&b, DescriptionLabel, Truncate(m.Description, ListingDescriptionLen))
	if url, ok := m.InstallTarget(); ok {
		writeField(&b, RepositoryLabel, url)
	}
	return b.String()
}

// FormatSummary formats an update summary for display.
func FormatSummary(s *UpdateSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated %d mods from %d pages", s.Total, s.Pages)
	if s.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", s.Failed)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Added: %d\nChanged: %d\nRemoved: %d\n", len(s.Added), len(s.Changed), len(s.Removed))
	for _, id := range s.Added {
		fmt.Fprintf(&b, "  + %s\n", id)
	}
	for _, id := range s.Changed {
		fmt.Fprintf(&b, "  ~ %s\n", id)
	}
	for _, id := range s.Removed {
		fmt.Fprintf(&b, "  - %s\n", id)
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %d\n", len(s.Warnings))
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label)
	// Keep one field per line even when scraped text contains newlines.
	b.WriteString(CollapseWhitespace(value))
	b.WriteString("\n")
}
