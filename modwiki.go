// Package modwiki provides a local, CLI-based mod discovery tool.
// It scrapes a game's community wiki, extracts mod records, caches them
// on disk, and answers search, browse and lookup queries from the cache.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package modwiki
