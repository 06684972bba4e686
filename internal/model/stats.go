package model

import "time"

// DomainCount pairs a domain with the number of pages stored for it.
type DomainCount struct {
	// Domain is the domain name (www. stripped).
	Domain string `json:"domain"`

	// Pages is the number of stored pages on the domain.
	Pages int `json:"pages"`
}

// TagCount pairs a tag name with the number of pages it labels.
type TagCount struct {
	// Name is the normalized tag name.
	Name string `json:"name"`

	// Pages is the number of pages carrying the tag.
	Pages int `json:"pages"`
}

// StatsReport summarizes the contents of a Memex database.
// It is the input to the report writers.
type StatsReport struct {
	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// SchemaVersion is the active schema version of the database.
	SchemaVersion int `json:"schema_version"`

	// PageCount is the total number of stored pages.
	PageCount int `json:"page_count"`

	// VisitCount is the total number of stored visits.
	VisitCount int `json:"visit_count"`

	// BookmarkCount is the total number of bookmarks.
	BookmarkCount int `json:"bookmark_count"`

	// TagCount is the number of distinct tag names in use.
	TagCount int `json:"tag_count"`

	// TopDomains lists the most-stored domains, largest first.
	TopDomains []DomainCount `json:"top_domains,omitempty"`

	// TopTags lists the most-used tags, largest first.
	TopTags []TagCount `json:"top_tags,omitempty"`
}
