// Package extract pulls the indexable parts out of raw HTML: the title,
// the visible text, the meta description, and the favicon location.
//
// It feeds the page records that the store and the full-text index
// consume, both when saving a page directly and when an import record
// carries HTML instead of pre-extracted text.
package extract
