package search

import "github.com/blevesearch/bleve/v2"

// Hit is one search result.
type Hit struct {
	// URL is the canonical URL of the matching page.
	URL string

	// Title is the indexed page title.
	Title string

	// Domain is the page's domain.
	Domain string

	// Score is the relevance score assigned by the index.
	Score float64
}

// Iterator pages lazily through search results. Hits beyond the first
// page are fetched from the index as Next advances.
type Iterator struct {
	idx       bleve.Index
	searchReq *bleve.SearchRequest

	cumIdx uint64
	rsIdx  int
	rs     *bleve.SearchResult

	latched Hit
	lastErr error
}

// Close releases the iterator.
func (it *Iterator) Close() error {
	it.idx = nil
	it.searchReq = nil
	if it.rs != nil {
		it.cumIdx = it.rs.Total
	}
	return nil
}

// Next advances to the next hit. It returns false when the results are
// exhausted or an error occurred; check Error after the loop.
func (it *Iterator) Next() bool {
	if it.lastErr != nil || it.rs == nil || it.cumIdx >= it.rs.Total {
		return false
	}

	if it.rsIdx >= it.rs.Hits.Len() {
		it.searchReq.From += it.searchReq.Size
		if it.rs, it.lastErr = it.idx.Search(it.searchReq); it.lastErr != nil {
			return false
		}
		it.rsIdx = 0
	}

	match := it.rs.Hits[it.rsIdx]
	it.latched = Hit{
		URL:    match.ID,
		Title:  fieldString(match.Fields, "Title"),
		Domain: fieldString(match.Fields, "Domain"),
		Score:  match.Score,
	}

	it.rsIdx++
	it.cumIdx++
	return true
}

// Error returns the last error encountered by the iterator.
func (it *Iterator) Error() error {
	return it.lastErr
}

// Hit returns the hit the iterator currently points to.
func (it *Iterator) Hit() Hit {
	return it.latched
}

// TotalCount returns the total number of hits for the query.
func (it *Iterator) TotalCount() uint64 {
	if it.rs == nil {
		return 0
	}
	return it.rs.Total
}

// fieldString extracts a stored string field from a bleve hit.
func fieldString(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}
