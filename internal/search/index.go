// Package search maintains the full-text index over stored pages.
//
// The index lives on disk next to the database and is derivable state: it
// can always be rebuilt from the page table. Documents are keyed by the
// canonical page URL, so indexing a page twice replaces its previous
// document.
package search

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/jean/Memex/internal/model"
)

// pageSize is how many hits each search request fetches per round trip to
// the underlying index. Iterators request further pages on demand.
const pageSize = 10

// ErrMissingURL is returned when a document without a URL is indexed.
var ErrMissingURL = errors.New("document has no URL")

// Document is what gets indexed for a page.
type Document struct {
	// URL is the canonical page URL and the document key.
	URL string

	// Title is the page title.
	Title string

	// Content is the extracted page text.
	Content string

	// Domain is the page's domain, stored so hits can be shown with
	// their site without a database round trip.
	Domain string

	// IndexedAt is when the document was last (re)indexed.
	IndexedAt time.Time
}

// Indexer wraps a persistent bleve index over page documents.
type Indexer struct {
	idx bleve.Index
}

// Open opens the index at dir, creating it when absent.
func Open(dir string) (*Indexer, error) {
	idx, err := bleve.Open(dir)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(dir, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Indexer{idx: idx}, nil
}

// OpenInMemory creates a throwaway in-memory index. Used in tests and for
// one-shot rebuild verification.
func OpenInMemory() (*Indexer, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return &Indexer{idx: idx}, nil
}

// buildMapping defines how page documents are analyzed. Title and Content
// are full-text fields; URL and Domain are stored verbatim for display.
func buildMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()

	doc := bleve.NewDocumentMapping()

	text := bleve.NewTextFieldMapping()
	doc.AddFieldMappingsAt("Title", text)
	doc.AddFieldMappingsAt("Content", text)

	keyword := bleve.NewTextFieldMapping()
	keyword.Index = false
	keyword.Store = true
	doc.AddFieldMappingsAt("URL", keyword)
	doc.AddFieldMappingsAt("Domain", keyword)

	m.DefaultMapping = doc
	return m
}

// Close closes the underlying index.
func (i *Indexer) Close() error {
	return i.idx.Close()
}

// Index adds or replaces the document for a page.
func (i *Indexer) Index(doc *Document) error {
	if doc.URL == "" {
		return fmt.Errorf("index: %w", ErrMissingURL)
	}
	doc.IndexedAt = time.Now()

	if err := i.idx.Index(doc.URL, doc); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return nil
}

// IndexPage indexes a stored page record.
func (i *Indexer) IndexPage(page *model.Page) error {
	return i.Index(&Document{
		URL:     page.URL,
		Title:   page.Title,
		Content: page.Text,
		Domain:  page.Domain,
	})
}

// Remove deletes a page's document from the index.
// Removing an unindexed URL is a no-op.
func (i *Indexer) Remove(url string) error {
	if err := i.idx.Delete(url); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (i *Indexer) Count() (uint64, error) {
	n, err := i.idx.DocCount()
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Search runs a match query over titles and content and returns an
// iterator over the hits, best first. The offset skips that many hits.
func (i *Indexer) Search(expression string, offset uint64) (*Iterator, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(expression))
	req.SortBy([]string{"-_score"})
	req.Size = pageSize
	req.From = int(offset)
	req.Fields = []string{"URL", "Title", "Domain"}

	rs, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &Iterator{idx: i.idx, searchReq: req, cumIdx: offset, rs: rs}, nil
}

// Rebuild drops nothing but re-indexes every page produced by next,
// replacing stale documents in place. next returns (nil, nil) when the
// source is exhausted.
func (i *Indexer) Rebuild(next func() (*model.Page, error)) (int, error) {
	var indexed int
	for {
		page, err := next()
		if err != nil {
			return indexed, err
		}
		if page == nil {
			return indexed, nil
		}
		if err := i.IndexPage(page); err != nil {
			return indexed, err
		}
		indexed++
	}
}

// Destroy removes the on-disk index at dir so it can be built fresh.
func Destroy(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove search index: %w", err)
	}
	return nil
}
