package importer

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jean/Memex/internal/database"
	"github.com/jean/Memex/internal/search"
)

// setupImport creates a fresh store, in-memory index, and export file.
func setupImport(t *testing.T, export string) (*database.Store, *search.Indexer, string) {
	t.Helper()

	store, err := database.Open(t.TempDir(), database.Options{CreateIfNotExists: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	indexer, err := search.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = indexer.Close() })

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o600))

	return store, indexer, path
}

func TestDefaultPipelineImportsExport(t *testing.T) {
	t.Parallel()

	icon := base64.StdEncoding.EncodeToString([]byte("icon-bytes"))
	export := `{
		"schema_version": 3,
		"pages": [
			{
				"url": "HTTPS://Example.com/article#section",
				"title": "An Article",
				"text": "body text about memory extension",
				"visits": [
					{"time": 1700000000000, "duration": 30000, "scroll_px": 1200},
					{"time": 1700000100000}
				],
				"tags": ["  GoLang  ", "Reference"],
				"bookmark": 1700000200000,
				"favicon": "data:image/png;base64,` + icon + `"
			},
			{
				"url": "https://example.com/no-visits",
				"title": "Fresh"
			},
			{
				"url": "not a url at all"
			}
		]
	}`

	store, indexer, path := setupImport(t, export)
	ctx := context.Background()

	batch := NewBatch(path)
	p := DefaultPipeline(store, indexer)
	require.NoError(t, p.Execute(ctx, batch))

	report := batch.Report
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.PagesImported)
	assert.Equal(t, 1, report.MalformedRecords)
	assert.Equal(t, 3, report.VisitsImported) // 2 exported + 1 synthesized
	assert.Equal(t, 2, report.TagsImported)
	assert.Equal(t, 1, report.BookmarksImported)
	assert.Equal(t, 1, report.FaviconsImported)
	assert.Zero(t, report.FailedRecords)
	assert.NoError(t, report.Err())

	// URL is canonicalized: lowercased host, fragment stripped.
	page, err := store.GetPage(ctx, "https://example.com/article")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "An Article", page.Title)

	// Tags are normalized.
	tags, err := store.TagsForPage(ctx, page.URL)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"golang", "reference"}, tags)

	bookmarked, err := store.IsBookmarked(ctx, page.URL)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	favicon, err := store.GetFavicon(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, favicon)
	assert.Equal(t, []byte("icon-bytes"), favicon.Data)

	visits, err := store.VisitsForPage(ctx, page.URL)
	require.NoError(t, err)
	assert.Len(t, visits, 2)

	// The visit-less record got a synthesized visit.
	visits, err = store.VisitsForPage(ctx, "https://example.com/no-visits")
	require.NoError(t, err)
	assert.Len(t, visits, 1)

	// Both pages are searchable.
	count, err := indexer.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestReimportSkipsUnchangedPages(t *testing.T) {
	t.Parallel()

	export := `{"pages": [
		{"url": "https://example.com/a", "title": "A", "text": "stable content",
		 "visits": [{"time": 1700000000000}]}
	]}`

	store, indexer, path := setupImport(t, export)
	ctx := context.Background()

	first := NewBatch(path)
	require.NoError(t, DefaultPipeline(store, indexer).Execute(ctx, first))
	assert.Equal(t, 1, first.Report.PagesImported)
	assert.Zero(t, first.Report.SkippedUnchanged)

	second := NewBatch(path)
	require.NoError(t, DefaultPipeline(store, indexer).Execute(ctx, second))
	assert.Zero(t, second.Report.PagesImported)
	assert.Equal(t, 1, second.Report.SkippedUnchanged)

	// The duplicate visit is ignored by the compound key; exactly one
	// visit row exists after the second run.
	visits, err := store.VisitsForPage(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}

func TestDedupeMergesInBatchDuplicates(t *testing.T) {
	t.Parallel()

	export := `{"url": "https://example.com/a", "title": "Old", "visits": [{"time": 1700000000000}], "tags": ["one"]}
{"url": "https://example.com/a#frag", "title": "New", "visits": [{"time": 1700000100000}], "tags": ["two"]}`

	store, indexer, path := setupImport(t, export)
	ctx := context.Background()

	batch := NewBatch(path)
	require.NoError(t, DefaultPipeline(store, indexer).Execute(ctx, batch))

	// Both records canonicalize to the same URL, so one page is written
	// with the later record's title and the union of visits and tags.
	assert.Equal(t, 1, batch.Report.PagesImported)
	assert.Equal(t, 2, batch.Report.VisitsImported)
	assert.Equal(t, 2, batch.Report.TagsImported)

	page, err := store.GetPage(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "New", page.Title)

	tags, err := store.TagsForPage(ctx, page.URL)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, tags)
}

func TestReimportWithoutFaviconKeepsLink(t *testing.T) {
	t.Parallel()

	icon := base64.StdEncoding.EncodeToString([]byte("icon-bytes"))
	first := `{"url": "https://example.com/a", "title": "A", "text": "v1", "favicon": "data:image/png;base64,` + icon + `"}`
	second := `{"url": "https://example.com/a", "title": "A", "text": "v2 changed"}`

	store, indexer, path := setupImport(t, first)
	ctx := context.Background()

	require.NoError(t, DefaultPipeline(store, indexer).Execute(ctx, NewBatch(path)))

	page, err := store.GetPage(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "example.com", page.FaviconHostname)

	// Changed content without icon data rewrites the page row but must
	// not unlink the stored favicon.
	require.NoError(t, os.WriteFile(path, []byte(second), 0o600))
	require.NoError(t, DefaultPipeline(store, indexer).Execute(ctx, NewBatch(path)))

	page, err = store.GetPage(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "v2 changed", page.Text)
	assert.Equal(t, "example.com", page.FaviconHostname)

	favicon, err := store.GetFavicon(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, favicon)
	assert.Equal(t, []byte("icon-bytes"), favicon.Data)
}

func TestDedupeKeepsTitleAndScreenshotAcrossDuplicates(t *testing.T) {
	t.Parallel()

	// The later duplicate has no title; the earlier one's must survive,
	// as must a screenshot the later record does not carry.
	export := `{"url": "https://example.com/a", "title": "Keep Me", "screenshot": "shots/a.png"}
{"url": "https://example.com/a", "text": "fresher text"}`

	store, indexer, path := setupImport(t, export)
	ctx := context.Background()

	batch := NewBatch(path)
	require.NoError(t, DefaultPipeline(store, indexer).Execute(ctx, batch))

	page, err := store.GetPage(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "Keep Me", page.Title)
	assert.Equal(t, "fresher text", page.Text)
	assert.Equal(t, "shots/a.png", page.ScreenshotURI)
}

func TestDecodeStepMissingFile(t *testing.T) {
	t.Parallel()

	batch := NewBatch(filepath.Join(t.TempDir(), "missing.json"))
	err := NewDecodeStep().Do(context.Background(), batch)
	require.Error(t, err)
}

func TestNormalizeExtractsFromHTML(t *testing.T) {
	t.Parallel()

	batch := NewBatch("test")
	batch.Records = []Record{
		{
			URL:  "https://example.com/raw",
			HTML: "<html><head><title>Raw Export</title></head><body><p>visible body text</p><script>hidden()</script></body></html>",
		},
		{
			URL:   "https://example.com/both",
			Title: "Kept Title",
			Text:  "already extracted",
			HTML:  "<html><title>Ignored</title></html>",
		},
	}

	require.NoError(t, NewNormalizeStep().Do(context.Background(), batch))
	require.Len(t, batch.Records, 2)

	raw := batch.Records[0]
	assert.Equal(t, "Raw Export", raw.Title)
	assert.Contains(t, raw.Text, "visible body text")
	assert.NotContains(t, raw.Text, "hidden()")
	assert.Empty(t, raw.HTML)

	// Records that already carry text keep it untouched.
	both := batch.Records[1]
	assert.Equal(t, "Kept Title", both.Title)
	assert.Equal(t, "already extracted", both.Text)
}
