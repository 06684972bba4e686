package database

import (
	"context"
	"testing"
	"time"

	"github.com/jean/Memex/internal/model"
)

// TestUpsertAndGetPage tests page record operations.
func TestUpsertAndGetPage(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("insert and retrieve page", func(t *testing.T) {
		page := mustPage(t, s, "https://example.com/article", "An Article", "article body text")

		retrieved, err := s.GetPage(ctx, page.URL)
		if err != nil {
			t.Fatalf("failed to get page: %v", err)
		}
		if retrieved == nil {
			t.Fatal("expected page, got nil")
		}
		if retrieved.Title != "An Article" {
			t.Errorf("expected title 'An Article', got %q", retrieved.Title)
		}
		if retrieved.Domain != "example.com" {
			t.Errorf("expected domain 'example.com', got %q", retrieved.Domain)
		}
		if retrieved.Hash != model.HashText("article body text") {
			t.Errorf("unexpected hash %q", retrieved.Hash)
		}
		if retrieved.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("upsert updates existing page", func(t *testing.T) {
		page := mustPage(t, s, "https://example.com/upsert", "Original", "v1")

		page.Title = "Updated"
		page.Text = "v2"
		page.Hash = model.HashText("v2")
		if err := s.UpsertPage(ctx, page); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}

		retrieved, err := s.GetPage(ctx, page.URL)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if retrieved.Title != "Updated" {
			t.Errorf("expected 'Updated', got %q", retrieved.Title)
		}
		if retrieved.Text != "v2" {
			t.Errorf("expected text 'v2', got %q", retrieved.Text)
		}
	})

	t.Run("returns nil for non-existent page", func(t *testing.T) {
		retrieved, err := s.GetPage(ctx, "https://nonexistent.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if retrieved != nil {
			t.Error("expected nil for non-existent page")
		}
	})

	t.Run("upsert without favicon keeps stored favicon link", func(t *testing.T) {
		page, err := model.NewPage("https://example.com/iconed", "Iconed", "v1")
		if err != nil {
			t.Fatalf("failed to build page: %v", err)
		}
		page.FaviconHostname = "example.com"
		if err := s.UpsertPage(ctx, page); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}

		// A later save carries no icon data; the link must survive.
		rewrite, err := model.NewPage("https://example.com/iconed", "Iconed", "v2")
		if err != nil {
			t.Fatalf("failed to build page: %v", err)
		}
		if err := s.UpsertPage(ctx, rewrite); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}

		retrieved, err := s.GetPage(ctx, page.URL)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if retrieved.FaviconHostname != "example.com" {
			t.Errorf("expected favicon hostname to survive, got %q", retrieved.FaviconHostname)
		}
		if retrieved.Text != "v2" {
			t.Errorf("expected text 'v2', got %q", retrieved.Text)
		}
	})
}

// seedQueryFixtures stores a small browsing history used by the query
// tests: three pages on two domains, with visits, tags, and a bookmark.
func seedQueryFixtures(t *testing.T, s *Store) (base time.Time) {
	t.Helper()
	ctx := context.Background()
	base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mustPage(t, s, "https://blog.example.com/go-slices", "Go Slices", "slices in depth")
	mustPage(t, s, "https://blog.example.com/go-maps", "Go Maps", "maps in depth")
	mustPage(t, s, "https://news.site.org/today", "Today", "headlines")

	visits := []struct {
		url    string
		offset time.Duration
	}{
		{"https://blog.example.com/go-slices", 0},
		{"https://blog.example.com/go-slices", 48 * time.Hour},
		{"https://blog.example.com/go-maps", 24 * time.Hour},
		{"https://news.site.org/today", 72 * time.Hour},
	}
	for _, v := range visits {
		if err := s.AddVisit(ctx, model.NewVisit(v.url, base.Add(v.offset))); err != nil {
			t.Fatalf("failed to add visit: %v", err)
		}
	}

	for _, tag := range []struct{ name, url string }{
		{"golang", "https://blog.example.com/go-slices"},
		{"reference", "https://blog.example.com/go-slices"},
		{"golang", "https://blog.example.com/go-maps"},
	} {
		if err := s.AddTag(ctx, tag.name, tag.url); err != nil {
			t.Fatalf("failed to add tag: %v", err)
		}
	}

	if err := s.AddBookmark(ctx, model.NewBookmark("https://blog.example.com/go-slices", base)); err != nil {
		t.Fatalf("failed to add bookmark: %v", err)
	}
	return base
}

// TestFindPages tests structured page queries.
func TestFindPages(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	base := seedQueryFixtures(t, s)

	t.Run("empty query matches all, latest visit first", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 3 {
			t.Fatalf("expected 3 pages, got %d", len(pages))
		}
		if pages[0].URL != "https://news.site.org/today" {
			t.Errorf("expected most recently visited page first, got %q", pages[0].URL)
		}
	})

	t.Run("filter by domain", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{Domains: []string{"blog.example.com"}})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 2 {
			t.Errorf("expected 2 pages, got %d", len(pages))
		}
	})

	t.Run("filter by single tag", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{Tags: []string{"golang"}})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 2 {
			t.Errorf("expected 2 pages, got %d", len(pages))
		}
	})

	t.Run("multiple tags require all", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{Tags: []string{"golang", "reference"}})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 1 {
			t.Fatalf("expected 1 page, got %d", len(pages))
		}
		if pages[0].URL != "https://blog.example.com/go-slices" {
			t.Errorf("unexpected page %q", pages[0].URL)
		}
	})

	t.Run("bookmarks only", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{BookmarksOnly: true})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 1 {
			t.Errorf("expected 1 page, got %d", len(pages))
		}
	})

	t.Run("visit time window is half-open", func(t *testing.T) {
		// Window covering only the visit at base+24h.
		q := PageQuery{
			From: base.Add(24 * time.Hour).UnixMilli(),
			To:   base.Add(48 * time.Hour).UnixMilli(),
		}
		pages, err := s.FindPages(ctx, q)
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 1 {
			t.Fatalf("expected 1 page, got %d", len(pages))
		}
		if pages[0].URL != "https://blog.example.com/go-maps" {
			t.Errorf("unexpected page %q", pages[0].URL)
		}
	})

	t.Run("url prefix", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{URLPrefix: "https://news."})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 1 {
			t.Errorf("expected 1 page, got %d", len(pages))
		}
	})

	t.Run("limit and offset paginate", func(t *testing.T) {
		first, err := s.FindPages(ctx, PageQuery{Limit: 2})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(first) != 2 {
			t.Fatalf("expected 2 pages, got %d", len(first))
		}

		rest, err := s.FindPages(ctx, PageQuery{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(rest) != 1 {
			t.Fatalf("expected 1 page, got %d", len(rest))
		}
		if rest[0].URL == first[0].URL || rest[0].URL == first[1].URL {
			t.Error("offset page overlaps first page of results")
		}
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{
			Domains:       []string{"blog.example.com"},
			Tags:          []string{"golang"},
			BookmarksOnly: true,
		})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 1 {
			t.Errorf("expected 1 page, got %d", len(pages))
		}
	})

	t.Run("unknown tag matches nothing", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{Tags: []string{"no-such-tag"}})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 0 {
			t.Errorf("expected no pages, got %d", len(pages))
		}
	})

	t.Run("offset applies without a limit", func(t *testing.T) {
		pages, err := s.FindPages(ctx, PageQuery{Offset: 1})
		if err != nil {
			t.Fatalf("failed to find pages: %v", err)
		}
		if len(pages) != 2 {
			t.Fatalf("expected 2 pages after skipping the first, got %d", len(pages))
		}
		if pages[0].URL == "https://news.site.org/today" {
			t.Error("expected the most recently visited page to be skipped")
		}
	})
}

// TestCountPages tests counting with query filters.
func TestCountPages(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	seedQueryFixtures(t, s)

	count, err := s.CountPages(ctx, PageQuery{})
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3, got %d", count)
	}

	count, err = s.CountPages(ctx, PageQuery{Tags: []string{"golang"}})
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}

// TestDeletePages tests deletion with cascade.
func TestDeletePages(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	seedQueryFixtures(t, s)

	t.Run("no match is a no-op", func(t *testing.T) {
		deleted, err := s.DeletePages(ctx, PageQuery{Domains: []string{"absent.example"}})
		if err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if deleted != 0 {
			t.Errorf("expected 0 deletions, got %d", deleted)
		}
	})

	t.Run("delete cascades to associations", func(t *testing.T) {
		deleted, err := s.DeletePages(ctx, PageQuery{Domains: []string{"blog.example.com"}})
		if err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if deleted != 2 {
			t.Fatalf("expected 2 deletions, got %d", deleted)
		}

		visits, err := s.VisitsForPage(ctx, "https://blog.example.com/go-slices")
		if err != nil {
			t.Fatalf("failed to query visits: %v", err)
		}
		if len(visits) != 0 {
			t.Errorf("expected visits to be deleted, got %d", len(visits))
		}

		tags, err := s.TagsForPage(ctx, "https://blog.example.com/go-slices")
		if err != nil {
			t.Fatalf("failed to query tags: %v", err)
		}
		if len(tags) != 0 {
			t.Errorf("expected tags to be deleted, got %d", len(tags))
		}

		bookmarked, err := s.IsBookmarked(ctx, "https://blog.example.com/go-slices")
		if err != nil {
			t.Fatalf("failed to check bookmark: %v", err)
		}
		if bookmarked {
			t.Error("expected bookmark to be deleted")
		}

		// Unrelated page survives.
		page, err := s.GetPage(ctx, "https://news.site.org/today")
		if err != nil {
			t.Fatalf("failed to get page: %v", err)
		}
		if page == nil {
			t.Error("expected unrelated page to survive")
		}
	})
}
