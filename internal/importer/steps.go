package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jean/Memex/internal/database"
	"github.com/jean/Memex/internal/extract"
	"github.com/jean/Memex/internal/model"
	"github.com/jean/Memex/internal/search"
)

// DecodeStep reads the batch's export file and decodes its records.
//
// Design decision: decoding is a pipeline step rather than part of
// NewBatch because it does I/O that should respect the pipeline's
// context and error handling, and because tests can then feed a batch
// pre-populated records and skip the filesystem entirely.
type DecodeStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// DecodeStepOption configures a DecodeStep.
type DecodeStepOption func(*DecodeStep)

// WithDecodeLogger sets a custom logger for the decode step.
func WithDecodeLogger(logger *slog.Logger) DecodeStepOption {
	return func(s *DecodeStep) {
		s.logger = logger
	}
}

// NewDecodeStep creates a new export decoding step.
func NewDecodeStep(opts ...DecodeStepOption) *DecodeStep {
	s := &DecodeStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do reads and decodes the export file.
func (s *DecodeStep) Do(_ context.Context, batch *Batch) error {
	f, err := os.Open(batch.Source)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	records, malformed, err := DecodeExport(f)
	if err != nil {
		return err
	}

	batch.Records = records
	batch.Report.TotalRecords = len(records)
	batch.Report.MalformedRecords += malformed

	if malformed > 0 {
		s.logger.Warn("export contains malformed records",
			"source", batch.Source,
			"malformed", malformed,
		)
	}
	return nil
}

// NormalizeStep canonicalizes record URLs, normalizes tag names, truncates
// page text, and synthesizes a visit for records that carry none. Records
// whose URL cannot be canonicalized are dropped and counted as malformed.
type NormalizeStep struct {
	// logger for structured logging.
	logger *slog.Logger

	// extraTags are appended to every record, on top of the tags the
	// export carries. Used for per-source tagging.
	extraTags []string

	// now returns the current time. Overridable in tests so synthesized
	// visits land at a known timestamp.
	now func() time.Time
}

// NormalizeStepOption configures a NormalizeStep.
type NormalizeStepOption func(*NormalizeStep)

// WithNormalizeLogger sets a custom logger for the normalize step.
func WithNormalizeLogger(logger *slog.Logger) NormalizeStepOption {
	return func(s *NormalizeStep) {
		s.logger = logger
	}
}

// WithExtraTags appends tags to every imported record. Names are
// normalized like record tags.
func WithExtraTags(tags []string) NormalizeStepOption {
	return func(s *NormalizeStep) {
		s.extraTags = tags
	}
}

// NewNormalizeStep creates a new record normalization step.
func NewNormalizeStep(opts ...NormalizeStepOption) *NormalizeStep {
	s := &NormalizeStep{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do normalizes all records in the batch in place.
func (s *NormalizeStep) Do(_ context.Context, batch *Batch) error {
	kept := batch.Records[:0]

	for _, rec := range batch.Records {
		// Some exports carry raw HTML instead of extracted text.
		if rec.Text == "" && rec.HTML != "" {
			if err := s.extractHTML(&rec); err != nil {
				s.logger.Warn("dropping record with unparseable HTML",
					"url", rec.URL,
					"error", err,
				)
				batch.Report.MalformedRecords++
				continue
			}
		}

		page, err := model.NewPage(rec.URL, rec.Title, rec.Text)
		if err != nil {
			s.logger.Warn("dropping record with invalid URL",
				"url", rec.URL,
				"error", err,
			)
			batch.Report.MalformedRecords++
			continue
		}
		rec.page = page
		rec.URL = page.URL

		// Tag names fold to a canonical form; unnormalizable names are
		// dropped from the record, not the whole record.
		tags := make([]string, 0, len(rec.Tags)+len(s.extraTags))
		for _, tag := range append(rec.Tags, s.extraTags...) {
			name, err := model.NormalizeTagName(tag)
			if err != nil {
				s.logger.Warn("dropping invalid tag",
					"url", rec.URL,
					"tag", tag,
				)
				continue
			}
			tags = append(tags, name)
		}
		rec.Tags = tags

		// A page record without visits would be unreachable from the
		// history views, so give it one visit at import time.
		if len(rec.Visits) == 0 {
			rec.Visits = []VisitRecord{{Time: s.now().UnixMilli()}}
		}

		kept = append(kept, rec)
	}

	batch.Records = kept
	return nil
}

// extractHTML fills the record's text (and title, when the export has
// none) from its raw HTML. The HTML is dropped afterwards so later steps
// see a uniform text-bearing record.
func (s *NormalizeStep) extractHTML(rec *Record) error {
	parser, err := extract.NewParser(rec.URL)
	if err != nil {
		return err
	}
	result, err := parser.Parse(strings.NewReader(rec.HTML))
	if err != nil {
		return err
	}

	rec.Text = result.Text
	if rec.Title == "" {
		rec.Title = result.Title
	}
	rec.HTML = ""
	return nil
}

// DedupeStep merges records that normalize to the same URL and marks
// records whose content the database already holds.
//
// Design decision: in-batch duplicates are merged rather than imported
// twice because visits and tags accumulate across duplicates but the
// page row would just be overwritten; merging keeps the later record's
// title and text, matching last-write-wins on the page table.
type DedupeStep struct {
	// store is consulted for existing page content hashes.
	store *database.Store

	// logger for structured logging.
	logger *slog.Logger
}

// DedupeStepOption configures a DedupeStep.
type DedupeStepOption func(*DedupeStep)

// WithDedupeLogger sets a custom logger for the dedupe step.
func WithDedupeLogger(logger *slog.Logger) DedupeStepOption {
	return func(s *DedupeStep) {
		s.logger = logger
	}
}

// NewDedupeStep creates a new deduplication step.
func NewDedupeStep(store *database.Store, opts ...DedupeStepOption) *DedupeStep {
	s := &DedupeStep{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DedupeStep) Name() string {
	return "dedupe"
}

// Do merges in-batch duplicates and flags unchanged pages.
func (s *DedupeStep) Do(ctx context.Context, batch *Batch) error {
	// Merge records sharing a canonical URL. Order is preserved by the
	// first occurrence; content follows the last occurrence.
	byURL := make(map[string]int, len(batch.Records))
	merged := batch.Records[:0]

	for _, rec := range batch.Records {
		if i, ok := byURL[rec.URL]; ok {
			prev := &merged[i]
			prev.Visits = append(prev.Visits, rec.Visits...)
			prev.Tags = append(prev.Tags, rec.Tags...)
			if rec.Title != "" {
				prev.Title = rec.Title
			}
			prev.Text = rec.Text
			if rec.Bookmark > 0 {
				prev.Bookmark = rec.Bookmark
			}
			if rec.Favicon != "" {
				prev.Favicon = rec.Favicon
			}
			if rec.Screenshot != "" {
				prev.Screenshot = rec.Screenshot
			}
			// Rebuild the page so its content hash covers the merged
			// title and text. The URL is already canonical, so this
			// cannot fail.
			if page, err := model.NewPage(prev.URL, prev.Title, prev.Text); err == nil {
				prev.page = page
			}
			continue
		}
		byURL[rec.URL] = len(merged)
		merged = append(merged, rec)
	}
	batch.Records = merged

	// Flag pages whose stored content hash matches. Their page row is
	// not rewritten, but visits and tags still import.
	for i := range batch.Records {
		rec := &batch.Records[i]
		existing, err := s.store.GetPage(ctx, rec.URL)
		if err != nil {
			return fmt.Errorf("failed to check existing page: %w", err)
		}
		if existing != nil && existing.Hash == rec.page.Hash {
			rec.unchanged = true
			batch.Report.SkippedUnchanged++
			s.logger.Debug("page content unchanged", "url", rec.URL)
		}
	}

	return nil
}

// PersistStep writes the batch's records to the database: pages, then
// their visits, tags, bookmarks, and favicons. A record that fails to
// persist is counted and reported, and the batch continues.
type PersistStep struct {
	// store is the database to write to.
	store *database.Store

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a new persistence step.
func NewPersistStep(store *database.Store, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do writes all records in the batch to the database.
func (s *PersistStep) Do(ctx context.Context, batch *Batch) error {
	for i := range batch.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec := &batch.Records[i]
		if err := s.persistRecord(ctx, batch, rec); err != nil {
			batch.Report.FailedRecords++
			batch.Report.AddError(fmt.Errorf("record %s: %w", rec.URL, err))
			s.logger.Warn("failed to persist record",
				"url", rec.URL,
				"error", err,
			)
		}
	}
	return nil
}

// persistRecord writes one record and updates the report counts.
func (s *PersistStep) persistRecord(ctx context.Context, batch *Batch, rec *Record) error {
	// Decode the favicon first so the page row can link to it.
	var faviconData []byte
	if rec.Favicon != "" {
		data, err := model.DecodeFaviconDataURI(rec.Favicon)
		switch {
		case errors.Is(err, model.ErrInvalidDataURI):
			// A bad icon is cosmetic; keep the page.
			s.logger.Warn("skipping undecodable favicon", "url", rec.URL)
		case err != nil:
			return err
		default:
			faviconData = data
			rec.page.FaviconHostname = rec.page.Hostname
		}
	}

	if !rec.unchanged {
		if rec.Screenshot != "" {
			rec.page.ScreenshotURI = rec.Screenshot
		}
		if err := s.store.UpsertPage(ctx, rec.page); err != nil {
			return err
		}
		batch.Report.PagesImported++
	}

	for _, visit := range rec.Visits {
		err := s.store.AddVisit(ctx, model.Visit{
			Time:       visit.Time,
			URL:        rec.URL,
			DurationMS: visit.DurationMS,
			ScrollPx:   visit.ScrollPx,
		})
		if err != nil {
			return err
		}
		batch.Report.VisitsImported++
	}

	for _, tag := range rec.Tags {
		if err := s.store.AddTag(ctx, tag, rec.URL); err != nil {
			return err
		}
		batch.Report.TagsImported++
	}

	if rec.Bookmark > 0 {
		err := s.store.AddBookmark(ctx, model.Bookmark{
			URL:  rec.URL,
			Time: rec.Bookmark,
		})
		if err != nil {
			return err
		}
		batch.Report.BookmarksImported++
	}

	if faviconData != nil {
		err := s.store.PutFavicon(ctx, model.Favicon{
			Hostname: rec.page.Hostname,
			Data:     faviconData,
		})
		if err != nil {
			return err
		}
		batch.Report.FaviconsImported++
	}

	return nil
}

// IndexStep adds the batch's pages to the full-text search index.
// Unchanged pages are skipped: their indexed content is already current.
type IndexStep struct {
	// indexer is the search index to write to.
	indexer *search.Indexer

	// logger for structured logging.
	logger *slog.Logger
}

// IndexStepOption configures an IndexStep.
type IndexStepOption func(*IndexStep)

// WithIndexLogger sets a custom logger for the index step.
func WithIndexLogger(logger *slog.Logger) IndexStepOption {
	return func(s *IndexStep) {
		s.logger = logger
	}
}

// NewIndexStep creates a new search indexing step.
func NewIndexStep(indexer *search.Indexer, opts ...IndexStepOption) *IndexStep {
	s := &IndexStep{
		indexer: indexer,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *IndexStep) Name() string {
	return "index"
}

// Do indexes all changed pages in the batch.
func (s *IndexStep) Do(ctx context.Context, batch *Batch) error {
	indexed := 0
	for i := range batch.Records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec := &batch.Records[i]
		if rec.unchanged || rec.page == nil {
			continue
		}
		if err := s.indexer.IndexPage(rec.page); err != nil {
			batch.Report.AddError(fmt.Errorf("index %s: %w", rec.URL, err))
			s.logger.Warn("failed to index page",
				"url", rec.URL,
				"error", err,
			)
			continue
		}
		indexed++
	}

	s.logger.Info("indexing completed",
		"source", batch.Source,
		"indexed", indexed,
	)
	return nil
}

// DefaultPipeline creates a pipeline with the standard import steps in
// order: decode, normalize, dedupe, persist, index. The indexer may be
// nil, in which case the index step is omitted.
//
// Design decision: We provide a default pipeline because most imports
// want the full sequence, and constructing it here keeps the step
// ordering in one place instead of in every caller.
func DefaultPipeline(store *database.Store, indexer *search.Indexer, opts ...Option) *Pipeline {
	p := New(opts...)

	p.AddSteps(
		NewDecodeStep(WithDecodeLogger(p.logger)),
		NewNormalizeStep(WithNormalizeLogger(p.logger)),
		NewDedupeStep(store, WithDedupeLogger(p.logger)),
		NewPersistStep(store, WithPersistLogger(p.logger)),
	)
	if indexer != nil {
		p.AddStep(NewIndexStep(indexer, WithIndexLogger(p.logger)))
	}

	return p
}
