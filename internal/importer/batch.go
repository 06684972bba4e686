package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Batch is the unit of work for one export file. It carries the decoded
// records between pipeline steps and accumulates results in its Report.
type Batch struct {
	// ID uniquely identifies this import run.
	ID string

	// Source is the path of the export file being imported.
	Source string

	// Records holds the decoded export records. Populated by DecodeStep
	// and rewritten in place by later steps.
	Records []Record

	// Report accumulates counts and errors for this batch.
	Report *Report
}

// NewBatch creates a Batch for the export file at source.
func NewBatch(source string) *Batch {
	id := uuid.NewString()
	return &Batch{
		ID:     id,
		Source: source,
		Report: &Report{
			BatchID:   id,
			Source:    source,
			StartedAt: time.Now(),
		},
	}
}

// Report summarizes one import batch.
type Report struct {
	// BatchID is the ID of the batch this report belongs to.
	BatchID string `json:"batch_id"`

	// Source is the export file path.
	Source string `json:"source"`

	// StartedAt is when the batch started.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total batch duration, set when the pipeline finishes.
	Elapsed time.Duration `json:"elapsed"`

	// TotalRecords is how many records the export file decoded to.
	TotalRecords int `json:"total_records"`

	// PagesImported counts pages written to the database.
	PagesImported int `json:"pages_imported"`

	// VisitsImported counts visit rows written.
	VisitsImported int `json:"visits_imported"`

	// TagsImported counts tag rows written.
	TagsImported int `json:"tags_imported"`

	// BookmarksImported counts bookmarks written.
	BookmarksImported int `json:"bookmarks_imported"`

	// FaviconsImported counts favicons written.
	FaviconsImported int `json:"favicons_imported"`

	// SkippedUnchanged counts pages skipped because the database already
	// held identical content. Their visits and tags are still imported.
	SkippedUnchanged int `json:"skipped_unchanged"`

	// MalformedRecords counts records dropped during decode or
	// normalization.
	MalformedRecords int `json:"malformed_records"`

	// FailedRecords counts records that decoded cleanly but failed to
	// persist.
	FailedRecords int `json:"failed_records"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Cancelled is set when the batch was aborted by context cancellation.
	Cancelled bool `json:"cancelled,omitempty"`

	// ErrorMessages holds the messages of accumulated errors, for
	// JSON-serialized reports.
	ErrorMessages []string `json:"errors,omitempty"`

	// err aggregates the underlying errors.
	err *multierror.Error
}

// AddError records a non-fatal error against the batch.
func (r *Report) AddError(err error) {
	if err == nil {
		return
	}
	r.err = multierror.Append(r.err, err)
	r.ErrorMessages = append(r.ErrorMessages, err.Error())
}

// Err returns the accumulated errors as a single error, or nil when the
// batch had none.
func (r *Report) Err() error {
	return r.err.ErrorOrNil()
}
