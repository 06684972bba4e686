package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jean/Memex/internal/model"
)

// maxRecordSize limits a single export record to 2MB. Records are page
// text plus metadata, so anything larger is corrupt or hostile input.
const maxRecordSize = 2 * 1024 * 1024

// Record is one page entry in an export file.
//
// The export format mirrors what the browser extension dumps: a page with
// its visits, tags, bookmark timestamp, and optional favicon as a data
// URI. Timestamps are Unix milliseconds throughout.
type Record struct {
	// URL is the page URL as exported. It is canonicalized during
	// normalization, not here.
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Text is the extracted page text.
	Text string `json:"text,omitempty"`

	// HTML is the raw page HTML for exports that never extracted text.
	// Title and text are extracted from it during normalization when
	// Text is empty.
	HTML string `json:"html,omitempty"`

	// Visits lists the recorded visit events for this page.
	// A record with no visits gets one synthesized at import time.
	Visits []VisitRecord `json:"visits,omitempty"`

	// Tags lists the tag names attached to the page.
	Tags []string `json:"tags,omitempty"`

	// Bookmark is the bookmark creation time in Unix milliseconds,
	// or zero when the page is not bookmarked.
	Bookmark int64 `json:"bookmark,omitempty"`

	// Screenshot references a stored screenshot. Carried through opaquely.
	Screenshot string `json:"screenshot,omitempty"`

	// Favicon is the site icon as a base64 data URI, if the export
	// included one.
	Favicon string `json:"favicon,omitempty"`

	// page is the normalized form, populated by NormalizeStep.
	page *model.Page

	// unchanged is set by DedupeStep when the database already holds
	// this page with identical content.
	unchanged bool
}

// VisitRecord is one visit event in an export file.
type VisitRecord struct {
	// Time is the visit timestamp in Unix milliseconds.
	Time int64 `json:"time"`

	// DurationMS is the active time on the page in milliseconds.
	DurationMS int64 `json:"duration,omitempty"`

	// ScrollPx is the maximum scroll depth in pixels.
	ScrollPx int64 `json:"scroll_px,omitempty"`
}

// exportEnvelope is the object form of an export file.
type exportEnvelope struct {
	SchemaVersion int      `json:"schema_version"`
	Pages         []Record `json:"pages"`
}

// DecodeExport reads an export from r. Two layouts are accepted:
//
//   - a JSON object {"schema_version": N, "pages": [...]}, as written by
//     the extension's full export
//   - newline-delimited JSON, one record per line, as written by
//     streaming exports
//
// For the envelope form a syntax error fails the whole decode. For the
// line form, unparseable lines are skipped and counted in malformed so a
// single corrupt line cannot poison an otherwise good export.
func DecodeExport(r io.Reader) (records []Record, malformed int, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read export: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, nil
	}

	if trimmed[0] == '{' && looksLikeEnvelope(trimmed) {
		var env exportEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, 0, fmt.Errorf("failed to decode export: %w", err)
		}
		return env.Pages, 0, nil
	}

	return decodeLines(bytes.NewReader(trimmed))
}

// looksLikeEnvelope distinguishes the envelope form from a single
// NDJSON record, both of which start with '{'. An envelope is one JSON
// object spanning the whole input; NDJSON has one object per line.
func looksLikeEnvelope(data []byte) bool {
	if bytes.IndexByte(data, '\n') < 0 {
		// Single line: envelope if it has a pages key.
		return bytes.Contains(data, []byte(`"pages"`))
	}
	// Multi-line input that parses as one object is an envelope.
	var env struct {
		Pages json.RawMessage `json:"pages"`
	}
	return json.Unmarshal(data, &env) == nil && env.Pages != nil
}

// errLineTooLong reports an NDJSON line over maxRecordSize bytes.
var errLineTooLong = errors.New("record line exceeds size limit")

// decodeLines parses newline-delimited records. A line over maxRecordSize
// is consumed, counted as malformed, and decoding continues with the next
// line; without the size cap a single runaway record could exhaust memory.
func decodeLines(r io.Reader) (records []Record, malformed int, err error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		line, readErr := readLine(reader)
		if errors.Is(readErr, errLineTooLong) {
			malformed++
			continue
		}
		if readErr != nil && readErr != io.EOF {
			return records, malformed, fmt.Errorf("failed to read export lines: %w", readErr)
		}

		if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
			var rec Record
			if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
				malformed++
			} else {
				records = append(records, rec)
			}
		}

		if readErr == io.EOF {
			return records, malformed, nil
		}
	}
}

// readLine reads one newline-terminated line, up to maxRecordSize bytes.
// An over-long line is drained to its newline (or EOF) and reported as
// errLineTooLong so the caller can skip it.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)

		if len(line) > maxRecordSize {
			for err == bufio.ErrBufferFull {
				_, err = r.ReadSlice('\n')
			}
			return nil, errLineTooLong
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, err
	}
}
