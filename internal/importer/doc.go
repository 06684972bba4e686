// Package importer ingests exported browsing-history files into the
// database and search index.
//
// An import runs as a pipeline of steps over a batch: decode the export
// file, normalize and merge its records, skip content the database
// already holds, persist pages and their associations, and index the
// page text. Each batch carries a report that accumulates counts and
// per-record errors; a bad record never aborts the batch.
//
// Multiple export files can be processed concurrently with
// BatchProcessor, which runs one pipeline per file under a concurrency
// limit.
package importer
