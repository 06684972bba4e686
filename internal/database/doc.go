// Package database implements the schema-versioned SQLite store behind
// Memex: pages, visits, bookmarks, tags, and favicons.
//
// The schema is denormalized around the page URL. Visits use the compound
// key [time+url] and tags the compound key [name+url], mirroring the
// record shapes produced by the extension export that the importer
// consumes.
//
// Schema changes are expressed as ordered migrations. Every applied
// version is recorded in the schema_version table, and opening a store
// applies any migrations newer than the recorded version inside a
// transaction, including per-version data backfills.
//
// All query methods accept a context and return wrapped errors; lookups
// for absent rows return (nil, nil) rather than an error.
package database
