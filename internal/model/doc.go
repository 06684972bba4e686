// Package model defines the core data structures stored by Memex:
// pages, visits, bookmarks, tags, and favicons.
//
// The structures mirror the on-disk schema: a denormalized page record
// plus thin association records keyed by compound keys ([time+url] for
// visits, [name+url] for tags). JSON tags on every struct define the
// export/import wire format used by the importer.
//
// The package also provides the canonicalization helpers that keep keys
// stable: URL normalization, hostname/domain derivation, tag name folding,
// and content hashing for change detection.
package model
