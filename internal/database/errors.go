package database

import "errors"

// Storage errors. Callers can match these with errors.Is().
var (
	// ErrPageNotFound is returned when an operation references a page URL
	// that has no record (e.g. tagging or bookmarking a page that was
	// never stored).
	ErrPageNotFound = errors.New("page not found")
)
