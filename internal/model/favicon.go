package model

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// ErrInvalidDataURI is returned when a favicon data URI cannot be decoded.
var ErrInvalidDataURI = errors.New("invalid favicon data URI")

// Favicon stores the icon for a hostname. Icons are keyed by hostname
// rather than URL because every page on a host shares the same icon.
type Favicon struct {
	// Hostname is the host the icon belongs to.
	Hostname string `json:"hostname"`

	// Data is the raw icon bytes. The format is whatever the site served
	// (ICO, PNG, SVG); Memex stores it opaquely.
	Data []byte `json:"data,omitempty"`

	// UpdatedAt is when the icon was last written.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DecodeFaviconDataURI decodes a "data:<mime>;base64,<payload>" URI as
// produced by the extension's export. Only base64 payloads are supported;
// anything else returns ErrInvalidDataURI.
func DecodeFaviconDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, ErrInvalidDataURI
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, ErrInvalidDataURI
	}
	return data, nil
}
