package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"
)

// MaxTextSize is the maximum size of extracted page text in bytes.
// Text beyond this limit is truncated before hashing and storage to
// keep page records and the full-text index bounded.
const MaxTextSize = 512 * 1024 // 512 KB

// ErrInvalidURL is returned when a URL cannot be parsed or lacks an
// http/https scheme and a host.
var ErrInvalidURL = errors.New("invalid page URL")

// Page represents an indexed web page.
//
// Design decision: pages are denormalized. Domain and hostname are stored
// alongside the URL even though they are derivable, because the common
// queries (domain filtering, dropdown suggestions) filter on them directly
// and the values must stay stable once a page is written.
type Page struct {
	// URL is the canonicalized page URL and the primary key.
	URL string `json:"url"`

	// Title is the page title extracted from the <title> tag.
	// Empty for non-HTML content.
	Title string `json:"title,omitempty"`

	// Text is the extracted visible text of the page,
	// truncated to MaxTextSize bytes.
	Text string `json:"text,omitempty"`

	// Hostname is the full host of the URL (e.g. "blog.example.com").
	Hostname string `json:"hostname"`

	// Domain is the hostname with a leading "www." stripped.
	// Used for domain filtering and suggestions.
	Domain string `json:"domain"`

	// ScreenshotURI references a stored screenshot, if any.
	// Memex does not interpret the value; it is carried through import.
	ScreenshotURI string `json:"screenshot,omitempty"`

	// FaviconHostname keys into the favicons table.
	// Empty when no favicon is known for the page's host.
	FaviconHostname string `json:"favicon_hostname,omitempty"`

	// Hash is the SHA-256 hash of Text.
	// Used for deduplication and change detection on import.
	Hash string `json:"hash,omitempty"`

	// CreatedAt is when the page was first stored.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the page record was last written.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewPage builds a Page from a raw URL, title, and extracted text.
// The URL is canonicalized, hostname and domain are derived, the text is
// truncated to MaxTextSize, and the content hash is computed.
func NewPage(rawURL, title, text string) (*Page, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return nil, err
	}

	hostname := HostnameOf(canonical)
	text = TruncateText(text)

	return &Page{
		URL:      canonical,
		Title:    title,
		Text:     text,
		Hostname: hostname,
		Domain:   DomainOf(hostname),
		Hash:     HashText(text),
	}, nil
}

// CanonicalURL normalizes a URL so that equivalent URLs map to the same
// page key: the scheme and host are lowercased, default ports and
// fragments are stripped, and an empty path becomes "/".
// Query strings are preserved because they routinely identify distinct
// documents.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// Strip default ports
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// HostnameOf returns the host portion (without port) of a canonical URL.
// Returns an empty string if the URL cannot be parsed.
func HostnameOf(canonicalURL string) string {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// DomainOf strips a single leading "www." label from a hostname.
// This matches what users think of as "the site" when filtering by domain.
func DomainOf(hostname string) string {
	return strings.TrimPrefix(hostname, "www.")
}

// TruncateText limits text to MaxTextSize bytes without splitting a rune.
func TruncateText(text string) string {
	if len(text) <= MaxTextSize {
		return text
	}
	cut := MaxTextSize
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// isRuneStart reports whether b is the first byte of a UTF-8 rune.
func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// HashText returns the hex-encoded SHA-256 hash of text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
