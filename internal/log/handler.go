package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue replaces sensitive attribute values in log output.
const MaskValue = "***REDACTED***"

// sensitiveKeys lists attribute keys whose values are always masked,
// regardless of content. Matching is case-insensitive.
var sensitiveKeys = map[string]struct{}{
	"password": {},
	"passwd":   {},
	"secret":   {},
	"token":    {},
	"api_key":  {},
	"apikey":   {},
	"auth":     {},
	"cookie":   {},
	"session":  {},
}

// sensitiveQueryParams lists URL query parameters removed from logged
// URLs. Anything else in the query string survives.
var sensitiveQueryParams = map[string]struct{}{
	"token":        {},
	"access_token": {},
	"id_token":     {},
	"code":         {},
	"session":      {},
	"sid":          {},
	"key":          {},
	"api_key":      {},
	"apikey":       {},
	"auth":         {},
	"password":     {},
}

// PrivacyHandler wraps a slog.Handler and sanitizes attributes before
// delegating. URL-valued attributes have userinfo and credential query
// parameters removed; attributes with sensitive keys are fully masked.
type PrivacyHandler struct {
	inner slog.Handler
}

// NewPrivacyHandler wraps inner with attribute sanitization.
func NewPrivacyHandler(inner slog.Handler) *PrivacyHandler {
	return &PrivacyHandler{inner: inner}
}

// Enabled reports whether the wrapped handler handles records at the
// given level.
func (h *PrivacyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *PrivacyHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(sanitizeAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a new PrivacyHandler whose wrapped handler carries
// the sanitized attributes.
func (h *PrivacyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		sanitized = append(sanitized, sanitizeAttr(attr))
	}
	return &PrivacyHandler{inner: h.inner.WithAttrs(sanitized)}
}

// WithGroup returns a new PrivacyHandler with the group applied to the
// wrapped handler.
func (h *PrivacyHandler) WithGroup(name string) slog.Handler {
	return &PrivacyHandler{inner: h.inner.WithGroup(name)}
}

// sanitizeAttr masks or rewrites a single attribute. Groups are
// sanitized recursively.
func sanitizeAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		sanitized := make([]slog.Attr, 0, len(members))
		for _, member := range members {
			sanitized = append(sanitized, sanitizeAttr(member))
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(sanitized...)}
	}

	if _, ok := sensitiveKeys[strings.ToLower(attr.Key)]; ok {
		return slog.String(attr.Key, MaskValue)
	}

	if attr.Value.Kind() == slog.KindString {
		if raw := attr.Value.String(); looksLikeURL(raw) {
			return slog.String(attr.Key, SanitizeURL(raw))
		}
	}
	return attr
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// SanitizeURL strips userinfo and credential-bearing query parameters
// from a URL string. Unparseable input is returned unchanged rather
// than dropped, since a mangled URL is still useful in logs.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = nil

	if u.RawQuery != "" {
		query := u.Query()
		changed := false
		for param := range query {
			if _, ok := sensitiveQueryParams[strings.ToLower(param)]; ok {
				query.Del(param)
				changed = true
			}
		}
		if changed {
			u.RawQuery = query.Encode()
		}
	}
	return u.String()
}

// NewLogger returns a text-format logger writing to w with privacy
// sanitization applied. When verbose is true the level is Debug,
// otherwise Info.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPrivacyHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFor(verbose),
	})))
}

// NewJSONLogger returns a JSON-format logger writing to w with privacy
// sanitization applied.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPrivacyHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: levelFor(verbose),
	})))
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
