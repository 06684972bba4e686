package extract

import (
	"strings"
	"testing"
)

const testHTML = `<!DOCTYPE html>
<html>
<head>
	<title> Go Testing Guide </title>
	<meta name="description" content="How to test Go code.">
	<meta property="og:description" content="OpenGraph description.">
	<link rel="icon" href="/static/favicon.ico">
	<style>body { color: red; }</style>
</head>
<body>
	<h1>Testing</h1>
	<p>Tests   live in
	_test.go files.</p>
	<script>trackVisitor();</script>
	<noscript>Enable JavaScript</noscript>
</body>
</html>`

// TestParse tests single-pass HTML extraction.
func TestParse(t *testing.T) {
	t.Parallel()

	p, err := NewParser("https://example.com/guide")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}

	result, err := p.Parse(strings.NewReader(testHTML))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	t.Run("title is trimmed", func(t *testing.T) {
		if result.Title != "Go Testing Guide" {
			t.Errorf("expected 'Go Testing Guide', got %q", result.Title)
		}
	})

	t.Run("text excludes script, style, and noscript", func(t *testing.T) {
		if strings.Contains(result.Text, "trackVisitor") {
			t.Error("script content leaked into text")
		}
		if strings.Contains(result.Text, "color: red") {
			t.Error("style content leaked into text")
		}
		if strings.Contains(result.Text, "Enable JavaScript") {
			t.Error("noscript content leaked into text")
		}
	})

	t.Run("whitespace is collapsed", func(t *testing.T) {
		if !strings.Contains(result.Text, "Tests live in _test.go files.") {
			t.Errorf("unexpected text %q", result.Text)
		}
	})

	t.Run("plain description wins over OpenGraph", func(t *testing.T) {
		if result.Description != "How to test Go code." {
			t.Errorf("unexpected description %q", result.Description)
		}
	})

	t.Run("favicon href is resolved against base", func(t *testing.T) {
		if result.FaviconURL != "https://example.com/static/favicon.ico" {
			t.Errorf("unexpected favicon URL %q", result.FaviconURL)
		}
	})
}

// TestParseFallbacks tests behavior on sparse documents.
func TestParseFallbacks(t *testing.T) {
	t.Parallel()

	t.Run("og:description used when no plain description", func(t *testing.T) {
		t.Parallel()

		p, err := NewParser("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := p.Parse(strings.NewReader(
			`<html><head><meta property="og:description" content="OG only."></head><body>x</body></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Description != "OG only." {
			t.Errorf("unexpected description %q", result.Description)
		}
	})

	t.Run("empty document yields empty result", func(t *testing.T) {
		t.Parallel()

		p, err := NewParser("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := p.Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Title != "" || result.Text != "" || result.FaviconURL != "" {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("data URI favicon is ignored", func(t *testing.T) {
		t.Parallel()

		p, err := NewParser("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := p.Parse(strings.NewReader(
			`<html><head><link rel="icon" href="data:image/png;base64,AAAA"></head></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.FaviconURL != "" {
			t.Errorf("expected empty favicon URL, got %q", result.FaviconURL)
		}
	})

	t.Run("malformed HTML still parses", func(t *testing.T) {
		t.Parallel()

		p, err := NewParser("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := p.Parse(strings.NewReader("<title>Broken</title><p>unclosed<div>nested"))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Title != "Broken" {
			t.Errorf("unexpected title %q", result.Title)
		}
	})
}
