package model

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

// TestDecodeFaviconDataURI tests data URI decoding.
func TestDecodeFaviconDataURI(t *testing.T) {
	t.Parallel()

	t.Run("decodes base64 payload", func(t *testing.T) {
		t.Parallel()

		payload := []byte{0x89, 'P', 'N', 'G'}
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

		got, err := DecodeFaviconDataURI(uri)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("expected %v, got %v", payload, got)
		}
	})

	t.Run("rejects non-data URI", func(t *testing.T) {
		t.Parallel()

		if _, err := DecodeFaviconDataURI("https://example.com/favicon.ico"); !errors.Is(err, ErrInvalidDataURI) {
			t.Fatalf("expected ErrInvalidDataURI, got %v", err)
		}
	})

	t.Run("rejects non-base64 encoding", func(t *testing.T) {
		t.Parallel()

		if _, err := DecodeFaviconDataURI("data:image/svg+xml,<svg/>"); !errors.Is(err, ErrInvalidDataURI) {
			t.Fatalf("expected ErrInvalidDataURI, got %v", err)
		}
	})

	t.Run("rejects corrupt base64", func(t *testing.T) {
		t.Parallel()

		if _, err := DecodeFaviconDataURI("data:image/png;base64,!!!"); !errors.Is(err, ErrInvalidDataURI) {
			t.Fatalf("expected ErrInvalidDataURI, got %v", err)
		}
	})
}
