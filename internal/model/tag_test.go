package model

import (
	"errors"
	"testing"
)

// TestNormalizeTagName tests tag name normalization.
func TestNormalizeTagName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "lowercases ASCII",
			input: "GoLang",
			want:  "golang",
		},
		{
			name:  "trims whitespace",
			input: "  reading list  ",
			want:  "reading list",
		},
		{
			name:  "collapses internal whitespace",
			input: "to \t read",
			want:  "to read",
		},
		{
			name:  "case folds unicode",
			input: "Straße",
			want:  "strasse",
		},
		{
			name:    "rejects empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "rejects whitespace-only name",
			input:   "   \t ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeTagName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTag) {
					t.Fatalf("expected ErrInvalidTag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
