package util

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		maxWords int
		expected string
	}{
		{"Mario Rossi", 0, "mario-rossi"},
		{"  Niccolò   Bianchi ", 0, "niccolo-bianchi"},
		{"D'Angelo, Maria Teresa", 2, "d-angelo"},
		{"Frattura (femore)", 0, "frattura-femore"},
		{"Zoë", 3, "zoe"},
		{"", 0, "card"},
		{"???", 0, "card"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Slug(tt.input, tt.maxWords, "card")
			if got != tt.expected {
				t.Errorf("Slug(%q, %d) = %q, want %q", tt.input, tt.maxWords, got, tt.expected)
			}
		})
	}
}

func TestSlugWords_Empty(t *testing.T) {
	if words := SlugWords("--"); words != nil {
		t.Errorf("Expected nil, got %v", words)
	}
}
