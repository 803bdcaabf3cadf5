package id

import (
	"strings"
	"testing"
)

func TestGenerate_PrefixedAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		got := Generate()
		if !strings.HasPrefix(got, Prefix) {
			t.Fatalf("ID %q missing prefix %q", got, Prefix)
		}
		if seen[got] {
			t.Fatalf("duplicate ID generated: %q", got)
		}
		seen[got] = true
	}
}
