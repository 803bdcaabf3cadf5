package clipboard

import "testing"

func TestStatic_ReadText(t *testing.T) {
	got, err := Static("Alice\nBob").ReadText()
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != "Alice\nBob" {
		t.Errorf("Unexpected text %q", got)
	}
}
