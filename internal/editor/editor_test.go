package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emilianobruni/erflow/internal/model"
)

func TestResolve_Order(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	if got := NewEditor(nil).Resolve(); got != "vi" {
		t.Errorf("Expected vi fallback, got %q", got)
	}

	t.Setenv("EDITOR", "nano")
	if got := NewEditor(nil).Resolve(); got != "nano" {
		t.Errorf("Expected $EDITOR, got %q", got)
	}

	t.Setenv("VISUAL", "emacs")
	if got := NewEditor(nil).Resolve(); got != "emacs" {
		t.Errorf("Expected $VISUAL, got %q", got)
	}

	cfg := &model.GlobalConfig{Editor: "hx"}
	if got := NewEditor(cfg).Resolve(); got != "hx" {
		t.Errorf("Expected config editor, got %q", got)
	}
}

func TestEditNotes_RunsEditorOnTempFile(t *testing.T) {
	// A tiny shell script stands in for the editor and appends a line.
	script := filepath.Join(t.TempDir(), "fake-editor.sh")
	body := "#!/bin/sh\nprintf ' updated\\n' >> \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	card := model.NewCard("a")
	card.PatientName = "Mario Rossi"
	card.Content = "stable"

	got, err := NewEditor(&model.GlobalConfig{Editor: script}).EditNotes(card)
	if err != nil {
		t.Fatalf("EditNotes failed: %v", err)
	}
	if got != "stable updated" {
		t.Errorf("Expected %q, got %q", "stable updated", got)
	}
}
