package editor

import (
	"os"
	"os/exec"
	"strings"

	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/util"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	globalConfig *model.GlobalConfig
}

// NewEditor creates a new Editor.
func NewEditor(globalConfig *model.GlobalConfig) *Editor {
	return &Editor{globalConfig: globalConfig}
}

// Resolve returns the editor command to use.
// Order: global config > $VISUAL > $EDITOR > vi
func (e *Editor) Resolve() string {
	if e.globalConfig != nil && e.globalConfig.Editor != "" {
		return e.globalConfig.Editor
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	return "vi"
}

// EditNotes opens the card's notes in the editor and returns the edited text.
// A single trailing newline added by the editor is dropped.
func (e *Editor) EditNotes(card model.Card) (string, error) {
	pattern := "erflow-notes-" + util.Slug(card.PatientName, 3, "card") + "-*.md"
	edited, err := e.edit(pattern, card.Content)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(edited, "\n"), nil
}

func (e *Editor) edit(pattern, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// The configured editor may carry arguments, e.g. "code --wait"
	parts := strings.Fields(e.Resolve())
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}
	return string(edited), nil
}
