package prompt

import (
	"github.com/charmbracelet/huh"
)

// HuhPrompter implements Prompter using the charmbracelet/huh library.
type HuhPrompter struct{}

// NewHuhPrompter creates a new huh-based prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func huhOptions(choices []Choice) []huh.Option[string] {
	opts := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		opts[i] = huh.NewOption(c.Label, c.Value)
	}
	return opts
}

func (p *HuhPrompter) Select(title string, choices []Choice, current string) (string, error) {
	result := current

	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions(choices)...).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Input(title string, current string) (string, error) {
	result := current

	err := huh.NewInput().
		Title(title).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	result := defaultValue

	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) MultiSelect(title string, choices []Choice) ([]string, error) {
	var result []string

	err := huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions(choices)...).
		Value(&result).
		Run()

	return result, err
}
