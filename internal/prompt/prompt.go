package prompt

import "errors"

// ErrNonInteractive is returned when prompting in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Choice is one selectable option. Label is shown, Value is returned.
type Choice struct {
	Label string
	Value string
}

// Choices builds choices whose label and value are the same string.
func Choices(values ...string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Label: v, Value: v}
	}
	return out
}

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Select presents choices and returns the selected value.
	// current preselects a value when it is among the choices.
	Select(title string, choices []Choice, current string) (string, error)

	// Input prompts for a single line of text, prefilled with current.
	Input(title string, current string) (string, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)

	// MultiSelect allows selecting several choices and returns their values.
	MultiSelect(title string, choices []Choice) ([]string, error)
}

// NoopPrompter returns errors for all prompts (non-interactive mode).
type NoopPrompter struct{}

func (p *NoopPrompter) Select(title string, choices []Choice, current string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(title string, current string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	return false, ErrNonInteractive
}

func (p *NoopPrompter) MultiSelect(title string, choices []Choice) ([]string, error) {
	return nil, ErrNonInteractive
}
