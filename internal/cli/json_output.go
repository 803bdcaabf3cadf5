package cli

import (
	"encoding/json"
	"fmt"

	"github.com/emilianobruni/erflow/internal/model"
)

// cardJson is a card plus its 1-based board position, which is how
// commands address cards.
type cardJson struct {
	Position int `json:"position"`
	model.Card
}

// CardOutput wraps a single card for JSON output.
type CardOutput struct {
	Card cardJson `json:"card"`
}

// NewCardOutput creates a CardOutput for the card at the 0-based index.
func NewCardOutput(card model.Card, index int) CardOutput {
	return CardOutput{Card: cardJson{Position: index + 1, Card: card}}
}

// ListOutput wraps the visible cards, the active search and the tally.
type ListOutput struct {
	Query string      `json:"query"`
	Shown int         `json:"shown"`
	Cards []cardJson  `json:"cards"`
	Tally model.Tally `json:"tally"`
}

// NewListOutput builds a ListOutput from the full board and the visible subset.
// Positions refer to the full board so they can be passed to other commands.
// Always returns an empty array (not null) when there are no cards.
func NewListOutput(all, shown model.CardList, query string) ListOutput {
	result := make([]cardJson, 0, len(shown))
	for _, c := range shown {
		result = append(result, cardJson{Position: all.IndexOf(c.ID) + 1, Card: c})
	}
	return ListOutput{
		Query: query,
		Shown: len(result),
		Cards: result,
		Tally: all.Tally(),
	}
}

// TallyOutput wraps the colour counts.
type TallyOutput struct {
	Tally model.Tally `json:"tally"`
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
