package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/model"
)

// CardSource provides the current card list.
type CardSource interface {
	Cards() model.CardList
}

// CardResolver turns a user-supplied reference into a card.
type CardResolver struct {
	source CardSource
}

// NewCardResolver creates a new card resolver.
func NewCardResolver(source CardSource) *CardResolver {
	return &CardResolver{source: source}
}

// Resolve finds a card by reference and returns it with its 0-based index.
// Tries, in order: exact ID, 1-based position, unique case-insensitive
// patient name match.
func (r *CardResolver) Resolve(ref string) (model.Card, int, error) {
	cards := r.source.Cards()
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Card{}, -1, kanerr.InvalidField("card", "reference is empty")
	}

	if idx := cards.IndexOf(ref); idx >= 0 {
		return cards[idx], idx, nil
	}

	if pos, err := strconv.Atoi(ref); err == nil {
		if pos < 1 || pos > len(cards) {
			return model.Card{}, -1, kanerr.CardNotFound(ref)
		}
		return cards[pos-1], pos - 1, nil
	}

	folder := cases.Fold()
	needle := folder.String(ref)
	var matches []int
	for i, c := range cards {
		if folder.String(c.PatientName) == needle {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return model.Card{}, -1, kanerr.CardNotFound(ref)
	case 1:
		return cards[matches[0]], matches[0], nil
	default:
		positions := make([]string, len(matches))
		for i, m := range matches {
			positions[i] = strconv.Itoa(m + 1)
		}
		return model.Card{}, -1, kanerr.InvalidField("card",
			fmt.Sprintf("%q matches %d cards (positions %s); use a position or id", ref, len(matches), strings.Join(positions, ", ")))
	}
}
