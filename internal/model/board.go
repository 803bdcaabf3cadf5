package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CardList is the ordered card sequence shown on the board.
// Order is significant and is the persisted order.
//
// Every method returns a new list and leaves the receiver untouched, so the
// service layer can swap state in one assignment and persist the result.
type CardList []Card

// Clone returns a shallow copy of the list.
func (l CardList) Clone() CardList {
	if l == nil {
		return CardList{}
	}
	out := make(CardList, len(l))
	copy(out, l)
	return out
}

// IndexOf returns the position of the card with the given ID, or -1.
func (l CardList) IndexOf(id string) int {
	for i, c := range l {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// WithCard returns the list with card appended to the end.
func (l CardList) WithCard(card Card) CardList {
	out := make(CardList, 0, len(l)+1)
	out = append(out, l...)
	return append(out, card)
}

// WithCards returns the list with cards appended in order.
func (l CardList) WithCards(cards CardList) CardList {
	out := make(CardList, 0, len(l)+len(cards))
	out = append(out, l...)
	return append(out, cards...)
}

// Without returns the list minus the card with the given ID.
// An unknown ID yields an unchanged copy.
func (l CardList) Without(id string) CardList {
	out := make(CardList, 0, len(l))
	for _, c := range l {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// Patched returns the list with patch applied to the card with the given ID.
// Returns false if no card matched.
func (l CardList) Patched(id string, patch CardPatch) (CardList, bool) {
	idx := l.IndexOf(id)
	if idx < 0 {
		return l.Clone(), false
	}
	out := l.Clone()
	out[idx] = patch.Apply(out[idx])
	return out, true
}

// AllCollapsed returns the list with every card's Collapsed flag set to collapsed.
func (l CardList) AllCollapsed(collapsed bool) CardList {
	out := l.Clone()
	for i := range out {
		out[i].Collapsed = collapsed
	}
	return out
}

// MovedUp swaps the card with its predecessor. No-op for the first card or an unknown ID.
func (l CardList) MovedUp(id string) CardList {
	idx := l.IndexOf(id)
	if idx <= 0 {
		return l.Clone()
	}
	return l.swapped(idx, idx-1)
}

// MovedDown swaps the card with its successor. No-op for the last card or an unknown ID.
func (l CardList) MovedDown(id string) CardList {
	idx := l.IndexOf(id)
	if idx < 0 || idx >= len(l)-1 {
		return l.Clone()
	}
	return l.swapped(idx, idx+1)
}

func (l CardList) swapped(i, j int) CardList {
	out := l.Clone()
	out[i], out[j] = out[j], out[i]
	return out
}

// Reordered removes the card at from and reinserts it at to, shifting the
// cards in between. Out-of-range or equal indices yield an unchanged copy.
func (l CardList) Reordered(from, to int) CardList {
	if from == to || from < 0 || to < 0 || from >= len(l) || to >= len(l) {
		return l.Clone()
	}

	moved := l[from]
	out := make(CardList, 0, len(l))
	out = append(out, l[:from]...)
	out = append(out, l[from+1:]...)

	// Insert at position
	out = append(out, Card{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// Filter returns the cards whose patient name contains query after both are
// lowercased. Lowercasing, not full folding, so "ss" does not match "ß".
// Order is kept. An empty query matches all.
func (l CardList) Filter(query string) CardList {
	if query == "" {
		return l.Clone()
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	out := CardList{}
	for _, c := range l {
		if strings.Contains(lower.String(c.PatientName), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Tally counts cards per triage colour.
type Tally struct {
	Red    int `json:"rosso"`
	Yellow int `json:"giallo"`
	Blue   int `json:"blu"`
	Green  int `json:"verde"`
	White  int `json:"bianco"`
	Total  int `json:"total"`
}

// Count returns the number of cards with the given colour.
func (t Tally) Count(c Color) int {
	switch c {
	case ColorRed:
		return t.Red
	case ColorYellow:
		return t.Yellow
	case ColorBlue:
		return t.Blue
	case ColorGreen:
		return t.Green
	case ColorWhite:
		return t.White
	}
	return 0
}

// Tally computes the colour counts of the list.
// Cards with an unrecognised colour count toward the total only.
func (l CardList) Tally() Tally {
	t := Tally{Total: len(l)}
	for _, c := range l {
		switch c.Color {
		case ColorRed:
			t.Red++
		case ColorYellow:
			t.Yellow++
		case ColorBlue:
			t.Blue++
		case ColorGreen:
			t.Green++
		case ColorWhite:
			t.White++
		}
	}
	return t
}
