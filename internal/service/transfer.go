package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emilianobruni/erflow/internal/config"
	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/util"
)

// MarshalCards serializes the list as pretty-printed JSON with 2-space indentation.
// An empty list encodes as [] rather than null.
func MarshalCards(cards model.CardList) ([]byte, error) {
	if cards == nil {
		cards = model.CardList{}
	}
	return json.MarshalIndent(cards, "", "  ")
}

// ExportFileName returns the download name for an export taken at now,
// e.g. erflow-cards-2025-03-14.json. The date is taken in UTC.
func ExportFileName(now time.Time) string {
	return config.ExportFilePrefix + util.DateStamp(now) + ".json"
}

// ReconcileJSON parses text as a JSON array of card objects and rebuilds
// each element on top of a fresh default card. Fields that are present and
// well-typed are kept; everything else falls back to the default. The whole
// import fails only when text is not an array of objects.
func ReconcileJSON(text string, newID func() string) (model.CardList, error) {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, kanerr.Parse("json import", "invalid JSON", err)
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, kanerr.Parse("json import", "expected a list of patients", nil)
	}

	out := make(model.CardList, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, kanerr.Parse("json import", "element "+strconv.Itoa(i)+" is not an object", nil)
		}
		card := reconcileCard(obj, newID)
		// Ids must stay unique; later duplicates get a fresh one
		for seen[card.ID] {
			card.ID = newID()
		}
		seen[card.ID] = true
		out = append(out, card)
	}
	return out, nil
}

func reconcileCard(obj map[string]any, newID func() string) model.Card {
	card := model.NewCard("")

	if s, ok := obj["id"].(string); ok && strings.TrimSpace(s) != "" {
		card.ID = s
	} else {
		card.ID = newID()
	}

	if s, ok := obj["color"].(string); ok && model.Color(s).Valid() {
		card.Color = model.Color(s)
	}
	if s, ok := obj["location"].(string); ok && model.Location(s).Valid() {
		card.Location = model.Location(s)
	}
	if s, ok := obj["moved"].(string); ok && model.Moved(s).Valid() {
		card.Moved = model.Moved(s)
	}

	card.PatientName = stringField(obj, "patientName")
	card.Pathology = stringField(obj, "patology")
	card.MovedTo = stringField(obj, "movedTo")
	card.Content = stringField(obj, "content")
	card.Collapsed = truthy(obj["collapsed"])

	return card
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// truthy coerces a decoded JSON value to bool the way a browser would:
// false, 0, "", null and absent are false, everything else is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// TextLines splits text on line breaks, trims each line and drops empty ones.
// Returns a ParseError when nothing remains.
func TextLines(text string) ([]string, error) {
	var lines []string
	for _, line := range lineBreak.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, kanerr.Parse("text import", "clipboard empty or unparsable", nil)
	}
	return lines, nil
}

// CardsFromText builds one default card per non-empty line, with both the
// patient name and the notes set to the line.
func CardsFromText(text string, newID func() string) (model.CardList, error) {
	lines, err := TextLines(text)
	if err != nil {
		return nil, err
	}

	out := make(model.CardList, 0, len(lines))
	for _, line := range lines {
		card := model.NewCard(newID())
		card.PatientName = line
		card.Content = line
		out = append(out, card)
	}
	return out, nil
}
