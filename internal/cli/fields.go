package cli

import (
	"fmt"
	"strconv"
	"strings"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/prompt"
)

// blankFlag clears an enum field from the command line, where an empty
// string cannot be told apart from an absent flag.
const blankFlag = "-"

// addFlags are the card fields settable from the command line.
// An empty string means the flag was not given.
type addFlags struct {
	name      string
	pathology string
	color     string
	location  string
	moved     string
	movedTo   string
	content   string
}

func (f addFlags) patch() (model.CardPatch, error) {
	var p model.CardPatch

	setText := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setText(&p.PatientName, f.name)
	setText(&p.Pathology, f.pathology)
	setText(&p.MovedTo, f.movedTo)
	setText(&p.Content, f.content)

	if f.color != "" {
		c, ok := model.ParseColor(f.color)
		if !ok {
			return p, kanerr.InvalidField("color", fmt.Sprintf("%q is not a triage colour (rosso, giallo, blu, verde, bianco or red, yellow, blue, green, white)", f.color))
		}
		p.Color = &c
	}
	if f.location != "" {
		l, ok := model.ParseLocation(unblank(f.location))
		if !ok {
			return p, kanerr.InvalidField("location", fmt.Sprintf("%q is not a ward code (OT1, OT2, COR, ACQ, TRI, OBI1, OBI2, OBI3 or %s)", f.location, blankFlag))
		}
		p.Location = &l
	}
	if f.moved != "" {
		m, ok := model.ParseMoved(unblank(f.moved))
		if !ok {
			return p, kanerr.InvalidField("moved", fmt.Sprintf("%q must be R, D or %s", f.moved, blankFlag))
		}
		p.Moved = &m
	}
	return p, nil
}

func unblank(v string) string {
	if v == blankFlag {
		return ""
	}
	return v
}

// editFlags extends addFlags with the fields only edit can change.
type editFlags struct {
	name        string
	pathology   string
	color       string
	location    string
	moved       string
	movedTo     string
	content     string
	collapsed   string
	notesEditor bool
}

func (f editFlags) patch() (model.CardPatch, error) {
	p, err := addFlags{
		name:      f.name,
		pathology: f.pathology,
		color:     f.color,
		location:  f.location,
		moved:     f.moved,
		movedTo:   f.movedTo,
		content:   f.content,
	}.patch()
	if err != nil {
		return p, err
	}
	if f.collapsed != "" {
		b, err := strconv.ParseBool(f.collapsed)
		if err != nil {
			return p, kanerr.InvalidField("collapsed", fmt.Sprintf("%q is not true or false", f.collapsed))
		}
		p.Collapsed = &b
	}
	return p, nil
}

func colorChoices() []prompt.Choice {
	choices := make([]prompt.Choice, len(model.Colors))
	for i, c := range model.Colors {
		choices[i] = prompt.Choice{
			Label: fmt.Sprintf("%s %s (%s)", TriageSwatch(c), c, c.EnglishName()),
			Value: string(c),
		}
	}
	return choices
}

func locationChoices() []prompt.Choice {
	choices := make([]prompt.Choice, len(model.Locations))
	for i, l := range model.Locations {
		choices[i] = prompt.Choice{Label: blankLabel(string(l)), Value: string(l)}
	}
	return choices
}

func movedChoices() []prompt.Choice {
	choices := make([]prompt.Choice, len(model.MovedValues))
	for i, m := range model.MovedValues {
		choices[i] = prompt.Choice{Label: blankLabel(string(m)), Value: string(m)}
	}
	return choices
}

func blankLabel(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(blank)"
	}
	return v
}

// cardLabel is the one-line description used in pickers and messages.
func cardLabel(card model.Card, index int) string {
	name := card.PatientName
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%d. %s [%s]", index+1, name, card.Color)
}
