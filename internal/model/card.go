package model

import "strings"

// Color is the triage colour of a card.
type Color string

const (
	ColorRed    Color = "rosso"
	ColorYellow Color = "giallo"
	ColorBlue   Color = "blu"
	ColorGreen  Color = "verde"
	ColorWhite  Color = "bianco"
)

// Colors lists the triage colours in display order (most to least severe).
var Colors = []Color{ColorRed, ColorYellow, ColorBlue, ColorGreen, ColorWhite}

// Valid reports whether c is one of the permitted colour literals.
func (c Color) Valid() bool {
	switch c {
	case ColorRed, ColorYellow, ColorBlue, ColorGreen, ColorWhite:
		return true
	}
	return false
}

// Location is the ward code a card is assigned to.
type Location string

const (
	LocationOT1   Location = "OT1"
	LocationOT2   Location = "OT2"
	LocationCOR   Location = "COR"
	LocationACQ   Location = "ACQ"
	LocationTRI   Location = "TRI"
	LocationOBI1  Location = "OBI1"
	LocationOBI2  Location = "OBI2"
	LocationOBI3  Location = "OBI3"
	LocationBlank Location = " "
)

// Locations lists all ward codes, blank last.
var Locations = []Location{
	LocationOT1, LocationOT2, LocationCOR, LocationACQ, LocationTRI,
	LocationOBI1, LocationOBI2, LocationOBI3, LocationBlank,
}

func (l Location) Valid() bool {
	switch l {
	case LocationOT1, LocationOT2, LocationCOR, LocationACQ, LocationTRI,
		LocationOBI1, LocationOBI2, LocationOBI3, LocationBlank:
		return true
	}
	return false
}

// Moved marks a transfer status.
type Moved string

const (
	MovedR     Moved = "R"
	MovedD     Moved = "D"
	MovedBlank Moved = " "
)

var MovedValues = []Moved{MovedR, MovedD, MovedBlank}

func (m Moved) Valid() bool {
	switch m {
	case MovedR, MovedD, MovedBlank:
		return true
	}
	return false
}

// Card is one patient record on the triage board.
// The JSON shape is shared by storage, export and import; keep the keys stable.
type Card struct {
	ID          string   `json:"id"`
	Color       Color    `json:"color"`
	PatientName string   `json:"patientName"`
	Pathology   string   `json:"patology"`
	Location    Location `json:"location"`
	Moved       Moved    `json:"moved"`
	MovedTo     string   `json:"movedTo"`
	Content     string   `json:"content"`
	Collapsed   bool     `json:"collapsed"`
}

// NewCard returns a default card carrying the given id.
func NewCard(id string) Card {
	return Card{
		ID:       id,
		Color:    ColorWhite,
		Location: LocationBlank,
		Moved:    MovedBlank,
	}
}

// ParseColor accepts either the stored literal ("rosso") or its English
// name ("red"), in any case.
func ParseColor(s string) (Color, bool) {
	if c := Color(strings.ToLower(s)); c.Valid() {
		return c, true
	}
	c, ok := colorAliases[strings.ToLower(s)]
	return c, ok
}

var colorAliases = map[string]Color{
	"red":    ColorRed,
	"yellow": ColorYellow,
	"blue":   ColorBlue,
	"green":  ColorGreen,
	"white":  ColorWhite,
}

// ParseLocation accepts a ward code in any case. Empty input means blank.
func ParseLocation(s string) (Location, bool) {
	if s == "" {
		return LocationBlank, true
	}
	l := Location(strings.ToUpper(s))
	return l, l.Valid()
}

// ParseMoved accepts R or D in any case. Empty input means blank.
func ParseMoved(s string) (Moved, bool) {
	if s == "" {
		return MovedBlank, true
	}
	m := Moved(strings.ToUpper(s))
	return m, m.Valid()
}
