package model

// TriageHex maps each triage colour to the hex used when rendering it.
var TriageHex = map[Color]string{
	ColorRed:    "#ef4444",
	ColorYellow: "#eab308",
	ColorBlue:   "#3b82f6",
	ColorGreen:  "#22c55e",
	ColorWhite:  "#e5e7eb",
}

// EnglishName returns the English label for a triage colour.
func (c Color) EnglishName() string {
	for name, col := range colorAliases {
		if col == c {
			return name
		}
	}
	return string(c)
}
