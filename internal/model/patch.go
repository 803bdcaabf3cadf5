package model

import (
	kanerr "github.com/emilianobruni/erflow/internal/errors"
)

// CardPatch carries a partial update. Nil fields are left unchanged.
// The JSON keys match Card so API clients send the same shape they receive.
type CardPatch struct {
	Color       *Color    `json:"color,omitempty"`
	PatientName *string   `json:"patientName,omitempty"`
	Pathology   *string   `json:"patology,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Moved       *Moved    `json:"moved,omitempty"`
	MovedTo     *string   `json:"movedTo,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Collapsed   *bool     `json:"collapsed,omitempty"`
}

// IsEmpty reports whether the patch sets no fields.
func (p CardPatch) IsEmpty() bool {
	return p.Color == nil && p.PatientName == nil && p.Pathology == nil &&
		p.Location == nil && p.Moved == nil && p.MovedTo == nil &&
		p.Content == nil && p.Collapsed == nil
}

// Validate checks enum fields against their permitted literals.
func (p CardPatch) Validate() error {
	if p.Color != nil && !p.Color.Valid() {
		return kanerr.InvalidField("color", "must be one of rosso, giallo, blu, verde, bianco")
	}
	if p.Location != nil && !p.Location.Valid() {
		return kanerr.InvalidField("location", "must be one of OT1, OT2, COR, ACQ, TRI, OBI1, OBI2, OBI3 or blank")
	}
	if p.Moved != nil && !p.Moved.Valid() {
		return kanerr.InvalidField("moved", "must be R, D or blank")
	}
	return nil
}

// Apply returns card with the patch's set fields merged in. The ID never changes.
func (p CardPatch) Apply(card Card) Card {
	if p.Color != nil {
		card.Color = *p.Color
	}
	if p.PatientName != nil {
		card.PatientName = *p.PatientName
	}
	if p.Pathology != nil {
		card.Pathology = *p.Pathology
	}
	if p.Location != nil {
		card.Location = *p.Location
	}
	if p.Moved != nil {
		card.Moved = *p.Moved
	}
	if p.MovedTo != nil {
		card.MovedTo = *p.MovedTo
	}
	if p.Content != nil {
		card.Content = *p.Content
	}
	if p.Collapsed != nil {
		card.Collapsed = *p.Collapsed
	}
	return card
}
