package domain

import "time"

// TextUnit is a canonical numbering entry keyed by a human assigned UnitID.
// (Tradition, DivisionCode, Chapter, Verse, Subref) is unique.
type TextUnit struct {
	UnitID       string    `json:"unitId"`
	Tradition    string    `json:"tradition"`
	DivisionCode string    `json:"divisionCode"`
	Chapter      int       `json:"chapter"`
	Verse        int       `json:"verse"`
	Subref       string    `json:"subref,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CanonMap places a TextUnit inside a canon at a sequence position.
type CanonMap struct {
	ID       int64  `json:"id"`
	CanonID  int64  `json:"canonId"`
	UnitID   string `json:"unitId"`
	Sequence int    `json:"sequence"`
}

// TextPayload is the text of a unit for one edition, layer and language.
type TextPayload struct {
	ID         int64     `json:"id"`
	UnitID     string    `json:"unitId"`
	EditionID  int64     `json:"editionId"`
	Layer      string    `json:"layer"`
	LanguageID int64     `json:"languageId"`
	Content    string    `json:"content"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UnitDetail is a unit together with every payload stored for it.
type UnitDetail struct {
	Unit     TextUnit      `json:"unit"`
	Payloads []TextPayload `json:"payloads"`
}

// CanonUnit is a canon map entry joined with its unit.
type CanonUnit struct {
	Sequence int      `json:"sequence"`
	Unit     TextUnit `json:"unit"`
}
