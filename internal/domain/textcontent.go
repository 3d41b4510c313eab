package domain

import "time"

// TextContent is the atomic addressable unit of scripture text.
// UnitKey is nil while the coordinates are incomplete.
type TextContent struct {
	ID                    int64     `json:"id"`
	SourceID              int64     `json:"sourceId"`
	BookID                int64     `json:"bookId"`
	UnitTypeID            int64     `json:"unitTypeId"`
	LanguageID            int64     `json:"languageId"`
	ParentUnitID          *int64    `json:"parentUnitId,omitempty"`
	UnitGroup             string    `json:"unitGroup"`
	Unit                  string    `json:"unit"`
	Content               string    `json:"content"`
	UnitKey               *string   `json:"unitKey"`
	LiteralReconstruction string    `json:"literalReconstruction,omitempty"`
	WordForWord           string    `json:"wordForWord,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
