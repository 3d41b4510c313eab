package textcanon

// TextContentFields carries the editable columns of a text content. A nil
// field is left unchanged on update; create requires SourceID, BookID,
// UnitTypeID and LanguageID.
type TextContentFields struct {
	SourceID              *int64  `json:"sourceId,omitempty"`
	BookID                *int64  `json:"bookId,omitempty"`
	UnitTypeID            *int64  `json:"unitTypeId,omitempty"`
	LanguageID            *int64  `json:"languageId,omitempty"`
	ParentUnitID          *int64  `json:"parentUnitId,omitempty"`
	UnitGroup             *string `json:"unitGroup,omitempty"`
	Unit                  *string `json:"unit,omitempty"`
	Content               *string `json:"content,omitempty"`
	LiteralReconstruction *string `json:"literalReconstruction,omitempty"`
	WordForWord           *string `json:"wordForWord,omitempty"`
}

// TextContentRequest is the body of create and update calls.
// CanonIDs replaces the canon membership set when present; a null or
// absent list leaves memberships untouched on update.
type TextContentRequest struct {
	TextContentFields
	CanonIDs []int64 `json:"canonIds"`
}

type SetCanonsRequest struct {
	CanonIDs []int64 `json:"canonIds"`
}

// TranslationFields are the columns supplied when appending a revision.
type TranslationFields struct {
	WordForWord   string   `json:"wordForWord,omitempty"`
	AITranslation string   `json:"aiTranslation,omitempty"`
	AIExplanation string   `json:"aiExplanation,omitempty"`
	ModelName     string   `json:"modelName,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type AppendTranslationRequest struct {
	LanguageID int64 `json:"languageId"`
	TranslationFields
}

type ConfirmTranslationRequest struct {
	ConfirmedBy string `json:"confirmedBy"`
}

type CanonMapRequest struct {
	UnitID   string `json:"unitId"`
	Sequence int    `json:"sequence"`
}

type PayloadRequest struct {
	EditionID  int64  `json:"editionId"`
	Layer      string `json:"layer"`
	LanguageID int64  `json:"languageId"`
	Content    string `json:"content"`
}

// CanonsResponse lists canons of a text content in display order, both as a
// list of names and keyed by canon code.
type CanonsResponse[T any] struct {
	Names  []string `json:"names"`
	ByCode T        `json:"byCode"`
}
