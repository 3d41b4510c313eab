package domain

import "time"

// TextTranslation is one revision of a translation of a TextContent into a
// target language. Rows are append-only apart from IsLatest and the
// confirmation fields.
type TextTranslation struct {
	ID               int64      `json:"id"`
	TextContentID    int64      `json:"textContentId"`
	LanguageTargetID int64      `json:"languageTargetId"`
	WordForWord      string     `json:"wordForWord,omitempty"`
	AITranslation    string     `json:"aiTranslation,omitempty"`
	AIExplanation    string     `json:"aiExplanation,omitempty"`
	ModelName        string     `json:"modelName,omitempty"`
	Confidence       *float64   `json:"confidence,omitempty"`
	RevisionNumber   int        `json:"revisionNumber"`
	IsLatest         bool       `json:"isLatest"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	ConfirmedBy      *string    `json:"confirmedBy,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
