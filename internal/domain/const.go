package domain

import "time"

// RevisionScope decides which rows share a revision number sequence.
type RevisionScope string

const (
	// RevisionScopeContent numbers revisions per text content across every
	// target language.
	RevisionScopeContent RevisionScope = "content"
	// RevisionScopeLanguage numbers revisions per (text content, language).
	RevisionScopeLanguage RevisionScope = "language"
)

// Valid reports whether s is a known scope.
func (s RevisionScope) Valid() bool {
	return s == RevisionScopeContent || s == RevisionScopeLanguage
}

const (
	PayloadLayerOriginal = "original"
	PayloadLayerLiteral  = "literal"
	PayloadLayerGloss    = "gloss"
)

const (
	EventTextContentCreated  = "text_content.created"
	EventTextContentUpdated  = "text_content.updated"
	EventTextContentDeleted  = "text_content.deleted"
	EventCanonsReplaced      = "text_content.canons_replaced"
	EventTranslationAppended = "translation.appended"
	EventTranslationPromoted = "translation.promoted"
	EventTranslationConfirm  = "translation.confirmed"
)

// EventChannel is the redis channel change events are published on.
const EventChannel = "textcanon.events"

// Event is a change notification emitted after a successful write.
type Event struct {
	Type       string    `json:"type"`
	ResourceID int64     `json:"resourceId"`
	ParentID   int64     `json:"parentId,omitempty"`
	LanguageID int64     `json:"languageId,omitempty"`
	UnitKey    string    `json:"unitKey,omitempty"`
	At         time.Time `json:"at"`
}
