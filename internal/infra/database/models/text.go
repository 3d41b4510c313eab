package models

import "time"

// TextContent is unique on (source_id, book_id, unit_key). unit_key is NULL
// until every coordinate is known, and NULLs never collide.
type TextContent struct {
	ID                    int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	SourceID              int64        `json:"sourceID" gorm:"not null;index:idx_text_contents_unit_key,unique,priority:1"`
	Source                Source       `json:"-" gorm:"foreignKey:SourceID;references:ID;constraint:OnDelete:RESTRICT;"`
	BookID                int64        `json:"bookID" gorm:"not null;index:idx_text_contents_unit_key,unique,priority:2;index:idx_text_contents_book"`
	Book                  Book         `json:"-" gorm:"foreignKey:BookID;references:ID;constraint:OnDelete:RESTRICT;"`
	UnitTypeID            int64        `json:"unitTypeID" gorm:"not null"`
	UnitType              UnitType     `json:"-" gorm:"foreignKey:UnitTypeID;references:ID;constraint:OnDelete:RESTRICT;"`
	LanguageID            int64        `json:"languageID" gorm:"not null"`
	Language              Language     `json:"-" gorm:"foreignKey:LanguageID;references:ID;constraint:OnDelete:RESTRICT;"`
	ParentUnitID          *int64       `json:"parentUnitID" gorm:"index"`
	ParentUnit            *TextContent `json:"-" gorm:"foreignKey:ParentUnitID;references:ID;constraint:OnDelete:CASCADE;"`
	UnitGroup             string       `json:"unitGroup" gorm:"type:text;not null;default:''"`
	Unit                  string       `json:"unit" gorm:"type:text;not null;default:''"`
	Content               string       `json:"content" gorm:"type:text;not null;default:''"`
	UnitKey               *string      `json:"unitKey" gorm:"type:text;index:idx_text_contents_unit_key,unique,priority:3"`
	LiteralReconstruction string       `json:"literalReconstruction" gorm:"type:text;not null;default:''"`
	WordForWord           string       `json:"wordForWord" gorm:"type:text;not null;default:''"`
	CreatedAt             time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt             time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

type CanonTextContent struct {
	TextContentID int64       `json:"textContentID" gorm:"primaryKey;autoIncrement:false"`
	TextContent   TextContent `json:"-" gorm:"foreignKey:TextContentID;references:ID;constraint:OnDelete:CASCADE;"`
	CanonID       int64       `json:"canonID" gorm:"primaryKey;autoIncrement:false;index"`
	Canon         Canon       `json:"-" gorm:"foreignKey:CanonID;references:ID;constraint:OnDelete:CASCADE;"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}

// TextTranslation revision and latest-pointer indexes are created by
// database.Migrate because their shape depends on the revision scope.
type TextTranslation struct {
	ID               int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	TextContentID    int64       `json:"textContentID" gorm:"not null;index"`
	TextContent      TextContent `json:"-" gorm:"foreignKey:TextContentID;references:ID;constraint:OnDelete:CASCADE;"`
	LanguageTargetID int64       `json:"languageTargetID" gorm:"not null;index"`
	LanguageTarget   Language    `json:"-" gorm:"foreignKey:LanguageTargetID;references:ID;constraint:OnDelete:RESTRICT;"`
	WordForWord      string      `json:"wordForWord" gorm:"type:text;not null;default:''"`
	AITranslation    string      `json:"aiTranslation" gorm:"column:ai_translation;type:text;not null;default:''"`
	AIExplanation    string      `json:"aiExplanation" gorm:"column:ai_explanation;type:text;not null;default:''"`
	ModelName        string      `json:"modelName" gorm:"type:text;not null;default:''"`
	Confidence       *float64    `json:"confidence"`
	RevisionNumber   int         `json:"revisionNumber" gorm:"not null"`
	IsLatest         bool        `json:"isLatest" gorm:"not null;default:false"`
	ConfirmedAt      *time.Time  `json:"confirmedAt"`
	ConfirmedBy      *string     `json:"confirmedBy" gorm:"type:text"`
	Notes            string      `json:"notes" gorm:"type:text;not null;default:''"`
	CreatedAt        time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}
