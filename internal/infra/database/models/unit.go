package models

import "time"

type TextUnit struct {
	UnitID       string    `json:"unitID" gorm:"primaryKey;type:text"`
	Tradition    string    `json:"tradition" gorm:"type:text;not null;index:idx_text_units_coordinates,unique,priority:1"`
	DivisionCode string    `json:"divisionCode" gorm:"type:text;not null;index:idx_text_units_coordinates,unique,priority:2"`
	Chapter      int       `json:"chapter" gorm:"not null;index:idx_text_units_coordinates,unique,priority:3"`
	Verse        int       `json:"verse" gorm:"not null;index:idx_text_units_coordinates,unique,priority:4"`
	Subref       string    `json:"subref" gorm:"type:text;not null;default:'';index:idx_text_units_coordinates,unique,priority:5"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// Declared on the parent so the foreign keys land on the child tables.
	Maps     []CanonMap    `json:"-" gorm:"foreignKey:UnitID;references:UnitID;constraint:OnDelete:CASCADE;"`
	Payloads []TextPayload `json:"-" gorm:"foreignKey:UnitID;references:UnitID;constraint:OnDelete:CASCADE;"`
}

type CanonMap struct {
	ID       int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CanonID  int64    `json:"canonID" gorm:"not null;index:idx_canon_maps_unit,unique,priority:1"`
	Canon    Canon    `json:"-" gorm:"foreignKey:CanonID;references:ID;constraint:OnDelete:CASCADE;"`
	UnitID   string   `json:"unitID" gorm:"type:text;not null;index:idx_canon_maps_unit,unique,priority:2"`
	Sequence int      `json:"sequence" gorm:"not null;default:0"`
}

type TextPayload struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UnitID     string    `json:"unitID" gorm:"type:text;not null;index:idx_text_payloads_slot,unique,priority:1"`
	EditionID  int64     `json:"editionID" gorm:"not null;index:idx_text_payloads_slot,unique,priority:2"`
	Edition    Source    `json:"-" gorm:"foreignKey:EditionID;references:ID;constraint:OnDelete:RESTRICT;"`
	Layer      string    `json:"layer" gorm:"type:text;not null;index:idx_text_payloads_slot,unique,priority:3"`
	LanguageID int64     `json:"languageID" gorm:"not null;index:idx_text_payloads_slot,unique,priority:4"`
	Language   Language  `json:"-" gorm:"foreignKey:LanguageID;references:ID;constraint:OnDelete:RESTRICT;"`
	Content    string    `json:"content" gorm:"type:text;not null;default:''"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
