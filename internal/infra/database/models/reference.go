package models

import "time"

type Language struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Script    string    `json:"script" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type UnitType struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type Source struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code              string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name              string    `json:"name" gorm:"type:text;not null"`
	LanguageID        *int64    `json:"languageID" gorm:"index"`
	Language          *Language `json:"-" gorm:"foreignKey:LanguageID;references:ID;constraint:OnDelete:SET NULL;"`
	DefaultUnitTypeID *int64    `json:"defaultUnitTypeID"`
	DefaultUnitType   *UnitType `json:"-" gorm:"foreignKey:DefaultUnitTypeID;references:ID;constraint:OnDelete:SET NULL;"`
	CreatedAt         time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type Book struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type Canon struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code         string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"type:text;not null"`
	DisplayOrder int       `json:"displayOrder" gorm:"not null;default:0;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
