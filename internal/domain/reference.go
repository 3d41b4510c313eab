package domain

// Language is a natural language a text or translation is written in.
// Script is an ISO 15924 code and selects the punctuation table applied
// during normalization.
type Language struct {
	ID     int64  `json:"id" yaml:"-"`
	Code   string `json:"code" yaml:"code"`
	Name   string `json:"name" yaml:"name"`
	Script string `json:"script,omitempty" yaml:"script"`
}

// UnitType names the granularity of an addressable unit (verse, ayah, line).
type UnitType struct {
	ID   int64  `json:"id" yaml:"-"`
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Source is an edition or publication of a text.
type Source struct {
	ID                int64  `json:"id" yaml:"-"`
	Code              string `json:"code" yaml:"code"`
	Name              string `json:"name" yaml:"name"`
	LanguageID        *int64 `json:"languageId,omitempty" yaml:"-"`
	DefaultUnitTypeID *int64 `json:"defaultUnitTypeId,omitempty" yaml:"-"`
}

// Book is a canonical work identifier such as GEN.
type Book struct {
	ID   int64  `json:"id" yaml:"-"`
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Canon is a named collection of books/units.
type Canon struct {
	ID           int64  `json:"id" yaml:"-"`
	Code         string `json:"code" yaml:"code"`
	Name         string `json:"name" yaml:"name"`
	DisplayOrder int    `json:"displayOrder" yaml:"displayOrder"`
}

// CanonRef is the display projection of a canon membership.
type CanonRef struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
}
