package repository

import (
	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

func toDomainLanguage(m models.Language) domain.Language {
	return domain.Language{ID: m.ID, Code: m.Code, Name: m.Name, Script: m.Script}
}

func toDomainUnitType(m models.UnitType) domain.UnitType {
	return domain.UnitType{ID: m.ID, Code: m.Code, Name: m.Name}
}

func toDomainSource(m models.Source) domain.Source {
	return domain.Source{
		ID:                m.ID,
		Code:              m.Code,
		Name:              m.Name,
		LanguageID:        m.LanguageID,
		DefaultUnitTypeID: m.DefaultUnitTypeID,
	}
}

func toDomainBook(m models.Book) domain.Book {
	return domain.Book{ID: m.ID, Code: m.Code, Name: m.Name}
}

func toDomainCanon(m models.Canon) domain.Canon {
	return domain.Canon{ID: m.ID, Code: m.Code, Name: m.Name, DisplayOrder: m.DisplayOrder}
}

func toDomainTextContent(m models.TextContent) domain.TextContent {
	return domain.TextContent{
		ID:                    m.ID,
		SourceID:              m.SourceID,
		BookID:                m.BookID,
		UnitTypeID:            m.UnitTypeID,
		LanguageID:            m.LanguageID,
		ParentUnitID:          m.ParentUnitID,
		UnitGroup:             m.UnitGroup,
		Unit:                  m.Unit,
		Content:               m.Content,
		UnitKey:               m.UnitKey,
		LiteralReconstruction: m.LiteralReconstruction,
		WordForWord:           m.WordForWord,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func fromDomainTextContent(c domain.TextContent) models.TextContent {
	return models.TextContent{
		ID:                    c.ID,
		SourceID:              c.SourceID,
		BookID:                c.BookID,
		UnitTypeID:            c.UnitTypeID,
		LanguageID:            c.LanguageID,
		ParentUnitID:          c.ParentUnitID,
		UnitGroup:             c.UnitGroup,
		Unit:                  c.Unit,
		Content:               c.Content,
		UnitKey:               c.UnitKey,
		LiteralReconstruction: c.LiteralReconstruction,
		WordForWord:           c.WordForWord,
	}
}

func toDomainTranslation(m models.TextTranslation) domain.TextTranslation {
	return domain.TextTranslation{
		ID:               m.ID,
		TextContentID:    m.TextContentID,
		LanguageTargetID: m.LanguageTargetID,
		WordForWord:      m.WordForWord,
		AITranslation:    m.AITranslation,
		AIExplanation:    m.AIExplanation,
		ModelName:        m.ModelName,
		Confidence:       m.Confidence,
		RevisionNumber:   m.RevisionNumber,
		IsLatest:         m.IsLatest,
		ConfirmedAt:      m.ConfirmedAt,
		ConfirmedBy:      m.ConfirmedBy,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
}

func toDomainTextUnit(m models.TextUnit) domain.TextUnit {
	return domain.TextUnit{
		UnitID:       m.UnitID,
		Tradition:    m.Tradition,
		DivisionCode: m.DivisionCode,
		Chapter:      m.Chapter,
		Verse:        m.Verse,
		Subref:       m.Subref,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainPayload(m models.TextPayload) domain.TextPayload {
	return domain.TextPayload{
		ID:         m.ID,
		UnitID:     m.UnitID,
		EditionID:  m.EditionID,
		Layer:      m.Layer,
		LanguageID: m.LanguageID,
		Content:    m.Content,
		UpdatedAt:  m.UpdatedAt,
	}
}
