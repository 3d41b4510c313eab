package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
)

type TextContentUsecase struct {
	contents   TextContentRepository
	refs       ReferenceRepository
	resolver   *IdentityResolver
	normalizer Normalizer
	events     EventPublisher
	logger     *slog.Logger
}

func NewTextContentUsecase(
	contents TextContentRepository,
	refs ReferenceRepository,
	resolver *IdentityResolver,
	normalizer Normalizer,
	events EventPublisher,
	logger *slog.Logger,
) *TextContentUsecase {
	return &TextContentUsecase{
		contents:   contents,
		refs:       refs,
		resolver:   resolver,
		normalizer: normalizer,
		events:     events,
		logger:     orDefault(logger),
	}
}

// Create validates, normalizes and stores a new text content. canonIDs,
// when non-nil, becomes its canon membership set.
func (uc *TextContentUsecase) Create(ctx context.Context, fields textcanon.TextContentFields, canonIDs []int64) (domain.TextContent, error) {
	ctx, span := tracer.Start(ctx, "TextContent.Usecase.Create")
	defer span.End()

	required := []struct {
		field string
		value *int64
	}{
		{"sourceId", fields.SourceID},
		{"bookId", fields.BookID},
		{"unitTypeId", fields.UnitTypeID},
		{"languageId", fields.LanguageID},
	}
	for _, r := range required {
		if r.value == nil {
			return domain.TextContent{}, recordError(span, domain.ValidationError{Field: r.field, Message: "is required"})
		}
	}

	var content domain.TextContent
	applyFields(&content, fields)

	if err := uc.prepare(ctx, &content, nil); err != nil {
		return domain.TextContent{}, recordError(span, err)
	}

	saved, err := uc.contents.Create(ctx, content, canonIDs)
	if err != nil {
		return domain.TextContent{}, recordError(span, err)
	}

	span.SetAttributes(attribute.Int64("TextContentID", saved.ID))
	uc.logger.InfoContext(ctx, "text content created",
		slog.Int64("id", saved.ID),
		slog.String("unitKey", keyString(saved.UnitKey)),
	)
	publish(ctx, uc.events, uc.logger, domain.Event{
		Type:       domain.EventTextContentCreated,
		ResourceID: saved.ID,
		UnitKey:    keyString(saved.UnitKey),
	})
	return saved, nil
}

// Update merges fields over the stored row. The unit key is recomputed and
// re-reserved when a key component changed. canonIDs nil keeps the current
// memberships.
func (uc *TextContentUsecase) Update(ctx context.Context, id int64, fields textcanon.TextContentFields, canonIDs []int64) (domain.TextContent, error) {
	ctx, span := tracer.Start(ctx, "TextContent.Usecase.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("TextContentID", id))

	existing, err := uc.contents.Get(ctx, id)
	if err != nil {
		return domain.TextContent{}, recordError(span, err)
	}

	merged := existing
	applyFields(&merged, fields)

	if err := uc.prepare(ctx, &merged, &existing); err != nil {
		return domain.TextContent{}, recordError(span, err)
	}

	saved, err := uc.contents.Update(ctx, merged, canonIDs)
	if err != nil {
		return domain.TextContent{}, recordError(span, err)
	}

	uc.logger.InfoContext(ctx, "text content updated",
		slog.Int64("id", saved.ID),
		slog.String("unitKey", keyString(saved.UnitKey)),
		slog.Bool("keyChanged", keyString(saved.UnitKey) != keyString(existing.UnitKey)),
	)
	publish(ctx, uc.events, uc.logger, domain.Event{
		Type:       domain.EventTextContentUpdated,
		ResourceID: saved.ID,
		UnitKey:    keyString(saved.UnitKey),
	})
	return saved, nil
}

func (uc *TextContentUsecase) Get(ctx context.Context, id int64) (domain.TextContent, error) {
	ctx, span := tracer.Start(ctx, "TextContent.Usecase.Get")
	defer span.End()

	content, err := uc.contents.Get(ctx, id)
	return content, recordError(span, err)
}

// GetByCoordinates finds a text content by source code, book code, unit
// group and unit.
func (uc *TextContentUsecase) GetByCoordinates(ctx context.Context, coords textcanon.UnitCoordinates) (domain.TextContent, error) {
	ctx, span := tracer.Start(ctx, "TextContent.Usecase.GetByCoordinates")
	defer span.End()

	key, ok := coords.Key()
	if !ok {
		return domain.TextContent{}, recordError(span, domain.ValidationError{Field: "coordinates", Message: "source, book, unit group and unit are required"})
	}
	span.SetAttributes(attribute.String("UnitKey", key))

	source, err := uc.refs.FindSourceByCode(ctx, coords.SourceCode)
	if err != nil {
		return domain.TextContent{}, recordError(span, err)
	}
	book, err := uc.refs.FindBookByCode(ctx, coords.BookCode)
	if err != nil {
		return domain.TextContent{}, recordError(span, err)
	}

	content, err := uc.contents.FindByUnitKey(ctx, source.ID, book.ID, key)
	return content, recordError(span, err)
}

// Delete removes a text content together with its memberships and
// translations.
func (uc *TextContentUsecase) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "TextContent.Usecase.Delete")
	defer span.End()

	if err := uc.contents.Delete(ctx, id); err != nil {
		return recordError(span, err)
	}

	uc.logger.InfoContext(ctx, "text content deleted", slog.Int64("id", id))
	publish(ctx, uc.events, uc.logger, domain.Event{Type: domain.EventTextContentDeleted, ResourceID: id})
	return nil
}

// prepare validates references and coordinates, normalizes the content
// and assigns the unit key. previous is nil on create.
func (uc *TextContentUsecase) prepare(ctx context.Context, content *domain.TextContent, previous *domain.TextContent) error {
	if !textcanon.IsKeyComponent(content.UnitGroup) {
		return domain.ValidationError{Field: "unitGroup", Message: "must not contain " + textcanon.UnitKeySeparator}
	}
	if !textcanon.IsKeyComponent(content.Unit) {
		return domain.ValidationError{Field: "unit", Message: "must not contain " + textcanon.UnitKeySeparator}
	}

	language, err := uc.refs.GetLanguage(ctx, content.LanguageID)
	if err != nil {
		return referenceError(err, "languageId", "language", content.LanguageID)
	}
	if _, err := uc.refs.GetUnitType(ctx, content.UnitTypeID); err != nil {
		return referenceError(err, "unitTypeId", "unit type", content.UnitTypeID)
	}

	if content.ParentUnitID != nil {
		parentID := *content.ParentUnitID
		if content.ID != 0 && parentID == content.ID {
			return domain.ValidationError{Field: "parentUnitId", Message: "a text content cannot be its own parent"}
		}
		if _, err := uc.contents.Get(ctx, parentID); err != nil {
			return referenceError(err, "parentUnitId", "text content", parentID)
		}
	}

	content.Content = uc.normalizer.Normalize(language.Script, content.Content)

	if previous != nil && previous.UnitKey != nil && !keyComponentsChanged(*previous, *content) {
		content.UnitKey = previous.UnitKey
		return nil
	}

	key, err := uc.resolver.ReserveKey(ctx, content.SourceID, content.BookID, content.UnitGroup, content.Unit, content.ID)
	if err != nil {
		return err
	}
	if key == "" {
		content.UnitKey = nil
	} else {
		content.UnitKey = &key
	}
	return nil
}

func applyFields(c *domain.TextContent, f textcanon.TextContentFields) {
	if f.SourceID != nil {
		c.SourceID = *f.SourceID
	}
	if f.BookID != nil {
		c.BookID = *f.BookID
	}
	if f.UnitTypeID != nil {
		c.UnitTypeID = *f.UnitTypeID
	}
	if f.LanguageID != nil {
		c.LanguageID = *f.LanguageID
	}
	if f.ParentUnitID != nil {
		parent := *f.ParentUnitID
		c.ParentUnitID = &parent
	}
	if f.UnitGroup != nil {
		c.UnitGroup = strings.TrimSpace(*f.UnitGroup)
	}
	if f.Unit != nil {
		c.Unit = strings.TrimSpace(*f.Unit)
	}
	if f.Content != nil {
		c.Content = *f.Content
	}
	if f.LiteralReconstruction != nil {
		c.LiteralReconstruction = *f.LiteralReconstruction
	}
	if f.WordForWord != nil {
		c.WordForWord = *f.WordForWord
	}
}

func keyComponentsChanged(a, b domain.TextContent) bool {
	return a.SourceID != b.SourceID ||
		a.BookID != b.BookID ||
		a.UnitGroup != b.UnitGroup ||
		a.Unit != b.Unit
}

func keyString(key *string) string {
	if key == nil {
		return ""
	}
	return *key
}

// IsConflict reports whether err is a unit key conflict.
func IsConflict(err error) bool {
	return errors.Is(err, domain.ErrKeyConflict)
}
