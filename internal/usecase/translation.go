package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
)

type TranslationUsecase struct {
	translations TranslationRepository
	contents     TextContentRepository
	refs         ReferenceRepository
	cache        TranslationCache
	events       EventPublisher
	scope        domain.RevisionScope
	logger       *slog.Logger
	now          func() time.Time
}

// NewTranslationUsecase builds the revision ledger. cache and events may
// be nil.
func NewTranslationUsecase(
	translations TranslationRepository,
	contents TextContentRepository,
	refs ReferenceRepository,
	cache TranslationCache,
	events EventPublisher,
	config domain.LedgerConfig,
	logger *slog.Logger,
) *TranslationUsecase {
	return &TranslationUsecase{
		translations: translations,
		contents:     contents,
		refs:         refs,
		cache:        cache,
		events:       events,
		scope:        config.Scope(),
		logger:       orDefault(logger),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// AppendRevision stores a new revision and makes it the latest for its
// (text content, language) pair.
func (uc *TranslationUsecase) AppendRevision(ctx context.Context, textContentID, languageID int64, fields textcanon.TranslationFields) (domain.TextTranslation, error) {
	ctx, span := tracer.Start(ctx, "Translation.Usecase.AppendRevision")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("TextContentID", textContentID),
		attribute.Int64("LanguageID", languageID),
	)

	if fields.Confidence != nil && (*fields.Confidence < 0 || *fields.Confidence > 1) {
		return domain.TextTranslation{}, recordError(span, domain.ValidationError{Field: "confidence", Message: "must be between 0 and 1"})
	}
	if _, err := uc.contents.Get(ctx, textContentID); err != nil {
		return domain.TextTranslation{}, recordError(span, err)
	}
	if _, err := uc.refs.GetLanguage(ctx, languageID); err != nil {
		return domain.TextTranslation{}, recordError(span, referenceError(err, "languageId", "language", languageID))
	}

	saved, err := uc.translations.Append(ctx, domain.TextTranslation{
		TextContentID:    textContentID,
		LanguageTargetID: languageID,
		WordForWord:      fields.WordForWord,
		AITranslation:    fields.AITranslation,
		AIExplanation:    fields.AIExplanation,
		ModelName:        fields.ModelName,
		Confidence:       fields.Confidence,
		Notes:            fields.Notes,
	}, uc.scope)
	if err != nil {
		return domain.TextTranslation{}, recordError(span, err)
	}

	uc.changed(ctx, domain.EventTranslationAppended, saved)
	return saved, nil
}

// Promote makes an existing revision the latest for its pair.
func (uc *TranslationUsecase) Promote(ctx context.Context, revisionID int64) (domain.TextTranslation, error) {
	ctx, span := tracer.Start(ctx, "Translation.Usecase.Promote")
	defer span.End()
	span.SetAttributes(attribute.Int64("TranslationID", revisionID))

	promoted, err := uc.translations.Promote(ctx, revisionID)
	if err != nil {
		return domain.TextTranslation{}, recordError(span, err)
	}

	uc.changed(ctx, domain.EventTranslationPromoted, promoted)
	return promoted, nil
}

// Confirm records who reviewed a revision and when.
func (uc *TranslationUsecase) Confirm(ctx context.Context, revisionID int64, confirmedBy string) (domain.TextTranslation, error) {
	ctx, span := tracer.Start(ctx, "Translation.Usecase.Confirm")
	defer span.End()
	span.SetAttributes(attribute.Int64("TranslationID", revisionID))

	confirmedBy = strings.TrimSpace(confirmedBy)
	if confirmedBy == "" {
		return domain.TextTranslation{}, recordError(span, domain.ValidationError{Field: "confirmedBy", Message: "is required"})
	}

	confirmed, err := uc.translations.Confirm(ctx, revisionID, confirmedBy, uc.now())
	if err != nil {
		return domain.TextTranslation{}, recordError(span, err)
	}

	uc.changed(ctx, domain.EventTranslationConfirm, confirmed)
	return confirmed, nil
}

// LatestFor returns the latest revision for a pair, or NotFoundError.
func (uc *TranslationUsecase) LatestFor(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, error) {
	ctx, span := tracer.Start(ctx, "Translation.Usecase.LatestFor")
	defer span.End()

	var generation uint64
	if uc.cache != nil {
		cached, gen, ok := uc.cache.GetLatest(ctx, textContentID, languageID)
		if ok {
			span.SetAttributes(attribute.Bool("CacheHit", true))
			return cached, nil
		}
		generation = gen
	}

	latest, err := uc.translations.Latest(ctx, textContentID, languageID)
	if err != nil {
		return domain.TextTranslation{}, recordError(span, err)
	}
	if uc.cache != nil {
		uc.cache.SetLatest(ctx, latest, generation)
	}
	return latest, nil
}

// History lists revisions oldest first. languageID 0 selects every language.
func (uc *TranslationUsecase) History(ctx context.Context, textContentID, languageID int64) ([]domain.TextTranslation, error) {
	ctx, span := tracer.Start(ctx, "Translation.Usecase.History")
	defer span.End()

	if _, err := uc.contents.Get(ctx, textContentID); err != nil {
		return nil, recordError(span, err)
	}
	history, err := uc.translations.History(ctx, textContentID, languageID)
	return history, recordError(span, err)
}

func (uc *TranslationUsecase) changed(ctx context.Context, eventType string, t domain.TextTranslation) {
	if uc.cache != nil {
		uc.cache.InvalidateLatest(ctx, t.TextContentID, t.LanguageTargetID)
	}
	uc.logger.InfoContext(ctx, eventType,
		slog.Int64("id", t.ID),
		slog.Int64("textContentId", t.TextContentID),
		slog.Int64("languageId", t.LanguageTargetID),
		slog.Int("revision", t.RevisionNumber),
	)
	publish(ctx, uc.events, uc.logger, domain.Event{
		Type:       eventType,
		ResourceID: t.ID,
		ParentID:   t.TextContentID,
		LanguageID: t.LanguageTargetID,
	})
}
