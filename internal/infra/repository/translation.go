package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

const maxAppendAttempts = 3

type TranslationRepository struct {
	db      *gorm.DB
	attempt func(ctx context.Context, t domain.TextTranslation, scope domain.RevisionScope) (models.TextTranslation, error)
}

func NewTranslationRepository(db *gorm.DB) *TranslationRepository {
	r := &TranslationRepository{db: db}
	r.attempt = r.appendOnce
	return r
}

// Append stores t as the next revision and makes it the latest for its
// (text content, language) pair. Revision numbers follow scope. A writer
// that loses a race on the unique indexes retries with a fresh number.
func (r *TranslationRepository) Append(ctx context.Context, t domain.TextTranslation, scope domain.RevisionScope) (domain.TextTranslation, error) {
	var (
		row models.TextTranslation
		err error
	)
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		row, err = r.attempt(ctx, t, scope)
		if err == nil {
			return toDomainTranslation(row), nil
		}
		if !isDuplicate(err) {
			break
		}
	}

	var notFound domain.NotFoundError
	if errors.As(err, &notFound) {
		return domain.TextTranslation{}, err
	}
	if isForeignKey(err) {
		return domain.TextTranslation{}, domain.ValidationError{
			Field:   "languageId",
			Message: fmt.Sprintf("language %d does not exist", t.LanguageTargetID),
		}
	}
	if isDuplicate(err) {
		return domain.TextTranslation{}, domain.KeyConflictError{
			Key:        fmt.Sprintf("revision of text content %d", t.TextContentID),
			ExistingID: fmt.Sprintf("concurrent writer after %d attempts", maxAppendAttempts),
		}
	}
	return domain.TextTranslation{}, errors.Wrap(err, "TranslationRepository.Append")
}

func (r *TranslationRepository) appendOnce(ctx context.Context, t domain.TextTranslation, scope domain.RevisionScope) (models.TextTranslation, error) {
	row := models.TextTranslation{
		TextContentID:    t.TextContentID,
		LanguageTargetID: t.LanguageTargetID,
		WordForWord:      t.WordForWord,
		AITranslation:    t.AITranslation,
		AIExplanation:    t.AIExplanation,
		ModelName:        t.ModelName,
		Confidence:       t.Confidence,
		Notes:            t.Notes,
		IsLatest:         true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes appends on the same content where row locks exist.
		var content models.TextContent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", t.TextContentID).
			Take(&content).Error
		if isNotFound(err) {
			return domain.NotFoundError{Resource: "text content"}
		}
		if err != nil {
			return err
		}

		revisions := tx.Model(&models.TextTranslation{}).Where("text_content_id = ?", t.TextContentID)
		if scope == domain.RevisionScopeLanguage {
			revisions = revisions.Where("language_target_id = ?", t.LanguageTargetID)
		}
		var maxRevision int
		if err := revisions.Select("COALESCE(MAX(revision_number), 0)").Scan(&maxRevision).Error; err != nil {
			return err
		}
		row.RevisionNumber = maxRevision + 1

		if err := demote(tx, t.TextContentID, t.LanguageTargetID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&row).Error
	})
	return row, err
}

// Promote makes id the only latest revision of its (text content, language)
// pair.
func (r *TranslationRepository) Promote(ctx context.Context, id int64) (domain.TextTranslation, error) {
	var row models.TextTranslation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&row).Error
		if isNotFound(err) {
			return domain.NotFoundError{Resource: "translation"}
		}
		if err != nil {
			return err
		}
		if err := demote(tx, row.TextContentID, row.LanguageTargetID); err != nil {
			return err
		}
		if err := tx.Model(&models.TextTranslation{}).Where("id = ?", id).Update("is_latest", true).Error; err != nil {
			return err
		}
		row.IsLatest = true
		return nil
	})
	if err != nil {
		var notFound domain.NotFoundError
		if errors.As(err, &notFound) {
			return domain.TextTranslation{}, err
		}
		return domain.TextTranslation{}, errors.Wrap(err, "TranslationRepository.Promote")
	}
	return toDomainTranslation(row), nil
}

// Confirm records who confirmed a revision and when.
func (r *TranslationRepository) Confirm(ctx context.Context, id int64, confirmedBy string, at time.Time) (domain.TextTranslation, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TextTranslation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"confirmed_at": at,
			"confirmed_by": confirmedBy,
		})
	if res.Error != nil {
		return domain.TextTranslation{}, errors.Wrap(res.Error, "TranslationRepository.Confirm")
	}
	if res.RowsAffected == 0 {
		return domain.TextTranslation{}, domain.NotFoundError{Resource: "translation"}
	}
	return r.Get(ctx, id)
}

func (r *TranslationRepository) Get(ctx context.Context, id int64) (domain.TextTranslation, error) {
	var row models.TextTranslation
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if isNotFound(err) {
		return domain.TextTranslation{}, domain.NotFoundError{Resource: "translation"}
	}
	if err != nil {
		return domain.TextTranslation{}, errors.Wrap(err, "TranslationRepository.Get")
	}
	return toDomainTranslation(row), nil
}

func (r *TranslationRepository) Latest(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, error) {
	var row models.TextTranslation
	err := r.db.WithContext(ctx).
		Where("text_content_id = ? AND language_target_id = ? AND is_latest = ?", textContentID, languageID, true).
		Order("revision_number DESC").
		Take(&row).Error
	if isNotFound(err) {
		return domain.TextTranslation{}, domain.NotFoundError{Resource: "translation"}
	}
	if err != nil {
		return domain.TextTranslation{}, errors.Wrap(err, "TranslationRepository.Latest")
	}
	return toDomainTranslation(row), nil
}

// History lists revisions oldest first. languageID 0 lists every language.
func (r *TranslationRepository) History(ctx context.Context, textContentID, languageID int64) ([]domain.TextTranslation, error) {
	q := r.db.WithContext(ctx).Where("text_content_id = ?", textContentID)
	if languageID != 0 {
		q = q.Where("language_target_id = ?", languageID)
	}

	var rows []models.TextTranslation
	if err := q.Order("revision_number ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "TranslationRepository.History")
	}

	history := make([]domain.TextTranslation, 0, len(rows))
	for _, row := range rows {
		history = append(history, toDomainTranslation(row))
	}
	return history, nil
}

func demote(tx *gorm.DB, textContentID, languageID int64) error {
	return tx.Model(&models.TextTranslation{}).
		Where("text_content_id = ? AND language_target_id = ? AND is_latest = ?", textContentID, languageID, true).
		Update("is_latest", false).Error
}
